package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/xzxcupidxzx/finance/docs"
)

// flagPredictors predicts the values of well known flags. Other flags take
// anything.
var flagPredictors = map[string]complete.Predictor{
	"backend": predict.Set{"dir", "sqlite", "memory"},
	"type":    predict.Set{"Income", "Expense"},
	"p":       predict.Set{"all", "week", "month", "quarter", "year"},
	"o":       predict.Files("*.json*"),
}

// Completion returns the shell completion of the commands registered on
// commander and of the global flags in global.
//
// Install it with COMP_INSTALL=1 pft.
func Completion(commander *subcommands.Commander, global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags(global),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: predictFlags(fs)}
		switch c.Name() {
		case "import":
			sub.Args = predict.Files("*.json*")
		case "topic":
			sub.Args = predict.Set(docs.GetAllTopics())
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		if p, ok := flagPredictors[fl.Name]; ok {
			flags[fl.Name] = p
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}

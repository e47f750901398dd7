package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/renderer"
)

type historyCmd struct {
	account string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list past reconciliations" }
func (*historyCmd) Usage() string {
	return `pft history [-account <account>]

  Lists the reconciliation history, most recent first.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Only the reconciliations of that account.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	var entries []finance.ReconciliationEntry
	for _, e := range s.store.History() {
		if c.account == "" || e.Account == c.account {
			entries = append(entries, e)
		}
	}
	printMarkdown(renderer.HistoryMarkdown(entries, s.store.Location()))
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance/date"
	"github.com/xzxcupidxzx/finance/renderer"
)

type balanceCmd struct {
	date string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display account balances" }
func (*balanceCmd) Usage() string {
	return `pft balance [-d <date>]

  Displays the balance of every account, derived from the transactions.
  With -d, only the transactions up to the end of that day are counted.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Balances at the end of that day. Defaults to all transactions.")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	title, balances := "Balances", s.store.Balances()
	if c.date != "" {
		on, err := date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		title = "Balances on " + on.String()
		balances = s.store.BalancesAsOf(on.Add(1).Start(s.store.Location()))
	}
	printMarkdown(renderer.RenderBalances(renderer.NewBalances(title, s.store.Accounts(), balances)))
	return subcommands.ExitSuccess
}

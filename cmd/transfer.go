package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/renderer"
)

type transferCmd struct {
	from, to    string
	amount      string
	datetime    string
	description string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `pft transfer -from <account> -to <account> -a <amount> [-d <datetime>] [-m <description>]

  Records a transfer as two linked transactions: an expense on the source
  account and an income on the destination account. Transfers are not counted
  in incomes nor expenses.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account.")
	f.StringVar(&c.to, "to", "", "Destination account.")
	f.StringVar(&c.amount, "a", "", "Amount transferred.")
	f.StringVar(&c.datetime, "d", "", "Datetime of the transfer. Defaults to now.")
	f.StringVar(&c.description, "m", "", "Description of the transfer.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := finance.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	tr, err := s.store.AddTransfer(finance.TransferDraft{
		Datetime:    c.datetime,
		From:        c.from,
		To:          c.to,
		Amount:      amount,
		Description: strings.TrimSpace(strings.Join(append([]string{c.description}, f.Args()...), " ")),
	})
	if status, ok := mutated(err); !ok {
		return status
	}
	fmt.Fprintln(stdout, renderer.Transfer(tr))
	return subcommands.ExitSuccess
}

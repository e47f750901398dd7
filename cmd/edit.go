package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/renderer"
)

type editCmd struct {
	typ, category, amount, account, to string
	datetime, description, currency   string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change fields of a transaction" }
func (*editCmd) Usage() string {
	return `pft edit [-type <type>] [-c <category>] [-a <amount>] [-account <account>] [-to <account>] [-d <datetime>] [-m <description>] [-cur <currency>] <id>

  Changes the given fields of a transaction, the others are kept. Editing
  either leg of a transfer edits the whole transfer: -account is its source
  and -to its destination.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "New type, Income or Expense.")
	f.StringVar(&c.category, "c", "", "New category.")
	f.StringVar(&c.amount, "a", "", "New amount.")
	f.StringVar(&c.account, "account", "", "New account, or source account of a transfer.")
	f.StringVar(&c.to, "to", "", "New destination account of a transfer.")
	f.StringVar(&c.datetime, "d", "", "New datetime.")
	f.StringVar(&c.description, "m", "", "New description.")
	f.StringVar(&c.currency, "cur", "", "Currency of the new amount, when not VND.")
}

// patch builds the patch from the flags set on the command line.
func (c *editCmd) patch(f *flag.FlagSet) (finance.Patch, error) {
	var p finance.Patch
	var err error
	f.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "type":
			var t finance.Type
			t, err = finance.ParseType(c.typ)
			p.Type = &t
		case "c":
			p.Category = &c.category
		case "a":
			var v decimal.Decimal
			v, err = finance.ParseAmount(c.amount)
			if c.currency != "" {
				zero := decimal.Zero
				p.Amount, p.OriginalAmount, p.OriginalCurrency = &zero, &v, &c.currency
			} else {
				p.Amount = &v
			}
		case "account":
			p.Account = &c.account
		case "to":
			p.ToAccount = &c.to
		case "d":
			p.Datetime = &c.datetime
		case "m":
			p.Description = &c.description
		}
	})
	return p, err
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: edit takes exactly one transaction id.")
		return subcommands.ExitUsageError
	}
	p, err := c.patch(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	tx, err := s.store.Update(f.Arg(0), p)
	if status, ok := mutated(err); !ok {
		return status
	}
	fmt.Fprintf(stdout, "Updated %s\n", renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

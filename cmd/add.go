package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/renderer"
)

type addCmd struct {
	income      bool
	category    string
	amount      string
	account     string
	datetime    string
	description string
	currency    string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an expense or an income" }
func (*addCmd) Usage() string {
	return `pft add [-income] -c <category> -a <amount> [-account <account>] [-d <datetime>] [-m <description>] [-cur <currency>]

  Records an expense, or an income with -income. The amount accepts "45000",
  "45.000", "45k" or "2tr". With -cur the amount is in that currency and is
  converted to VND with the exchange rates of the settings.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.income, "income", false, "Record an income instead of an expense.")
	f.StringVar(&c.category, "c", "", "Category of the transaction.")
	f.StringVar(&c.amount, "a", "", "Amount of the transaction.")
	f.StringVar(&c.account, "account", "", "Account of the transaction. Defaults to the default account of the settings.")
	f.StringVar(&c.datetime, "d", "", "Datetime of the transaction, YYYY-MM-DD[THH:MM[:SS]]. Defaults to now.")
	f.StringVar(&c.description, "m", "", "Description of the transaction.")
	f.StringVar(&c.currency, "cur", "", "Currency of the amount, when not VND.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := finance.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	d := finance.Draft{
		Datetime:    c.datetime,
		Type:        finance.Expense,
		Category:    c.category,
		Amount:      amount,
		Account:     c.account,
		Description: strings.Join(append([]string{c.description}, f.Args()...), " "),
	}
	d.Description = strings.TrimSpace(d.Description)
	if c.income {
		d.Type = finance.Income
	}
	if cur := strings.ToUpper(c.currency); cur != "" && cur != finance.BaseCurrency {
		d.Amount, d.OriginalAmount, d.OriginalCurrency = decimal.Zero, amount, cur
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	tx, err := s.store.AddRegular(d)
	if status, ok := mutated(err); !ok {
		return status
	}
	fmt.Fprintf(stdout, "Added %s\n", renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

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

type reconcileCmd struct {
	dryRun bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "align an account with its actual balance" }
func (*reconcileCmd) Usage() string {
	return `pft reconcile [-n] <account> <actual_balance>

  Compares the derived balance of an account with the balance you actually
  hold. A difference is closed by an adjustment transaction and the check is
  kept in the reconciliation history. With -n only the difference is shown.
  See 'pft topic reconcile'.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Show the difference without recording anything.")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: reconcile takes an account and its actual balance.")
		return subcommands.ExitUsageError
	}
	actual, err := parseBalance(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing actual balance: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	r := finance.NewReconciler(s.store)
	diff, err := r.Enter(f.Arg(0), actual)
	if err != nil {
		return fail(err)
	}
	if c.dryRun {
		fmt.Fprintf(stdout, "Difference on %s: %s\n", f.Arg(0), finance.VND(diff).SignedString())
		return subcommands.ExitSuccess
	}

	rec, err := r.Record(f.Arg(0))
	if status, ok := mutated(err); !ok {
		return status
	}
	printMarkdown(renderer.ReconciliationMarkdown(rec))
	return subcommands.ExitSuccess
}

// parseBalance parses an amount that may be negative.
func parseBalance(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return decimal.Zero, nil
	}
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		v, err := finance.ParseAmount(rest)
		return v.Neg(), err
	}
	return finance.ParseAmount(s)
}

package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "report what was repaired when loading the ledger" }
func (*checkCmd) Usage() string {
	return `pft check

  Loads the ledger and reports the entities that were missing or corrupt and
  replaced by their default, and the transactions dropped because they were
  malformed, duplicated, or transfer legs without their pair. Repairs are
  saved on load.
`
}

func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (*checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	r := s.store.LoadReport()
	if !r.Repaired() {
		fmt.Fprintf(stdout, "The ledger is sound: %d transactions.\n", s.store.Len())
		return subcommands.ExitSuccess
	}
	if len(r.Fallbacks) > 0 {
		fmt.Fprintf(stdout, "Reset to default: %s\n", list(r.Fallbacks))
	}
	fmt.Fprintf(stdout, "Transactions: %s\n", r.Integrity)
	if len(r.Fallbacks) == len(finance.Keys) {
		fmt.Fprintln(stdout, "This is a new ledger.")
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions" }
func (*rmCmd) Usage() string {
	return `pft rm <id>...

  Deletes transactions. Deleting a leg of a transfer deletes both legs.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: rm takes at least one transaction id.")
		return subcommands.ExitUsageError
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	for _, id := range f.Args() {
		if status, ok := mutated(s.store.Delete(id)); !ok {
			return status
		}
		fmt.Fprintf(stdout, "Deleted %s\n", id)
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/renderer"
)

type accountsCmd struct {
	icon string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list and manage accounts" }
func (*accountsCmd) Usage() string {
	return `pft accounts [list]
pft accounts [-icon <icon>] add <value> [<label>]
pft accounts rename <value> <label>
pft accounts rm <value>

  Manages the accounts money is held on. System accounts cannot be removed,
  nor can accounts that still have transactions.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.icon, "icon", "", "Icon of a new account.")
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	action, args := "list", f.Args()
	if len(args) > 0 {
		action, args = args[0], args[1:]
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	switch {
	case action == "list" && len(args) == 0:
		printMarkdown(renderer.EntriesMarkdown("Accounts", s.store.Accounts()))
		return subcommands.ExitSuccess
	case action == "add" && (len(args) == 1 || len(args) == 2):
		a := finance.Account{Value: args[0], Icon: c.icon}
		if len(args) == 2 {
			a.Text = args[1]
		}
		a, err := s.store.AddAccount(a)
		if status, ok := mutated(err); !ok {
			return status
		}
		fmt.Fprintf(stdout, "Added account %s\n", a)
	case action == "rename" && len(args) == 2:
		if status, ok := mutated(s.store.RenameAccount(args[0], args[1])); !ok {
			return status
		}
		fmt.Fprintf(stdout, "Renamed account %s to %q\n", args[0], args[1])
	case action == "rm" && len(args) == 1:
		if status, ok := mutated(s.store.DeleteAccount(args[0])); !ok {
			return status
		}
		fmt.Fprintf(stdout, "Deleted account %s\n", args[0])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown usage of accounts %s, see 'pft help accounts'.\n", action)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

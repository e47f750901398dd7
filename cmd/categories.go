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

type categoriesCmd struct {
	income bool
	icon   string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list and manage categories" }
func (*categoriesCmd) Usage() string {
	return `pft categories [-income] [list]
pft categories [-income] [-icon <icon>] add <value> [<label>]
pft categories [-income] rm <value>

  Manages the expense categories, or the income categories with -income.
  System categories cannot be removed, nor can categories still in use.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.income, "income", false, "Manage the income categories instead of the expense ones.")
	f.StringVar(&c.icon, "icon", "", "Icon of a new category.")
}

func (c *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t := finance.Expense
	if c.income {
		t = finance.Income
	}
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
		printMarkdown(renderer.EntriesMarkdown(string(t)+" categories", s.store.Categories(t)))
		return subcommands.ExitSuccess
	case action == "add" && (len(args) == 1 || len(args) == 2):
		cat := finance.Category{Value: args[0], Icon: c.icon}
		if len(args) == 2 {
			cat.Text = args[1]
		}
		cat, err := s.store.AddCategory(t, cat)
		if status, ok := mutated(err); !ok {
			return status
		}
		fmt.Fprintf(stdout, "Added %s category %s\n", t, cat)
	case action == "rm" && len(args) == 1:
		if status, ok := mutated(s.store.DeleteCategory(t, args[0])); !ok {
			return status
		}
		fmt.Fprintf(stdout, "Deleted %s category %s\n", t, args[0])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown usage of categories %s, see 'pft help categories'.\n", action)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	byCategory bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the ledger summary" }
func (*summaryCmd) Usage() string {
	return `pft summary [-by-category]

  Displays the total balance and the incomes and expenses of the current
  month, transfers excluded.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.byCategory, "by-category", false, "Also break the month down by category.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	month := s.store.Now().Format("January 2006")
	md := renderer.RenderSummary(&renderer.Summary{Summary: s.store.Summary(), Month: month})
	if c.byCategory {
		txs := s.store.Filter(finance.Filter{Period: finance.PeriodMonth, ExcludeTransfers: true})
		md += "\n" + renderer.CategoriesMarkdown(month+" by category", finance.ByCategory(txs))
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/date"
	"github.com/xzxcupidxzx/finance/renderer"
)

type txCmd struct {
	period      string
	on          string
	start, end  string
	typ         string
	account     string
	category    string
	query       string
	noTransfers bool
	head        int
	tail        int
	byCategory  bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions in the ledger" }
func (*txCmd) Usage() string {
	return `pft tx [-p <period>] [-on <date>] [-s <start_date>] [-e <end_date>] [-type <type>] [-account <account>] [-c <category>] [-q <text>] [-no-transfers] [-head <n>] [-tail <n>] [-by-category]

  Lists transactions from the ledger, newest first, with options for
  filtering and limiting the output. See 'pft topic filters'.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Period: all, week, month, quarter or year, anchored on today.")
	f.StringVar(&p.on, "on", "", "Only the transactions of that day.")
	f.StringVar(&p.start, "s", "", "The start date of a custom range, inclusive.")
	f.StringVar(&p.end, "e", "", "The end date of a custom range, inclusive.")
	f.StringVar(&p.typ, "type", "", "Only Income or Expense transactions.")
	f.StringVar(&p.account, "account", "", "Only the transactions of that account.")
	f.StringVar(&p.category, "c", "", "Only the transactions of that category.")
	f.StringVar(&p.query, "q", "", "Only the transactions whose description contains that text.")
	f.BoolVar(&p.noTransfers, "no-transfers", false, "Hide transfer legs.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
	f.BoolVar(&p.byCategory, "by-category", false, "Show totals per category instead of the transactions.")
}

// filter builds the ledger filter from the flags, custom range aside.
func (p *txCmd) filter() (finance.Filter, error) {
	period, err := finance.ParsePeriod(p.period)
	if err != nil {
		return finance.Filter{}, err
	}
	f := finance.Filter{
		Period:           period,
		Account:          p.account,
		Category:         p.category,
		ExcludeTransfers: p.noTransfers,
		Query:            p.query,
	}
	if p.typ != "" {
		if f.Type, err = finance.ParseType(p.typ); err != nil {
			return f, err
		}
	}
	if p.on != "" {
		if f.Date, err = date.Parse(p.on); err != nil {
			return f, err
		}
		f.Period = finance.PeriodCustom
	}
	return f, nil
}

// bounds applies the custom range flags in loc.
func (p *txCmd) bounds(f *finance.Filter, s *finance.Store) error {
	if p.start == "" && p.end == "" {
		return nil
	}
	f.Period = finance.PeriodCustomRange
	loc := s.Location()
	if p.start != "" {
		on, err := date.Parse(p.start)
		if err != nil {
			return err
		}
		f.Start = on.Start(loc)
	}
	if p.end != "" {
		on, err := date.Parse(p.end)
		if err != nil {
			return err
		}
		f.End = on.End(loc)
	}
	return nil
}

// title describes the selection.
func (p *txCmd) title(f finance.Filter) string {
	parts := []string{"Transactions"}
	switch f.Period {
	case finance.PeriodAll:
	case finance.PeriodCustom:
		parts = append(parts, "on "+f.Date.String())
	case finance.PeriodCustomRange:
		if p.start != "" {
			parts = append(parts, "from "+p.start)
		}
		if p.end != "" {
			parts = append(parts, "to "+p.end)
		}
	default:
		parts = append(parts, "of this "+string(f.Period))
	}
	if f.Account != "" {
		parts = append(parts, "on "+f.Account)
	}
	if f.Category != "" {
		parts = append(parts, "in "+f.Category)
	}
	return strings.Join(parts, " ")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	filter, err := p.filter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()
	if err := p.bounds(&filter, s.store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	transactions := s.store.Filter(filter)
	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}
	if p.tail > 0 && len(transactions) > p.tail {
		transactions = transactions[len(transactions)-p.tail:]
	}

	if p.byCategory {
		printMarkdown(renderer.CategoriesMarkdown(p.title(filter)+" by category", finance.ByCategory(transactions)))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderLedger(renderer.NewLedger(p.title(filter), transactions, s.store.Accounts())))
	return subcommands.ExitSuccess
}

package finance

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance/date"
)

// Period selects the time window of a Filter.
type Period string

const (
	PeriodAll         Period = "all"
	PeriodCustom      Period = "custom"
	PeriodCustomRange Period = "custom_range"
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodQuarter     Period = "quarter"
	PeriodYear        Period = "year"
)

// Periods lists the accepted periods.
var Periods = []Period{PeriodAll, PeriodCustom, PeriodCustomRange, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear}

// ParsePeriod parses a period name. The empty string is PeriodAll.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodAll, nil
	}
	if p := Period(s); slices.Contains(Periods, p) {
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q, want one of %v", s, Periods)
}

// calendar returns the calendar period of a named period.
func (p Period) calendar() (date.Period, bool) {
	switch p {
	case PeriodWeek:
		return date.Weekly, true
	case PeriodMonth:
		return date.Monthly, true
	case PeriodQuarter:
		return date.Quarterly, true
	case PeriodYear:
		return date.Yearly, true
	}
	return 0, false
}

// Filter describes a view of the ledger. Zero fields do not narrow the result
// and the conditions of set fields are ANDed.
type Filter struct {
	Period Period
	// Date is the day matched by PeriodCustom.
	Date date.Date
	// Start and End bound PeriodCustomRange, both inclusive. A zero bound is open.
	Start, End time.Time

	Type             Type
	Account          string
	Category         string
	ExcludeTransfers bool
	// Query matches descriptions containing it, case-insensitively.
	Query string
}

// window returns the inclusive instants matched by the filter period, and
// false if the period does not bound dates.
func (f Filter) window(now time.Time) (start, end time.Time, bounded bool) {
	loc := now.Location()
	if p, ok := f.Period.calendar(); ok {
		start, end = date.NewRange(date.Of(now), p).Instants(loc)
		return start, end, true
	}
	switch f.Period {
	case PeriodCustom:
		if f.Date.IsZero() {
			return
		}
		return f.Date.Start(loc), f.Date.End(loc), true
	case PeriodCustomRange:
		if f.Start.IsZero() && f.End.IsZero() {
			return
		}
		return f.Start, f.End, true
	}
	return
}

// Apply returns the transactions of txs matching the filter, in their
// original order. Named periods are anchored on now, and zone-less datetimes
// are read in now's location. Transactions whose datetime cannot be parsed
// are excluded when the period bounds dates. The result never aliases txs.
func (f Filter) Apply(txs []Transaction, now time.Time) []Transaction {
	start, end, bounded := f.window(now)
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Account != "" && tx.Account != f.Account {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.ExcludeTransfers && tx.IsTransfer {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(tx.Description), query) {
			continue
		}
		if bounded {
			when, ok := tx.Time(now.Location())
			if !ok {
				continue
			}
			if !start.IsZero() && when.Before(start) {
				continue
			}
			if !end.IsZero() && when.After(end) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}

// SortNewestFirst sorts txs in place by datetime, newest first, and returns
// it. Ties are broken by creation time; unparseable datetimes sort last.
func SortNewestFirst(txs []Transaction, loc *time.Location) []Transaction {
	slices.SortStableFunc(txs, newestFirst(loc))
	return txs
}

func newestFirst(loc *time.Location) func(a, b Transaction) int {
	return func(a, b Transaction) int {
		ta, oka := a.Time(loc)
		tb, okb := b.Time(loc)
		switch {
		case oka && !okb:
			return -1
		case !oka && okb:
			return 1
		case oka && okb && !ta.Equal(tb):
			return tb.Compare(ta)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	}
}

// Total is the income and expense of a set of transactions.
type Total struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int
}

// Net returns income minus expense.
func (t Total) Net() decimal.Decimal { return t.Income.Sub(t.Expense) }

// Totals sums the non-transfer transactions of txs.
func Totals(txs []Transaction) Total {
	t := Total{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		if tx.IsTransfer {
			continue
		}
		t.Count++
		if tx.Type == Income {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	return t
}

// CategoryTotal is the sum of one category.
type CategoryTotal struct {
	Type     Type
	Category string
	Amount   decimal.Decimal
	Count    int
}

// ByCategory groups the non-transfer transactions of txs by type and
// category. Expenses come first, then incomes, each largest amount first.
func ByCategory(txs []Transaction) []CategoryTotal {
	type key struct {
		t Type
		c string
	}
	index := make(map[key]int)
	var out []CategoryTotal
	for _, tx := range txs {
		if tx.IsTransfer {
			continue
		}
		k := key{tx.Type, tx.Category}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, CategoryTotal{Type: tx.Type, Category: tx.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
		out[i].Count++
	}
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		if c := cmp.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		return b.Amount.Cmp(a.Amount)
	})
	return out
}

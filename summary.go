package finance

import "github.com/shopspring/decimal"

// Summary is the ledger header: total balance and the current month flows.
type Summary struct {
	TotalBalance decimal.Decimal `json:"totalBalance"`
	MonthIncome  decimal.Decimal `json:"monthIncome"`
	MonthExpense decimal.Decimal `json:"monthExpense"`
	Count        int             `json:"count"`
}

// MonthNet returns income minus expense of the current month.
func (s Summary) MonthNet() decimal.Decimal { return s.MonthIncome.Sub(s.MonthExpense) }

// Summary returns the header summary as of the last mutation.
func (s *Store) Summary() Summary { return s.summary }

func (s *Store) computeSummary() Summary {
	sum := Summary{TotalBalance: decimal.Zero, Count: len(s.transactions)}
	for _, b := range s.cache.Balances(s.transactions, s.accounts) {
		sum.TotalBalance = sum.TotalBalance.Add(b)
	}
	month := Filter{Period: PeriodMonth, ExcludeTransfers: true}.Apply(s.transactions, s.Now())
	t := Totals(month)
	sum.MonthIncome, sum.MonthExpense = t.Income, t.Expense
	return sum
}

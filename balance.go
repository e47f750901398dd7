package finance

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance/date"
)

// BalanceOf returns the sum of Income amounts minus the sum of Expense
// amounts of the transactions on account. Transfer legs count like any other
// transaction.
func BalanceOf(txs []Transaction, account string) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Account == account {
			total = total.Add(tx.Signed())
		}
	}
	return total
}

// AllBalances returns the balance of every declared account. Transactions on
// accounts that are not declared are ignored.
func AllBalances(txs []Transaction, accounts []Account) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		balances[a.Value] = decimal.Zero
	}
	for _, tx := range txs {
		if b, ok := balances[tx.Account]; ok {
			balances[tx.Account] = b.Add(tx.Signed())
		}
	}
	return balances
}

// BalancesAsOf is AllBalances restricted to transactions dated strictly
// before cutoff. A transaction dated exactly at cutoff is excluded, and so is
// one whose datetime cannot be parsed. Zone-less datetimes are read in loc.
func BalancesAsOf(txs []Transaction, accounts []Account, cutoff time.Time, loc *time.Location) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		balances[a.Value] = decimal.Zero
	}
	for _, tx := range txs {
		b, ok := balances[tx.Account]
		if !ok {
			continue
		}
		when, ok := tx.Time(loc)
		if !ok || !when.Before(cutoff) {
			continue
		}
		balances[tx.Account] = b.Add(tx.Signed())
	}
	return balances
}

// BalanceCache memoizes AllBalances until Invalidate is called. The Store
// invalidates it after every mutation.
type BalanceCache struct {
	balances map[string]decimal.Decimal
}

// Balances returns a copy of the cached balances, computing them if needed.
func (c *BalanceCache) Balances(txs []Transaction, accounts []Account) map[string]decimal.Decimal {
	if c.balances == nil {
		c.balances = AllBalances(txs, accounts)
	}
	return maps.Clone(c.balances)
}

// Invalidate drops the cached balances.
func (c *BalanceCache) Invalidate() { c.balances = nil }

// DayBalances are the balances of an account around one calendar day.
type DayBalances struct {
	Day    date.Date
	Before decimal.Decimal
	After  decimal.Decimal
}

// Delta returns the change over the day.
func (d DayBalances) Delta() decimal.Decimal { return d.After.Sub(d.Before) }

// DayBalances returns, for every declared account, the balance at the start
// of day d and at the start of the next day.
func (s *Store) DayBalances(d date.Date) map[string]DayBalances {
	before := s.BalancesAsOf(d.Start(s.loc))
	after := s.BalancesAsOf(d.Add(1).Start(s.loc))
	out := make(map[string]DayBalances, len(before))
	for account, b := range before {
		out[account] = DayBalances{Day: d, Before: b, After: after[account]}
	}
	return out
}

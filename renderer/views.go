package renderer

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance"
)

// Ledger is a list of transactions, newest first.
type Ledger struct {
	Title        string
	Transactions []finance.Transaction
	Total        finance.Total
	// Accounts maps account values to their labels.
	Accounts map[string]string
}

// NewLedger builds the view of txs, labelling accounts from the catalog.
func NewLedger(title string, txs []finance.Transaction, accounts []finance.Account) *Ledger {
	labels := make(map[string]string, len(accounts))
	for _, a := range accounts {
		labels[a.Value] = a.Text
	}
	return &Ledger{Title: title, Transactions: txs, Total: finance.Totals(txs), Accounts: labels}
}

// Label returns the label of an account value.
func (l *Ledger) Label(account string) string {
	if text, ok := l.Accounts[account]; ok && text != "" {
		return text
	}
	return account
}

// Kind names the type of tx, transfer legs included.
func (l *Ledger) Kind(tx finance.Transaction) string {
	if !tx.IsTransfer {
		return string(tx.Type)
	}
	if tx.Type == finance.Expense {
		return "Transfer out"
	}
	return "Transfer in"
}

// AccountBalance is one row of a Balances view.
type AccountBalance struct {
	Account finance.Account
	Balance decimal.Decimal
}

// Balances lists account balances.
type Balances struct {
	Title string
	Rows  []AccountBalance
}

// NewBalances lists the declared accounts in catalog order, followed by the
// undeclared accounts that still hold transactions.
func NewBalances(title string, accounts []finance.Account, balances map[string]decimal.Decimal) *Balances {
	b := &Balances{Title: title}
	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		seen[a.Value] = true
		b.Rows = append(b.Rows, AccountBalance{Account: a, Balance: balances[a.Value]})
	}
	for _, value := range slices.Sorted(maps.Keys(balances)) {
		if !seen[value] {
			b.Rows = append(b.Rows, AccountBalance{Account: finance.Account{Value: value, Text: value}, Balance: balances[value]})
		}
	}
	return b
}

// Total returns the sum of all balances.
func (b *Balances) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range b.Rows {
		total = total.Add(r.Balance)
	}
	return total
}

// Summary is the header summary of a month.
type Summary struct {
	finance.Summary
	Month string
}

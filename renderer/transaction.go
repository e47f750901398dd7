package renderer

import (
	"fmt"

	"github.com/xzxcupidxzx/finance"
)

// Transaction renders a transaction to a string.
func Transaction(tx finance.Transaction) string {
	s := fmt.Sprintf("%s %s in %s on %s", tx.Type, tx.Money(), tx.Category, tx.Account)
	if tx.IsTransfer {
		s = fmt.Sprintf("Transfer leg %s %s on %s", tx.Type, tx.Money(), tx.Account)
	}
	if tx.Datetime != "" {
		s = tx.Datetime + " " + s
	}
	if tx.Description != "" {
		s += ": " + tx.SafeDescription()
	}
	return s
}

// Transfer renders a transfer to a string.
func Transfer(tr finance.Transfer) string {
	s := fmt.Sprintf("%s Transferred %s from %s to %s", tr.Datetime, finance.VND(tr.Amount), tr.From, tr.To)
	if tr.Out.Description != "" {
		s += ": " + tr.Out.SafeDescription()
	}
	return s
}

package finance

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IntegrityReport counts the records dropped while loading or importing
// transactions.
type IntegrityReport struct {
	// Malformed records could not be decoded, or had no id, an unknown type
	// or a non-positive amount.
	Malformed int
	// Duplicates reused the id of an earlier record.
	Duplicates int
	// OrphanLegs were transfer legs without a reciprocal pair.
	OrphanLegs int
	// Orphans referred to an account or category that is not declared. Only
	// imports drop them; a transfer is dropped with both legs.
	Orphans int
}

// Repairs returns the number of dropped records.
func (r IntegrityReport) Repairs() int { return r.Malformed + r.Duplicates + r.OrphanLegs + r.Orphans }

func (r IntegrityReport) String() string {
	if r.Repairs() == 0 {
		return "no repairs"
	}
	var parts []string
	if r.Malformed > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed", r.Malformed))
	}
	if r.Duplicates > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate", r.Duplicates))
	}
	if r.OrphanLegs > 0 {
		parts = append(parts, fmt.Sprintf("%d orphan transfer legs", r.OrphanLegs))
	}
	if r.Orphans > 0 {
		parts = append(parts, fmt.Sprintf("%d on undeclared accounts or categories", r.Orphans))
	}
	return "dropped " + strings.Join(parts, ", ")
}

// decodeTransactions decodes a JSON array of transactions record by record.
// Records that fail to decode are counted and skipped; only a value that is
// not an array is an error, null included. The empty string decodes to no
// transactions.
func decodeTransactions(raw string) ([]Transaction, int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, 0, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, 0, fmt.Errorf("transactions are not an array: %w", err)
	}
	if records == nil {
		return nil, 0, fmt.Errorf("transactions are null")
	}
	txs := make([]Transaction, 0, len(records))
	malformed := 0
	for _, rec := range records {
		var tx Transaction
		if err := json.Unmarshal(rec, &tx); err != nil {
			malformed++
			continue
		}
		txs = append(txs, tx)
	}
	return txs, malformed, nil
}

// repair drops invalid records, duplicated ids (the first one wins) and
// transfer legs whose pair does not point back at them with the opposite
// type. Transactions on undeclared accounts are kept, see dropOrphans.
func repair(txs []Transaction) ([]Transaction, IntegrityReport) {
	var r IntegrityReport
	seen := make(map[string]int, len(txs))
	valid := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == "" || !tx.Type.Valid() || !tx.Amount.IsPositive() {
			r.Malformed++
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			r.Duplicates++
			continue
		}
		seen[tx.ID] = len(valid)
		valid = append(valid, tx)
	}

	out := make([]Transaction, 0, len(valid))
	for _, tx := range valid {
		if tx.IsTransfer {
			i, ok := seen[tx.TransferPairID]
			if !ok || tx.TransferPairID == tx.ID {
				r.OrphanLegs++
				continue
			}
			pair := valid[i]
			if !pair.IsTransfer || pair.TransferPairID != tx.ID || pair.Type != tx.Type.Opposite() {
				r.OrphanLegs++
				continue
			}
		}
		out = append(out, tx)
	}
	return out, r
}

// dropOrphans drops the transactions whose account, or category for their
// type, is not declared. Dropping a transfer leg drops its pair too.
func dropOrphans(txs []Transaction, accounts, income, expense []Entry) ([]Transaction, int) {
	declared := func(tx Transaction) bool {
		cats := expense
		if tx.Type == Income {
			cats = income
		}
		return indexEntry(accounts, tx.Account) >= 0 && indexEntry(cats, tx.Category) >= 0
	}
	dropped := make(map[string]bool)
	for _, tx := range txs {
		if declared(tx) {
			continue
		}
		dropped[tx.ID] = true
		if tx.IsTransfer {
			dropped[tx.TransferPairID] = true
		}
	}
	if len(dropped) == 0 {
		return txs, 0
	}
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !dropped[tx.ID] {
			out = append(out, tx)
		}
	}
	return out, len(txs) - len(out)
}

package finance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// this file contains the full-state export/import format.
// A snapshot is a single human readable JSON object with one field per persisted key.

// Snapshot is the full state of a Store.
type Snapshot struct {
	Transactions          []Transaction         `json:"transactions"`
	IncomeCategories      []Category            `json:"incomeCategories"`
	ExpenseCategories     []Category            `json:"expenseCategories"`
	Accounts              []Account             `json:"accounts"`
	Settings              Settings              `json:"settings"`
	ReconciliationHistory []ReconciliationEntry `json:"reconciliationHistory"`
}

// Export returns a copy of the full state.
func (s *Store) Export() Snapshot {
	return Snapshot{
		Transactions:          nonNil(slices.Clone(s.transactions)),
		IncomeCategories:      nonNil(slices.Clone(s.incomeCategories)),
		ExpenseCategories:     nonNil(slices.Clone(s.expenseCategories)),
		Accounts:              nonNil(slices.Clone(s.accounts)),
		Settings:              s.settings.clone(),
		ReconciliationHistory: nonNil(slices.Clone(s.history)),
	}
}

// Encode writes the snapshot as indented JSON.
func (snap Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	return nil
}

// ImportReport tells which snapshot fields replaced the current data.
type ImportReport struct {
	// Imported lists the fields that replaced the current data.
	Imported []string
	// Rejected lists the malformed fields; the current data was kept for them.
	Rejected []string
	// Missing lists the fields absent from the snapshot; the current data was kept for them.
	Missing   []string
	Integrity IntegrityReport
}

// Import replaces the current state with the snapshot in data, field by
// field. A field that is malformed, or not an array where an array is
// expected, keeps the current data. Transactions are repaired like on load,
// and those left referring to an undeclared account or category are dropped.
// System accounts and categories are always kept.
//
// Data that is not a JSON object is rejected as a whole with a
// *ValidationError. A *PersistenceError means the import is kept in memory
// only.
func (s *Store) Import(data []byte) (ImportReport, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err == nil {
			err = fmt.Errorf("snapshot is null")
		}
		return ImportReport{}, newValidationError("snapshot", ErrValidation, "not a JSON object: %v", err)
	}

	var report ImportReport
	field := func(key string, decode func(json.RawMessage) error) {
		v, ok := raw[key]
		if !ok {
			report.Missing = append(report.Missing, key)
			return
		}
		if err := decode(v); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("rejected import field")
			report.Rejected = append(report.Rejected, key)
			return
		}
		report.Imported = append(report.Imported, key)
	}

	field(KeyTransactions, func(v json.RawMessage) error {
		if !isArray(v) {
			return fmt.Errorf("not an array")
		}
		txs, malformed, err := decodeTransactions(string(v))
		if err != nil {
			return err
		}
		kept, integrity := repair(txs)
		integrity.Malformed += malformed
		report.Integrity = integrity
		s.transactions = kept
		return nil
	})
	entries := func(dst *[]Entry) func(json.RawMessage) error {
		return func(v json.RawMessage) error {
			if !isArray(v) {
				return fmt.Errorf("not an array")
			}
			var es []Entry
			if err := json.Unmarshal(v, &es); err != nil {
				return err
			}
			*dst = cleanEntries(es)
			return nil
		}
	}
	field(KeyIncomeCategories, entries(&s.incomeCategories))
	field(KeyExpenseCategories, entries(&s.expenseCategories))
	field(KeyAccounts, entries(&s.accounts))
	field(KeySettings, func(v json.RawMessage) error {
		if !isObject(v) {
			return fmt.Errorf("not an object")
		}
		set := DefaultSettings()
		if err := json.Unmarshal(v, &set); err != nil {
			return err
		}
		s.settings = set
		return nil
	})
	field(KeyReconciliationHistory, func(v json.RawMessage) error {
		if !isArray(v) {
			return fmt.Errorf("not an array")
		}
		var h []ReconciliationEntry
		if err := json.Unmarshal(v, &h); err != nil {
			return err
		}
		s.history = capHistory(h)
		return nil
	})

	s.normalizeCatalog()
	s.transactions, report.Integrity.Orphans = dropOrphans(s.transactions, s.accounts, s.incomeCategories, s.expenseCategories)

	if n := report.Integrity.Repairs(); n > 0 {
		s.log.Warn().Stringer("integrity", report.Integrity).Msg("repaired imported transactions")
	}
	return report, s.changed(OpImport)
}

func isArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '['
}

func isObject(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '{'
}

package finance

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryLimit is the number of reconciliation entries kept. Oldest entries are evicted first.
const HistoryLimit = 100

// Tolerance is the smallest difference that gets an adjustment transaction.
var Tolerance = decimal.New(1, -2)

// ReconciliationEntry records one reconciliation of an account.
type ReconciliationEntry struct {
	ID            string          `json:"id"`
	Account       string          `json:"account"`
	SystemBalance decimal.Decimal `json:"systemBalance"`
	ActualBalance decimal.Decimal `json:"actualBalance"`
	Difference    decimal.Decimal `json:"difference"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Balanced reports whether the difference is below Tolerance.
func (e ReconciliationEntry) Balanced() bool { return e.Difference.Abs().LessThan(Tolerance) }

func capHistory(h []ReconciliationEntry) []ReconciliationEntry {
	if len(h) > HistoryLimit {
		h = slices.Clone(h[len(h)-HistoryLimit:])
	}
	return h
}

// History returns the reconciliation history, oldest first.
func (s *Store) History() []ReconciliationEntry { return slices.Clone(s.history) }

// ReconcileState is the state of an account in a Reconciler.
type ReconcileState int

const (
	// Idle accounts have no actual balance entered.
	Idle ReconcileState = iota
	// Computed accounts have an actual balance and a difference.
	Computed
)

func (st ReconcileState) String() string {
	if st == Computed {
		return "computed"
	}
	return "idle"
}

// Reconciler compares actual balances entered by the user with the derived
// ones and records the outcome. Each account is Idle until Enter makes it
// Computed; Record and Clear bring it back to Idle.
type Reconciler struct {
	store  *Store
	actual map[string]decimal.Decimal
}

// NewReconciler returns a Reconciler with every account Idle.
func NewReconciler(s *Store) *Reconciler {
	return &Reconciler{store: s, actual: make(map[string]decimal.Decimal)}
}

// Enter sets the actual balance of account and returns actual minus the
// derived balance.
func (r *Reconciler) Enter(account string, actual decimal.Decimal) (decimal.Decimal, error) {
	value, err := r.store.resolveAccount("account", account)
	if err != nil {
		return decimal.Zero, err
	}
	r.actual[value] = actual
	d, _ := r.Difference(value)
	return d, nil
}

// Difference returns actual minus derived balance, or false if account is Idle.
func (r *Reconciler) Difference(account string) (decimal.Decimal, bool) {
	account = r.key(account)
	actual, ok := r.actual[account]
	if !ok {
		return decimal.Zero, false
	}
	return actual.Sub(r.store.Balance(account)), true
}

// State returns the state of account.
func (r *Reconciler) State(account string) ReconcileState {
	if _, ok := r.actual[r.key(account)]; ok {
		return Computed
	}
	return Idle
}

// Clear drops the actual balance of account.
func (r *Reconciler) Clear(account string) { delete(r.actual, r.key(account)) }

// key returns the account value matching a name, or the name itself.
func (r *Reconciler) key(account string) string {
	if a, ok := lookupEntry(r.store.accounts, account); ok {
		return a.Value
	}
	return account
}

// Reconciliation is the outcome of Record.
type Reconciliation struct {
	Entry ReconciliationEntry
	// Adjustment is the transaction created to close the difference, nil when balanced.
	Adjustment *Transaction
}

// Record commits the reconciliation of a Computed account. A difference of
// at least Tolerance is closed by an adjustment transaction: Income in
// category adjustment-income when positive, Expense in adjustment-expense
// otherwise. A history entry is appended in every case and the account
// returns to Idle.
//
// A *PersistenceError means the reconciliation was recorded in memory only.
func (r *Reconciler) Record(account string) (Reconciliation, error) {
	s := r.store
	account = r.key(account)
	actual, ok := r.actual[account]
	if !ok {
		return Reconciliation{}, newValidationError("actualBalance", ErrMissingField, "no actual balance entered for %q", account)
	}
	system := s.Balance(account)
	diff := actual.Sub(system)

	var rec Reconciliation
	if diff.Abs().GreaterThanOrEqual(Tolerance) {
		d := Draft{
			Type:        Income,
			Category:    CategoryAdjustmentIncome,
			Amount:      diff.Abs(),
			Account:     account,
			Description: "Balance adjustment",
		}
		if diff.IsNegative() {
			d.Type, d.Category = Expense, CategoryAdjustmentExpense
		}
		tx, err := s.appendRegular(d)
		if err != nil {
			return Reconciliation{}, err
		}
		rec.Adjustment = &tx
	}

	rec.Entry = ReconciliationEntry{
		ID:            uuid.NewString(),
		Account:       account,
		SystemBalance: system,
		ActualBalance: actual,
		Difference:    diff,
		Timestamp:     s.stamp(),
	}
	s.history = capHistory(append(s.history, rec.Entry))
	delete(r.actual, account)

	ids := []string{rec.Entry.ID}
	if rec.Adjustment != nil {
		ids = append(ids, rec.Adjustment.ID)
	}
	return rec, s.changed(OpReconcile, ids...)
}

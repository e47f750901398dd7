package finance

import (
	"errors"
	"testing"

	"github.com/xzxcupidxzx/finance/kv"
)

func TestReconciler_States(t *testing.T) {
	s := newTestStore(t, nil)
	mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("1000"), Account: "Bank"})
	r := NewReconciler(s)

	if st := r.State("Bank"); st != Idle {
		t.Errorf("initial state = %s, want idle", st)
	}
	if _, ok := r.Difference("Bank"); ok {
		t.Error("Idle account has a difference")
	}
	if _, err := r.Record("Bank"); !errors.Is(err, ErrMissingField) {
		t.Errorf("Record(idle) error = %v, want %v", err, ErrMissingField)
	}

	if _, err := r.Enter("ngân hàng", d("900")); err != nil {
		t.Fatal(err)
	}
	if st := r.State("Bank"); st != Computed {
		t.Errorf("state after Enter = %s, want computed", st)
	}
	// The difference follows the derived balance until recorded.
	mustAdd(t, s, Draft{Type: Expense, Category: "Food", Amount: d("50"), Account: "Bank"})
	if diff, _ := r.Difference("Bank"); !diff.Equal(d("-50")) {
		t.Errorf("difference = %s, want -50", diff)
	}

	r.Clear("Bank")
	if st := r.State("Bank"); st != Idle {
		t.Errorf("state after Clear = %s, want idle", st)
	}

	if _, err := r.Enter("Safe", d("1")); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("Enter(unknown) error = %v, want %v", err, ErrUnknownAccount)
	}
}

func TestReconciler_Record(t *testing.T) {
	testCases := []struct {
		name         string
		actual       string
		wantType     Type
		wantCategory string
		wantAmount   string
	}{
		{"surplus", "1200", Income, CategoryAdjustmentIncome, "200"},
		{"shortfall", "750.5", Expense, CategoryAdjustmentExpense, "249.5"},
		{"balanced", "1000.005", "", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t, nil)
			mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("1000"), Account: "Cash"})
			r := NewReconciler(s)
			if _, err := r.Enter("Cash", d(tc.actual)); err != nil {
				t.Fatal(err)
			}
			rec, err := r.Record("Cash")
			if err != nil {
				t.Fatalf("Record() failed: %v", err)
			}

			if tc.wantType == "" {
				if rec.Adjustment != nil {
					t.Errorf("balanced account got adjustment %+v", rec.Adjustment)
				}
				if !rec.Entry.Balanced() {
					t.Errorf("entry %+v is not balanced", rec.Entry)
				}
				assertBalance(t, s, "Cash", "1000")
			} else {
				adj := rec.Adjustment
				if adj == nil {
					t.Fatal("no adjustment created")
				}
				if adj.Type != tc.wantType || adj.Category != tc.wantCategory || !adj.Amount.Equal(d(tc.wantAmount)) {
					t.Errorf("adjustment = %s %s %s, want %s %s %s", adj.Type, adj.Category, adj.Amount, tc.wantType, tc.wantCategory, tc.wantAmount)
				}
				assertBalance(t, s, "Cash", tc.actual)
			}

			h := s.History()
			if len(h) != 1 {
				t.Fatalf("history has %d entries, want 1", len(h))
			}
			e := h[0]
			if e.Account != "Cash" || !e.SystemBalance.Equal(d("1000")) || !e.ActualBalance.Equal(d(tc.actual)) {
				t.Errorf("history entry = %+v", e)
			}
			if !e.Difference.Equal(d(tc.actual).Sub(d("1000"))) {
				t.Errorf("difference = %s", e.Difference)
			}
			if r.State("Cash") != Idle {
				t.Error("account not back to idle after Record")
			}
		})
	}
}

func TestReconciler_HistoryCap(t *testing.T) {
	s := newTestStore(t, nil)
	r := NewReconciler(s)
	var first string
	for i := 0; i < HistoryLimit+5; i++ {
		if _, err := r.Enter("Cash", s.Balance("Cash")); err != nil {
			t.Fatal(err)
		}
		rec, err := r.Record("Cash")
		if err != nil {
			t.Fatal(err)
		}
		if i == 5 {
			first = rec.Entry.ID
		}
	}
	h := s.History()
	if len(h) != HistoryLimit {
		t.Fatalf("history has %d entries, want %d", len(h), HistoryLimit)
	}
	if h[0].ID != first {
		t.Errorf("oldest kept entry = %q, want %q: the oldest entries are evicted first", h[0].ID, first)
	}
	if s.Len() != 0 {
		t.Errorf("balanced reconciliations created %d transactions", s.Len())
	}
}

// countingKV counts the writes of each key.
type countingKV struct {
	*failingKV
	sets map[string]int
}

func (c *countingKV) Set(key, value string) error {
	c.sets[key]++
	return c.failingKV.Set(key, value)
}

func TestReconciler_RecordSavesOnce(t *testing.T) {
	for _, fail := range []bool{false, true} {
		name := "saved"
		if fail {
			name = "not saved"
		}
		t.Run(name, func(t *testing.T) {
			backend := &countingKV{failingKV: &failingKV{Memory: kv.NewMemory()}, sets: map[string]int{}}
			s := newTestStore(t, backend)
			mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("1000"), Account: "Cash"})
			r := NewReconciler(s)
			if _, err := r.Enter("Cash", d("1200")); err != nil {
				t.Fatal(err)
			}

			var events []Event
			s.Subscribe(func(e Event) { events = append(events, e) })
			clear(backend.sets)
			backend.fail = fail

			rec, err := r.Record("Cash")
			if fail != IsWarning(err) || (!fail && err != nil) {
				t.Fatalf("Record() error = %v", err)
			}
			if rec.Adjustment == nil {
				t.Fatal("no adjustment created")
			}
			assertBalance(t, s, "Cash", "1200")

			if n := backend.sets[KeyTransactions]; n != 1 {
				t.Errorf("transactions written %d times, want 1", n)
			}
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			e := events[0]
			if e.Op != OpReconcile || len(e.IDs) != 2 || e.IDs[0] != rec.Entry.ID || e.IDs[1] != rec.Adjustment.ID {
				t.Errorf("event = %v %v, want reconcile of %s and %s", e.Op, e.IDs, rec.Entry.ID, rec.Adjustment.ID)
			}
			if fail != (e.Err != nil) {
				t.Errorf("event Err = %v", e.Err)
			}
		})
	}
}

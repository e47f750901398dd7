package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance/kv"
)

// testNow is the fixed clock of test stores: Friday 2025-03-14 12:00 UTC.
var testNow = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

// d is a helper for test to create decimals from const.
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestStore opens a store on kv with the fixed test clock in UTC.
func newTestStore(t *testing.T, backend KV, opts ...Option) *Store {
	t.Helper()
	if backend == nil {
		backend = kv.NewMemory()
	}
	opts = append([]Option{WithClock(func() time.Time { return testNow }), WithLocation(time.UTC)}, opts...)
	s, err := Open(backend, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, dr Draft) Transaction {
	t.Helper()
	tx, err := s.AddRegular(dr)
	if err != nil {
		t.Fatalf("AddRegular(%+v) failed: %v", dr, err)
	}
	return tx
}

func mustTransfer(t *testing.T, s *Store, dr TransferDraft) Transfer {
	t.Helper()
	tr, err := s.AddTransfer(dr)
	if err != nil {
		t.Fatalf("AddTransfer(%+v) failed: %v", dr, err)
	}
	return tr
}

func assertBalance(t *testing.T, s *Store, account, want string) {
	t.Helper()
	if got := s.Balance(account); !got.Equal(d(want)) {
		t.Errorf("Balance(%q) = %s, want %s", account, got, want)
	}
}

// failingKV is a kv.Memory whose writes fail while fail is set.
type failingKV struct {
	*kv.Memory
	fail bool
}

var errDiskFull = errors.New("disk full")

func (f *failingKV) Set(key, value string) error {
	if f.fail {
		return errDiskFull
	}
	return f.Memory.Set(key, value)
}

// brokenKV fails every read.
type brokenKV struct{ kv.Memory }

func (brokenKV) Get(string) (string, bool, error) { return "", false, errDiskFull }

func ptr[T any](v T) *T { return &v }

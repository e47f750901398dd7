package finance

import (
	"errors"
	"regexp"
	"testing"
)

func TestAddTransfer(t *testing.T) {
	s := newTestStore(t, nil)
	tr := mustTransfer(t, s, TransferDraft{From: "Bank", To: "Cash", Amount: d("3000000")})

	if s.Len() != 2 {
		t.Fatalf("got %d records, want 2 legs", s.Len())
	}
	out, in := tr.Out, tr.In
	if out.Type != Expense || out.Category != CategoryTransferOut || out.Account != "Bank" {
		t.Errorf("outgoing leg = %s %s on %s", out.Type, out.Category, out.Account)
	}
	if in.Type != Income || in.Category != CategoryTransferIn || in.Account != "Cash" {
		t.Errorf("incoming leg = %s %s on %s", in.Type, in.Category, in.Account)
	}
	if !out.IsTransfer || !in.IsTransfer || out.TransferPairID != in.ID || in.TransferPairID != out.ID {
		t.Errorf("legs are not reciprocal: out %+v in %+v", out, in)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.Datetime != in.Datetime {
		t.Error("legs do not share their timestamps")
	}
	if out.Description != "Transfer to Tiền mặt" || in.Description != "Received from Ngân hàng" {
		t.Errorf("default descriptions = %q / %q", out.Description, in.Description)
	}
	idRE := regexp.MustCompile(`^tr_\d+_\d+_[0-9a-f]{8}_(out|in)$`)
	if !idRE.MatchString(out.ID) || !idRE.MatchString(in.ID) {
		t.Errorf("unexpected leg ids %q, %q", out.ID, in.ID)
	}
	if tr.From != "Bank" || tr.To != "Cash" || !tr.Amount.Equal(d("3000000")) {
		t.Errorf("transfer view = %+v", tr)
	}
	assertBalance(t, s, "Bank", "-3000000")
	assertBalance(t, s, "Cash", "3000000")
}

func TestAddTransfer_UniqueIDs(t *testing.T) {
	s := newTestStore(t, nil)
	seen := make(map[string]bool)
	// The test clock never moves: every transfer is created in the same millisecond.
	for i := 0; i < 20; i++ {
		tr := mustTransfer(t, s, TransferDraft{From: "Cash", To: "Bank", Amount: d("1"), Description: "rent"})
		for _, id := range tr.IDs() {
			if seen[id] {
				t.Fatalf("duplicate leg id %q", id)
			}
			seen[id] = true
		}
		if tr.Out.Description != "rent" || tr.In.Description != "rent" {
			t.Errorf("explicit description not used on both legs: %+v", tr)
		}
	}
}

func TestAddTransfer_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		draft TransferDraft
		want  error
	}{
		{"same account", TransferDraft{From: "Cash", To: "cash", Amount: d("1")}, ErrSameAccount},
		{"unknown destination", TransferDraft{From: "Cash", To: "Safe", Amount: d("1")}, ErrUnknownAccount},
		{"missing destination", TransferDraft{From: "Cash", Amount: d("1")}, ErrSameAccount},
		{"zero amount", TransferDraft{From: "Cash", To: "Bank"}, ErrInvalidAmount},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t, nil)
			if _, err := s.AddTransfer(tc.draft); !errors.Is(err, tc.want) {
				t.Errorf("AddTransfer() error = %v, want %v", err, tc.want)
			}
			if s.Len() != 0 {
				t.Error("ledger changed by a rejected transfer")
			}
		})
	}
}

func TestUpdate_Transfer(t *testing.T) {
	s := newTestStore(t, nil)
	mustAdd(t, s, Draft{Type: Expense, Category: "Food", Amount: d("1"), Account: "Cash"})
	tr := mustTransfer(t, s, TransferDraft{Datetime: "2025-03-10T09:00:00", From: "Bank", To: "Cash", Amount: d("3000000")})

	got, err := s.Update(tr.In.ID, Patch{Amount: ptr(d("2500000")), ToAccount: ptr("E-Wallet")})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if got.Type != Income || got.Account != "E-Wallet" {
		t.Errorf("returned leg = %s on %s, want the Income leg on E-Wallet", got.Type, got.Account)
	}
	for _, id := range tr.IDs() {
		if _, ok := s.Transaction(id); ok {
			t.Errorf("old leg %q still present", id)
		}
	}
	if s.Len() != 3 {
		t.Errorf("got %d records, want 3", s.Len())
	}

	updated, err := s.Transfer(got.ID)
	if err != nil {
		t.Fatalf("Transfer(%q) failed: %v", got.ID, err)
	}
	if updated.Out.TransferPairID != updated.In.ID || updated.In.TransferPairID != updated.Out.ID {
		t.Error("new legs are not reciprocal")
	}
	if updated.Datetime != "2025-03-10T09:00:00" {
		t.Errorf("Datetime = %q, want it kept", updated.Datetime)
	}
	if !updated.Out.CreatedAt.Equal(tr.Out.CreatedAt) || updated.Out.UpdatedAt.IsZero() {
		t.Errorf("timestamps = created %v updated %v", updated.Out.CreatedAt, updated.Out.UpdatedAt)
	}
	if updated.Out.Description != "Transfer to Ví điện tử" {
		t.Errorf("generated description not regenerated: %q", updated.Out.Description)
	}
	assertBalance(t, s, "Bank", "-2500000")
	assertBalance(t, s, "Cash", "-1")
	assertBalance(t, s, "E-Wallet", "2500000")
}

func TestUpdate_TransferRejected(t *testing.T) {
	s := newTestStore(t, nil)
	tr := mustTransfer(t, s, TransferDraft{From: "Bank", To: "Cash", Amount: d("10")})

	if _, err := s.Update(tr.Out.ID, Patch{Account: ptr("Cash")}); !errors.Is(err, ErrSameAccount) {
		t.Fatalf("Update() error = %v, want %v", err, ErrSameAccount)
	}
	for _, id := range tr.IDs() {
		if _, ok := s.Transaction(id); !ok {
			t.Errorf("leg %q removed by a rejected update", id)
		}
	}
}

func TestDelete_Transfer(t *testing.T) {
	for _, leg := range []string{"out", "in"} {
		t.Run(leg, func(t *testing.T) {
			s := newTestStore(t, nil)
			keep := mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("100"), Account: "Cash"})
			tr := mustTransfer(t, s, TransferDraft{From: "Cash", To: "Bank", Amount: d("40")})

			id := tr.Out.ID
			if leg == "in" {
				id = tr.In.ID
			}
			if err := s.Delete(id); err != nil {
				t.Fatal(err)
			}
			if s.Len() != 1 {
				t.Errorf("got %d records, want only %q", s.Len(), keep.ID)
			}
			assertBalance(t, s, "Cash", "100")
			assertBalance(t, s, "Bank", "0")
		})
	}
}

func TestTransfer_NotATransfer(t *testing.T) {
	s := newTestStore(t, nil)
	tx := mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("100"), Account: "Cash"})
	if _, err := s.Transfer(tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Transfer(regular) error = %v, want %v", err, ErrNotFound)
	}
	if got := len(s.Transfers()); got != 0 {
		t.Errorf("Transfers() = %d, want 0", got)
	}
}

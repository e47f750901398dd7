package finance

import (
	"errors"
	"testing"
)

func TestAddAccount(t *testing.T) {
	s := newTestStore(t, nil)
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	a, err := s.AddAccount(Account{Text: " Savings "})
	if err != nil {
		t.Fatalf("AddAccount() failed: %v", err)
	}
	if a.Value != "Savings" || a.Text != "Savings" || a.System {
		t.Errorf("AddAccount() = %+v", a)
	}
	if len(events) != 1 || events[0].Op != OpCatalog {
		t.Errorf("events = %+v, want one catalog event", events)
	}
	mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("10"), Account: "savings"})
	assertBalance(t, s, "Savings", "10")

	for _, dup := range []Account{{Text: "cash"}, {Text: "Tiền mặt"}, {Value: "Savings", Text: "Other"}} {
		if _, err := s.AddAccount(dup); !errors.Is(err, ErrDuplicateEntry) {
			t.Errorf("AddAccount(%+v) error = %v, want %v", dup, err, ErrDuplicateEntry)
		}
	}
	if _, err := s.AddAccount(Account{}); !errors.Is(err, ErrMissingField) {
		t.Errorf("AddAccount(empty) error = %v, want %v", err, ErrMissingField)
	}
	if _, err := s.AddAccount(Account{Text: "Vault", System: true}); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Account("Vault"); v.System {
		t.Error("user account created as a system account")
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestStore(t, nil)
	if _, err := s.AddAccount(Account{Text: "Savings"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddAccount(Account{Text: "Piggy"}); err != nil {
		t.Fatal(err)
	}
	tx := mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("10"), Account: "Savings"})

	testCases := []struct {
		account string
		want    error
	}{
		{"Cash", ErrSystemEntry},
		{"Savings", ErrEntryInUse},
		{"Nowhere", ErrNotFound},
	}
	for _, tc := range testCases {
		if err := s.DeleteAccount(tc.account); !errors.Is(err, tc.want) {
			t.Errorf("DeleteAccount(%q) error = %v, want %v", tc.account, err, tc.want)
		}
	}

	if err := s.DeleteAccount("Piggy"); err != nil {
		t.Errorf("DeleteAccount(unused) failed: %v", err)
	}
	if _, ok := s.Account("Piggy"); ok {
		t.Error("deleted account still declared")
	}

	if err := s.Delete(tx.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteAccount("Savings"); err != nil {
		t.Errorf("DeleteAccount() after its last transaction was removed: %v", err)
	}
}

func TestRenameAccount(t *testing.T) {
	s := newTestStore(t, nil)
	tx := mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("10"), Account: "Cash"})

	if err := s.RenameAccount("Cash", "Ví tiền"); err != nil {
		t.Fatalf("RenameAccount() failed: %v", err)
	}
	a, _ := s.Account("Cash")
	if a.Text != "Ví tiền" {
		t.Errorf("Text = %q, want renamed", a.Text)
	}
	if got, _ := s.Transaction(tx.ID); got.Account != "Cash" {
		t.Errorf("transaction account = %q, want the value kept", got.Account)
	}
	mustAdd(t, s, Draft{Type: Income, Category: "Salary", Amount: d("5"), Account: "ví tiền"})
	assertBalance(t, s, "Cash", "15")

	if err := s.RenameAccount("Cash", "  "); !errors.Is(err, ErrMissingField) {
		t.Errorf("RenameAccount(blank) error = %v, want %v", err, ErrMissingField)
	}
	if err := s.RenameAccount("Nowhere", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RenameAccount(unknown) error = %v, want %v", err, ErrNotFound)
	}
}

func TestCategories(t *testing.T) {
	s := newTestStore(t, nil)

	c, err := s.AddCategory(Expense, Category{Text: "Pets", Icon: "paw"})
	if err != nil {
		t.Fatalf("AddCategory() failed: %v", err)
	}
	if !s.HasCategory(Expense, c.Value) || s.HasCategory(Income, c.Value) {
		t.Error("category not added to the expense set only")
	}
	tx := mustAdd(t, s, Draft{Type: Expense, Category: "pets", Amount: d("1")})
	if tx.Category != "Pets" {
		t.Errorf("Category = %q, want Pets", tx.Category)
	}

	// The same name is allowed in the other set.
	if _, err := s.AddCategory(Income, Category{Text: "Pets"}); err != nil {
		t.Errorf("AddCategory(Income, Pets) failed: %v", err)
	}
	if _, err := s.AddCategory(Expense, Category{Text: "food"}); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("AddCategory(duplicate) error = %v, want %v", err, ErrDuplicateEntry)
	}
	if _, err := s.AddCategory("", Category{Text: "x"}); !errors.Is(err, ErrMissingField) {
		t.Errorf("AddCategory(no type) error = %v, want %v", err, ErrMissingField)
	}

	if err := s.DeleteCategory(Expense, CategoryTransferOut); !errors.Is(err, ErrSystemEntry) {
		t.Errorf("DeleteCategory(system) error = %v, want %v", err, ErrSystemEntry)
	}
	if err := s.DeleteCategory(Expense, "Pets"); !errors.Is(err, ErrEntryInUse) {
		t.Errorf("DeleteCategory(in use) error = %v, want %v", err, ErrEntryInUse)
	}
	if err := s.DeleteCategory(Income, "Pets"); err != nil {
		t.Errorf("DeleteCategory(unused) failed: %v", err)
	}
	if err := s.DeleteCategory(Income, "Pets"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCategory(deleted) error = %v, want %v", err, ErrNotFound)
	}
}

func TestEnsureReserved(t *testing.T) {
	got := ensureReserved([]Category{{Value: "Food", Text: "Food"}, {Value: CategoryTransferOut, Text: "Out"}}, Expense)
	if len(got) != 3 {
		t.Fatalf("ensureReserved() = %+v, want Food plus both reserved categories", got)
	}
	if !got[1].System || got[1].Text != "Out" {
		t.Errorf("existing reserved category = %+v, want it flagged system and its label kept", got[1])
	}
	if got[2].Value != CategoryAdjustmentExpense {
		t.Errorf("appended %q, want %q", got[2].Value, CategoryAdjustmentExpense)
	}
}

func TestCleanEntries(t *testing.T) {
	got := cleanEntries([]Entry{{Value: " A "}, {Value: ""}, {Value: "A", Text: "dup"}, {Value: "B", Text: "Bee"}})
	want := []Entry{{Value: "A", Text: "A"}, {Value: "B", Text: "Bee"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("cleanEntries() = %+v, want %+v", got, want)
	}
}

func TestEntry_String(t *testing.T) {
	if got := (Entry{Value: "Cash", Text: "Tiền mặt"}).String(); got != "Tiền mặt (Cash)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Entry{Value: "Food", Text: "Food"}).String(); got != "Food" {
		t.Errorf("String() = %q", got)
	}
}

func TestAddCategory_Disjoint(t *testing.T) {
	s := newTestStore(t, nil)
	testCases := []struct {
		t Type
		c Category
	}{
		{Income, Category{Value: "Food"}},
		{Income, Category{Text: "ăn uống"}},
		{Expense, Category{Value: "Salary", Text: "Wages"}},
		{Expense, Category{Value: CategoryTransferIn}},
	}
	for _, tc := range testCases {
		if _, err := s.AddCategory(tc.t, tc.c); !errors.Is(err, ErrDuplicateEntry) {
			t.Errorf("AddCategory(%s, %+v) error = %v, want %v", tc.t, tc.c, err, ErrDuplicateEntry)
		}
	}
	if s.HasCategory(Income, "Food") || s.HasCategory(Expense, "Salary") || s.HasCategory(Expense, CategoryTransferIn) {
		t.Error("a category was declared in both sets")
	}
	if _, err := s.AddCategory(Income, Category{Text: "Freelance"}); err != nil {
		t.Errorf("AddCategory(new) failed: %v", err)
	}
}

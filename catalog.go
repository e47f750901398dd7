package finance

import (
	"fmt"
	"slices"
	"strings"
)

// Entry is an account or a category. Value is the key transactions refer to,
// Text the label shown to users. System entries are created by the app and
// cannot be removed.
type Entry struct {
	Value  string `json:"value"`
	Text   string `json:"text"`
	System bool   `json:"system,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

type (
	Account  = Entry
	Category = Entry
)

// Reserved system categories.
const (
	CategoryTransferOut       = "transfer-out"
	CategoryTransferIn        = "transfer-in"
	CategoryAdjustmentExpense = "adjustment-expense"
	CategoryAdjustmentIncome  = "adjustment-income"
)

func defaultAccounts() []Account {
	return []Account{
		{Value: "Cash", Text: "Tiền mặt", System: true, Icon: "wallet"},
		{Value: "Bank", Text: "Ngân hàng", System: true, Icon: "bank"},
		{Value: "E-Wallet", Text: "Ví điện tử", System: true, Icon: "phone"},
	}
}

func defaultIncomeCategories() []Category {
	return []Category{
		{Value: "Salary", Text: "Lương", Icon: "briefcase"},
		{Value: "Bonus", Text: "Thưởng", Icon: "gift"},
		{Value: "Investment", Text: "Đầu tư", Icon: "chart"},
		{Value: "Other Income", Text: "Thu nhập khác", Icon: "plus"},
		{Value: CategoryTransferIn, Text: "Nhận chuyển khoản", System: true, Icon: "arrow-down"},
		{Value: CategoryAdjustmentIncome, Text: "Điều chỉnh số dư (thu)", System: true, Icon: "scale"},
	}
}

func defaultExpenseCategories() []Category {
	return []Category{
		{Value: "Food", Text: "Ăn uống", Icon: "utensils"},
		{Value: "Transport", Text: "Đi lại", Icon: "car"},
		{Value: "Shopping", Text: "Mua sắm", Icon: "bag"},
		{Value: "Bills", Text: "Hóa đơn", Icon: "receipt"},
		{Value: "Entertainment", Text: "Giải trí", Icon: "film"},
		{Value: "Health", Text: "Sức khỏe", Icon: "heart"},
		{Value: "Education", Text: "Giáo dục", Icon: "book"},
		{Value: "Other Expense", Text: "Chi phí khác", Icon: "minus"},
		{Value: CategoryTransferOut, Text: "Chuyển khoản đi", System: true, Icon: "arrow-up"},
		{Value: CategoryAdjustmentExpense, Text: "Điều chỉnh số dư (chi)", System: true, Icon: "scale"},
	}
}

// reservedCategories returns the system categories that must exist in each set.
func reservedCategories(t Type) []Category {
	var defaults []Category
	if t == Income {
		defaults = defaultIncomeCategories()
	} else {
		defaults = defaultExpenseCategories()
	}
	var reserved []Category
	for _, c := range defaults {
		if c.System {
			reserved = append(reserved, c)
		}
	}
	return reserved
}

// ensureReserved appends the reserved categories missing from cats.
func ensureReserved(cats []Category, t Type) []Category {
	for _, r := range reservedCategories(t) {
		if i := indexEntry(cats, r.Value); i >= 0 {
			cats[i].System = true
			continue
		}
		cats = append(cats, r)
	}
	return cats
}

// ensureSystemAccounts appends the default system accounts missing from accounts.
func ensureSystemAccounts(accounts []Account) []Account {
	for _, a := range defaultAccounts() {
		if i := indexEntry(accounts, a.Value); i >= 0 {
			accounts[i].System = true
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts
}

// disjoinCategories drops from expense the user categories whose value is
// also an income category, and returns the kept ones with the dropped values.
func disjoinCategories(income, expense []Category) ([]Category, []string) {
	kept := make([]Category, 0, len(expense))
	var dropped []string
	for _, c := range expense {
		if !c.System && indexEntry(income, c.Value) >= 0 {
			dropped = append(dropped, c.Value)
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

// normalizeCatalog restores the system entries and keeps the category sets
// disjoint.
func (s *Store) normalizeCatalog() {
	s.accounts = ensureSystemAccounts(s.accounts)
	s.incomeCategories = ensureReserved(s.incomeCategories, Income)
	s.expenseCategories = ensureReserved(s.expenseCategories, Expense)
	var dropped []string
	s.expenseCategories, dropped = disjoinCategories(s.incomeCategories, s.expenseCategories)
	if len(dropped) > 0 {
		s.log.Warn().Strs("categories", dropped).Msg("dropped expense categories also declared as income")
	}
}

func indexEntry(entries []Entry, value string) int {
	return slices.IndexFunc(entries, func(e Entry) bool { return e.Value == value })
}

// lookupEntry finds an entry by value or text, case-insensitively.
func lookupEntry(entries []Entry, name string) (Entry, bool) {
	name = strings.TrimSpace(name)
	if i := indexEntry(entries, name); i >= 0 {
		return entries[i], true
	}
	for _, e := range entries {
		if strings.EqualFold(e.Value, name) || strings.EqualFold(e.Text, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// cleanEntries drops entries without a value and duplicated values.
func cleanEntries(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Value = strings.TrimSpace(e.Value)
		if e.Value == "" {
			continue
		}
		if _, dup := seen[e.Value]; dup {
			continue
		}
		seen[e.Value] = struct{}{}
		if e.Text == "" {
			e.Text = e.Value
		}
		out = append(out, e)
	}
	return out
}

// Accounts returns a copy of the declared accounts.
func (s *Store) Accounts() []Account { return slices.Clone(s.accounts) }

// Categories returns a copy of the categories of type t.
func (s *Store) Categories(t Type) []Category {
	if t == Income {
		return slices.Clone(s.incomeCategories)
	}
	return slices.Clone(s.expenseCategories)
}

func (s *Store) categories(t Type) *[]Category {
	if t == Income {
		return &s.incomeCategories
	}
	return &s.expenseCategories
}

// Account returns the declared account with this value.
func (s *Store) Account(value string) (Account, bool) {
	i := indexEntry(s.accounts, value)
	if i < 0 {
		return Account{}, false
	}
	return s.accounts[i], true
}

// HasCategory reports whether value is a category of type t.
func (s *Store) HasCategory(t Type, value string) bool {
	return indexEntry(*s.categories(t), value) >= 0
}

// AddAccount declares a user account. Value defaults to Text.
func (s *Store) AddAccount(a Account) (Account, error) {
	a, err := s.newEntry(s.accounts, a, "account")
	if err != nil {
		return Account{}, err
	}
	s.accounts = append(s.accounts, a)
	return a, s.changed(OpCatalog, a.Value)
}

// RenameAccount changes the label of an account. Transactions keep referring to its value.
func (s *Store) RenameAccount(value, text string) error {
	i := indexEntry(s.accounts, value)
	if i < 0 {
		return notFound("account", value)
	}
	if strings.TrimSpace(text) == "" {
		return newValidationError("text", ErrMissingField, "account label is empty")
	}
	s.accounts[i].Text = strings.TrimSpace(text)
	return s.changed(OpCatalog, value)
}

// DeleteAccount removes a user account that no transaction refers to.
func (s *Store) DeleteAccount(value string) error {
	i := indexEntry(s.accounts, value)
	if i < 0 {
		return notFound("account", value)
	}
	if s.accounts[i].System {
		return newValidationError("account", ErrSystemEntry, "account %q is a system account", value)
	}
	if n := s.countReferences(func(tx Transaction) bool { return tx.Account == value }); n > 0 {
		return newValidationError("account", ErrEntryInUse, "account %q is used by %d transactions", value, n)
	}
	s.accounts = slices.Delete(s.accounts, i, i+1)
	return s.changed(OpCatalog, value)
}

// AddCategory declares a user category of type t. Value defaults to Text.
func (s *Store) AddCategory(t Type, c Category) (Category, error) {
	if !t.Valid() {
		return Category{}, newValidationError("type", ErrMissingField, "unknown category type %q", t)
	}
	c, err := s.newCategory(t, c)
	if err != nil {
		return Category{}, err
	}
	cats := s.categories(t)
	*cats = append(*cats, c)
	return c, s.changed(OpCatalog, c.Value)
}

// newCategory checks c against both category sets, which stay disjoint.
func (s *Store) newCategory(t Type, c Category) (Category, error) {
	c, err := s.newEntry(*s.categories(t), c, "category")
	if err != nil {
		return Category{}, err
	}
	other := t.Opposite()
	if _, exists := lookupEntry(*s.categories(other), c.Value); exists {
		return Category{}, newValidationError("category", ErrDuplicateEntry, "%q is already an %s category", c.Value, strings.ToLower(string(other)))
	}
	return c, nil
}

// DeleteCategory removes a user category of type t that no transaction refers to.
func (s *Store) DeleteCategory(t Type, value string) error {
	cats := s.categories(t)
	i := indexEntry(*cats, value)
	if i < 0 {
		return notFound("category", value)
	}
	if (*cats)[i].System {
		return newValidationError("category", ErrSystemEntry, "category %q is a system category", value)
	}
	if n := s.countReferences(func(tx Transaction) bool { return tx.Type == t && tx.Category == value }); n > 0 {
		return newValidationError("category", ErrEntryInUse, "category %q is used by %d transactions", value, n)
	}
	*cats = slices.Delete(*cats, i, i+1)
	return s.changed(OpCatalog, value)
}

func (s *Store) newEntry(existing []Entry, e Entry, what string) (Entry, error) {
	e.Text = strings.TrimSpace(e.Text)
	e.Value = strings.TrimSpace(e.Value)
	if e.Value == "" {
		e.Value = e.Text
	}
	if e.Value == "" {
		return Entry{}, newValidationError(what, ErrMissingField, "%s name is empty", what)
	}
	if e.Text == "" {
		e.Text = e.Value
	}
	if _, exists := lookupEntry(existing, e.Value); exists {
		return Entry{}, newValidationError(what, ErrDuplicateEntry, "%s %q already exists", what, e.Value)
	}
	e.System = false
	return e, nil
}

func (s *Store) countReferences(match func(Transaction) bool) int {
	n := 0
	for _, tx := range s.transactions {
		if match(tx) {
			n++
		}
	}
	return n
}

// String returns the entry label.
func (e Entry) String() string {
	if e.Text == "" || e.Text == e.Value {
		return e.Value
	}
	return fmt.Sprintf("%s (%s)", e.Text, e.Value)
}

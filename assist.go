package finance

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Proposal is a transaction suggested by the assistant from free text. A
// proposal naming a ToAccount is a transfer.
type Proposal struct {
	Datetime    string          `json:"datetime,omitempty"`
	Type        Type            `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Account     string          `json:"account"`
	ToAccount   string          `json:"toAccount,omitempty"`
	Description string          `json:"description"`
}

// IsTransfer reports whether p moves money between accounts.
func (p Proposal) IsTransfer() bool { return strings.TrimSpace(p.ToAccount) != "" }

// Vocabulary lists the names the assistant may use.
type Vocabulary struct {
	Accounts          []string
	IncomeCategories  []string
	ExpenseCategories []string
	DefaultAccount    string
}

// Vocabulary returns the declared account and category values, without the
// categories reserved for transfers.
func (s *Store) Vocabulary() Vocabulary {
	values := func(es []Entry) []string {
		var out []string
		for _, e := range es {
			if e.Value == CategoryTransferIn || e.Value == CategoryTransferOut {
				continue
			}
			out = append(out, e.Value)
		}
		return out
	}
	return Vocabulary{
		Accounts:          values(s.accounts),
		IncomeCategories:  values(s.incomeCategories),
		ExpenseCategories: values(s.expenseCategories),
		DefaultAccount:    s.settings.DefaultAccount,
	}
}

// ProposalResult is the outcome of one applied proposal.
type ProposalResult struct {
	Proposal Proposal
	// Transactions are the created records, two for a transfer.
	Transactions []Transaction
	// Created lists the accounts and categories created for the proposal.
	Created []string
	Err     error
}

// ApplyProposals adds each proposal through the regular mutators. Unknown
// accounts and categories are first created as user entries. A rejected
// proposal does not stop the next ones.
func (s *Store) ApplyProposals(ps []Proposal) []ProposalResult {
	results := make([]ProposalResult, 0, len(ps))
	for _, p := range ps {
		results = append(results, s.applyProposal(p))
	}
	return results
}

func (s *Store) applyProposal(p Proposal) ProposalResult {
	res := ProposalResult{Proposal: p}
	var warnings []error
	ensure := func(err error, name string) bool {
		switch {
		case err == nil:
			res.Created = append(res.Created, name)
		case IsWarning(err):
			res.Created = append(res.Created, name)
			warnings = append(warnings, err)
		default:
			res.Err = err
			return false
		}
		return true
	}
	ensureAccount := func(name string) bool {
		if strings.TrimSpace(name) == "" {
			return true
		}
		if _, ok := lookupEntry(s.accounts, name); ok {
			return true
		}
		_, err := s.AddAccount(Account{Text: name})
		return ensure(err, name)
	}

	if err := s.checkProposal(p); err != nil {
		res.Err = err
		return res
	}
	if !ensureAccount(p.Account) {
		return res
	}
	if p.IsTransfer() {
		if !ensureAccount(p.ToAccount) {
			return res
		}
		tr, err := s.AddTransfer(TransferDraft{
			Datetime:    p.Datetime,
			From:        p.Account,
			To:          p.ToAccount,
			Amount:      p.Amount,
			Description: p.Description,
		})
		if err == nil || IsWarning(err) {
			res.Transactions = []Transaction{tr.Out, tr.In}
		}
		res.Err = outcome(err, warnings)
		return res
	}

	if p.Type.Valid() && strings.TrimSpace(p.Category) != "" {
		if _, ok := lookupEntry(*s.categories(p.Type), p.Category); !ok {
			_, err := s.AddCategory(p.Type, Category{Text: p.Category})
			if !ensure(err, p.Category) {
				return res
			}
		}
	}
	tx, err := s.AddRegular(Draft{
		Datetime:    p.Datetime,
		Type:        p.Type,
		Category:    p.Category,
		Amount:      p.Amount,
		Account:     p.Account,
		Description: p.Description,
	})
	if err == nil || IsWarning(err) {
		res.Transactions = []Transaction{tx}
	}
	res.Err = outcome(err, warnings)
	return res
}

// checkProposal rejects p on everything but the names that would be
// created for it, so that a rejected proposal leaves the catalog untouched.
func (s *Store) checkProposal(p Proposal) error {
	if _, _, _, err := s.resolveAmount(p.Amount, decimal.Zero, ""); err != nil {
		return err
	}
	if _, err := s.resolveDatetime(p.Datetime); err != nil {
		return err
	}
	if strings.TrimSpace(p.Account) == "" {
		if _, err := s.resolveAccount("account", ""); err != nil {
			return err
		}
	}
	if p.IsTransfer() {
		from, to := s.proposedAccount(p.Account), s.proposedAccount(p.ToAccount)
		if strings.EqualFold(from, to) {
			return newValidationError("toAccount", ErrSameAccount, "cannot transfer from %q to itself", from)
		}
		return nil
	}

	if p.Type == "" {
		return newValidationError("type", ErrMissingField, "type is required")
	}
	if !p.Type.Valid() {
		return newValidationError("type", ErrValidation, "unknown type %q", p.Type)
	}
	if strings.TrimSpace(p.Category) == "" {
		return newValidationError("category", ErrMissingField, "category is required")
	}
	if _, ok := lookupEntry(*s.categories(p.Type), p.Category); ok {
		_, err := s.resolveCategory(p.Type, p.Category)
		return err
	}
	_, err := s.newCategory(p.Type, Category{Text: p.Category})
	return err
}

// proposedAccount returns the value of the account named name, the default
// account for an empty name, or the trimmed name if it is not declared yet.
func (s *Store) proposedAccount(name string) string {
	if strings.TrimSpace(name) == "" {
		name = s.settings.DefaultAccount
	}
	if a, ok := lookupEntry(s.accounts, name); ok {
		return a.Value
	}
	return strings.TrimSpace(name)
}

// outcome returns err if it rejected the proposal, else the joined warnings.
func outcome(err error, warnings []error) error {
	if err != nil && !IsWarning(err) {
		return err
	}
	return errors.Join(append(warnings, err)...)
}

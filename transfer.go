package finance

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferDraft holds the caller-supplied fields of a transfer between two
// declared accounts.
type TransferDraft struct {
	Datetime         string
	From             string
	To               string
	Amount           decimal.Decimal
	Description      string
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
}

// Transfer is a movement between two accounts. It is stored as two legs: an
// Expense on From in category transfer-out and an Income on To in category
// transfer-in, pointing at each other.
type Transfer struct {
	From     string
	To       string
	Amount   decimal.Decimal
	Datetime string

	Out Transaction
	In  Transaction
}

// IDs returns the ids of both legs.
func (t Transfer) IDs() []string { return []string{t.Out.ID, t.In.ID} }

func outDescription(to Account) string  { return "Transfer to " + to.Text }
func inDescription(from Account) string { return "Received from " + from.Text }

// AddTransfer validates d and appends both legs of the transfer it describes
// in a single persisted operation.
func (s *Store) AddTransfer(d TransferDraft) (Transfer, error) {
	tr, err := s.buildTransfer(d, false)
	if err != nil {
		return Transfer{}, err
	}
	s.transactions = append(s.transactions, tr.Out, tr.In)
	return tr, s.changed(OpTransfer, tr.IDs()...)
}

// buildTransfer returns the legs d describes, with fresh ids sharing one
// creation timestamp.
func (s *Store) buildTransfer(d TransferDraft, keepDatetime bool) (Transfer, error) {
	from, err := s.resolveAccount("account", d.From)
	if err != nil {
		return Transfer{}, err
	}
	to, err := s.resolveAccount("toAccount", d.To)
	if err != nil {
		return Transfer{}, err
	}
	if from == to {
		return Transfer{}, newValidationError("toAccount", ErrSameAccount, "cannot transfer from %q to itself", from)
	}
	amount, orig, cur, err := s.resolveAmount(d.Amount, d.OriginalAmount, d.OriginalCurrency)
	if err != nil {
		return Transfer{}, err
	}
	datetime := d.Datetime
	if !keepDatetime {
		if datetime, err = s.resolveDatetime(d.Datetime); err != nil {
			return Transfer{}, err
		}
	}

	fromAccount, _ := s.Account(from)
	toAccount, _ := s.Account(to)
	outDesc, inDesc := s.capDescription(d.Description), s.capDescription(d.Description)
	if outDesc == "" {
		outDesc = s.capDescription(outDescription(toAccount))
		inDesc = s.capDescription(inDescription(fromAccount))
	}

	created := s.stamp()
	base := s.transferID(created)
	out := Transaction{
		ID:               base + "_out",
		Datetime:         datetime,
		Type:             Expense,
		Category:         CategoryTransferOut,
		Amount:           amount,
		Account:          from,
		Description:      outDesc,
		OriginalAmount:   orig,
		OriginalCurrency: cur,
		IsTransfer:       true,
		TransferPairID:   base + "_in",
		CreatedAt:        created,
	}
	in := out
	in.ID, in.TransferPairID = out.TransferPairID, out.ID
	in.Type, in.Category = Income, CategoryTransferIn
	in.Account, in.Description = to, inDesc
	return newTransfer(out, in), nil
}

// transferID returns a pair id unique even for transfers created in the
// same millisecond.
func (s *Store) transferID(t time.Time) string {
	s.seq++
	return fmt.Sprintf("tr_%d_%d_%s", t.UnixMilli(), s.seq, uuid.NewString()[:8])
}

func newTransfer(out, in Transaction) Transfer {
	return Transfer{From: out.Account, To: in.Account, Amount: out.Amount, Datetime: out.Datetime, Out: out, In: in}
}

// Transfer returns the transfer one of whose legs is id.
func (s *Store) Transfer(id string) (Transfer, error) {
	tx, ok := s.Transaction(id)
	if !ok {
		return Transfer{}, notFound("transaction", id)
	}
	out, in, err := s.legs(tx)
	if err != nil {
		return Transfer{}, err
	}
	return newTransfer(out, in), nil
}

// legs returns the outgoing and incoming legs of the transfer tx belongs to.
func (s *Store) legs(tx Transaction) (out, in Transaction, err error) {
	if !tx.IsTransfer {
		return out, in, fmt.Errorf("transaction %q is not a transfer: %w", tx.ID, ErrNotFound)
	}
	pair, ok := s.Transaction(tx.TransferPairID)
	if !ok || !pair.IsTransfer || pair.TransferPairID != tx.ID {
		return out, in, fmt.Errorf("transfer leg %q has no matching pair: %w", tx.ID, ErrIntegrity)
	}
	if tx.Type == Expense {
		return tx, pair, nil
	}
	return pair, tx, nil
}

// Transfers returns every transfer of the ledger, in storage order of their
// outgoing leg.
func (s *Store) Transfers() []Transfer {
	var out []Transfer
	for _, tx := range s.transactions {
		if !tx.IsTransfer || tx.Type != Expense {
			continue
		}
		if o, in, err := s.legs(tx); err == nil {
			out = append(out, newTransfer(o, in))
		}
	}
	return out
}

// updateTransfer replaces the pair of leg by a new pair carrying the merged
// fields. The new pair is validated before the old legs are removed, so a
// rejected patch leaves the ledger unchanged.
func (s *Store) updateTransfer(leg Transaction, p Patch) (Transaction, error) {
	out, in, err := s.legs(leg)
	if err != nil {
		return Transaction{}, err
	}
	d := TransferDraft{
		Datetime:         out.Datetime,
		From:             out.Account,
		To:               in.Account,
		Amount:           out.Amount,
		Description:      out.Description,
		OriginalAmount:   out.OriginalAmount,
		OriginalCurrency: out.OriginalCurrency,
	}
	// Generated descriptions follow the accounts.
	if to, ok := s.Account(in.Account); ok && out.Description == s.capDescription(outDescription(to)) {
		d.Description = ""
	}

	var draft Draft
	draft.Amount, draft.OriginalAmount, draft.OriginalCurrency = d.Amount, d.OriginalAmount, d.OriginalCurrency
	p.applyTo(&draft, s.settings.BaseCurrency)
	d.Amount, d.OriginalAmount, d.OriginalCurrency = draft.Amount, draft.OriginalAmount, draft.OriginalCurrency
	if p.Datetime != nil {
		d.Datetime = *p.Datetime
	}
	if p.Account != nil {
		d.From = *p.Account
	}
	if p.ToAccount != nil {
		d.To = *p.ToAccount
	}
	if p.Description != nil {
		d.Description = *p.Description
	}

	tr, err := s.buildTransfer(d, p.Datetime == nil)
	if err != nil {
		return Transaction{}, err
	}
	updated := s.stamp()
	tr.Out.CreatedAt, tr.In.CreatedAt = out.CreatedAt, in.CreatedAt
	tr.Out.UpdatedAt, tr.In.UpdatedAt = updated, updated

	old := []string{out.ID, in.ID}
	s.transactions = slices.DeleteFunc(s.transactions, func(tx Transaction) bool {
		return slices.Contains(old, tx.ID)
	})
	s.transactions = append(s.transactions, tr.Out, tr.In)
	return legOf(tr, leg.Type), s.changed(OpUpdate, append(old, tr.IDs()...)...)
}

func legOf(tr Transfer, t Type) Transaction {
	if t == Expense {
		return tr.Out
	}
	return tr.In
}

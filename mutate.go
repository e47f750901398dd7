package finance

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddRegular validates d, appends the transaction it describes and persists
// the ledger. On a *PersistenceError the transaction is kept and returned.
func (s *Store) AddRegular(d Draft) (Transaction, error) {
	tx, err := s.appendRegular(d)
	if err != nil {
		return Transaction{}, err
	}
	return tx, s.changed(OpAdd, tx.ID)
}

// appendRegular validates d and appends its transaction in memory only.
func (s *Store) appendRegular(d Draft) (Transaction, error) {
	tx, err := s.validate(d, false)
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = uuid.NewString()
	tx.CreatedAt = s.stamp()
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

// Update applies p to the transaction id. A regular transaction is merged
// and stamped with UpdatedAt. A transfer leg has its pair replaced by a new
// one carrying the merged fields: both leg ids change, and the returned
// record is the new leg with the same direction as id.
func (s *Store) Update(id string, p Patch) (Transaction, error) {
	i := s.index(id)
	if i < 0 {
		return Transaction{}, notFound("transaction", id)
	}
	old := s.transactions[i]
	if old.IsTransfer {
		return s.updateTransfer(old, p)
	}

	d := Draft{
		Datetime:         old.Datetime,
		Type:             old.Type,
		Category:         old.Category,
		Amount:           old.Amount,
		Account:          old.Account,
		Description:      old.Description,
		OriginalAmount:   old.OriginalAmount,
		OriginalCurrency: old.OriginalCurrency,
	}
	p.applyTo(&d, s.settings.BaseCurrency)

	tx, err := s.validate(d, p.Datetime == nil)
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = old.ID
	tx.CreatedAt = old.CreatedAt
	tx.UpdatedAt = s.stamp()
	s.transactions[i] = tx
	return tx, s.changed(OpUpdate, tx.ID)
}

// applyTo merges the set fields of p onto d. A new base amount also becomes
// the original amount of a base-currency record; a new foreign original
// amount alone triggers a conversion.
func (p Patch) applyTo(d *Draft, base string) {
	if p.Datetime != nil {
		d.Datetime = *p.Datetime
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Account != nil {
		d.Account = *p.Account
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.OriginalCurrency != nil {
		d.OriginalCurrency = *p.OriginalCurrency
	}
	if p.OriginalAmount != nil {
		d.OriginalAmount = *p.OriginalAmount
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
		if p.OriginalAmount == nil && (d.OriginalCurrency == "" || d.OriginalCurrency == base) {
			d.OriginalAmount = *p.Amount
		}
	} else if p.OriginalAmount != nil || p.OriginalCurrency != nil {
		if d.OriginalCurrency != "" && d.OriginalCurrency != base {
			d.Amount = decimal.Zero // converted by validate
		} else {
			d.Amount = d.OriginalAmount
		}
	}
}

// Delete removes the transaction id. Deleting a transfer leg removes both
// legs in a single persisted operation.
func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return notFound("transaction", id)
	}
	ids := []string{id}
	if tx := s.transactions[i]; tx.IsTransfer && tx.TransferPairID != "" {
		ids = append(ids, tx.TransferPairID)
	}
	s.transactions = slices.DeleteFunc(s.transactions, func(tx Transaction) bool {
		return slices.Contains(ids, tx.ID)
	})
	return s.changed(OpDelete, ids...)
}

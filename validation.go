package finance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// validate checks a draft against the catalog and settings and returns the
// record it describes, with quick fixes applied: names resolved to account
// and category values, defaults filled, amounts converted and the
// description capped. Identity and timestamps are left to the caller.
//
// With keepDatetime the draft datetime is stored as is, for updates that do
// not touch it.
func (s *Store) validate(d Draft, keepDatetime bool) (Transaction, error) {
	if d.Type == "" {
		return Transaction{}, newValidationError("type", ErrMissingField, "type is required")
	}
	if !d.Type.Valid() {
		return Transaction{}, newValidationError("type", ErrValidation, "unknown type %q", d.Type)
	}
	account, err := s.resolveAccount("account", d.Account)
	if err != nil {
		return Transaction{}, err
	}
	category, err := s.resolveCategory(d.Type, d.Category)
	if err != nil {
		return Transaction{}, err
	}
	amount, orig, cur, err := s.resolveAmount(d.Amount, d.OriginalAmount, d.OriginalCurrency)
	if err != nil {
		return Transaction{}, err
	}
	datetime := d.Datetime
	if !keepDatetime {
		if datetime, err = s.resolveDatetime(d.Datetime); err != nil {
			return Transaction{}, err
		}
	}
	return Transaction{
		Datetime:         datetime,
		Type:             d.Type,
		Category:         category,
		Amount:           amount,
		Account:          account,
		Description:      s.capDescription(d.Description),
		OriginalAmount:   orig,
		OriginalCurrency: cur,
	}, nil
}

// resolveAccount returns the value of the declared account named name. An
// empty name resolves to the default account.
func (s *Store) resolveAccount(field, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = s.settings.DefaultAccount
	}
	if strings.TrimSpace(name) == "" {
		return "", newValidationError(field, ErrMissingField, "%s is required", field)
	}
	a, ok := lookupEntry(s.accounts, name)
	if !ok {
		return "", newValidationError(field, ErrUnknownAccount, "account %q is not declared", name)
	}
	return a.Value, nil
}

// resolveCategory returns the value of the category of type t named name.
// Transfer categories are reserved for transfer legs.
func (s *Store) resolveCategory(t Type, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", newValidationError("category", ErrMissingField, "category is required")
	}
	c, ok := lookupEntry(*s.categories(t), name)
	if !ok {
		return "", newValidationError("category", ErrUnknownCategory, "%s category %q is not declared", strings.ToLower(string(t)), name)
	}
	if c.Value == CategoryTransferIn || c.Value == CategoryTransferOut {
		return "", newValidationError("category", ErrUnknownCategory, "category %q is reserved for transfers", c.Value)
	}
	return c.Value, nil
}

// resolveAmount fills the original amount and currency from the base amount,
// or converts the original amount when only it is given. The base amount
// must end up positive.
func (s *Store) resolveAmount(amount, orig decimal.Decimal, cur string) (decimal.Decimal, decimal.Decimal, string, error) {
	cur = strings.ToUpper(strings.TrimSpace(cur))
	if cur == "" {
		cur = s.settings.BaseCurrency
	}
	if amount.IsZero() && orig.IsPositive() {
		converted, err := s.settings.Convert(orig, cur)
		if err != nil {
			return amount, orig, cur, newValidationError("originalCurrency", ErrValidation, "%v", err)
		}
		amount = converted.Round(0)
	}
	if !amount.IsPositive() {
		return amount, orig, cur, newValidationError("amount", ErrInvalidAmount, "amount must be positive, got %s", amount)
	}
	if orig.IsZero() {
		orig, cur = amount, s.settings.BaseCurrency
	}
	if orig.IsNegative() {
		return amount, orig, cur, newValidationError("originalAmount", ErrInvalidAmount, "original amount must be positive, got %s", orig)
	}
	return amount, orig, cur, nil
}

// resolveDatetime parses a draft datetime, defaulting to now, applies the
// future-date policy and returns it in DatetimeFormat in the store location.
func (s *Store) resolveDatetime(v string) (string, error) {
	now := s.Now()
	if strings.TrimSpace(v) == "" {
		return now.Format(DatetimeFormat), nil
	}
	when, err := ParseDatetime(v, s.loc)
	if err != nil {
		return "", newValidationError("datetime", ErrValidation, "%v", err)
	}
	if days := s.settings.MaxFutureDays; days >= 0 {
		limit := now.AddDate(0, 0, days)
		if when.After(limit) {
			return "", newValidationError("datetime", ErrFutureDate, "%s is more than %d days ahead", v, days)
		}
	}
	return when.In(s.loc).Format(DatetimeFormat), nil
}

// capDescription trims d and cuts it to the configured number of runes.
func (s *Store) capDescription(d string) string {
	d = strings.TrimSpace(d)
	limit := s.settings.DescriptionMaxLength
	if limit <= 0 || utf8.RuneCountInString(d) <= limit {
		return d
	}
	return string([]rune(d)[:limit])
}

// stamp returns the store's current time truncated to milliseconds, as
// stored in createdAt and updatedAt.
func (s *Store) stamp() time.Time { return s.Now().Truncate(time.Millisecond) }

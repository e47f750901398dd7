package finance

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Settings are the ledger policies persisted under the settings key.
type Settings struct {
	// BaseCurrency is the currency of every stored amount.
	BaseCurrency string
	// DescriptionMaxLength caps descriptions, in runes. Zero disables the cap.
	DescriptionMaxLength int
	// MaxFutureDays is how far ahead of now a transaction may be dated.
	// A negative value disables the check.
	MaxFutureDays int
	// ExchangeRates maps a currency to its value in the base currency.
	ExchangeRates map[string]decimal.Decimal
	// DefaultAccount is used by drafts that name no account.
	DefaultAccount string

	// Extra keeps stored keys this version does not know about.
	Extra map[string]json.RawMessage
}

// DefaultSettings returns the settings of a fresh ledger.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency:         BaseCurrency,
		DescriptionMaxLength: 200,
		MaxFutureDays:        365,
		ExchangeRates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(25_000),
			"EUR": decimal.NewFromInt(27_000),
		},
		DefaultAccount: "Cash",
	}
}

var settingsKeys = []string{"baseCurrency", "descriptionMaxLength", "maxFutureDays", "exchangeRates", "defaultAccount"}

func (s Settings) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("baseCurrency", s.BaseCurrency)
	w.Append("descriptionMaxLength", s.DescriptionMaxLength)
	w.Append("maxFutureDays", s.MaxFutureDays)
	w.Append("exchangeRates", s.ExchangeRates)
	w.Optional("defaultAccount", s.DefaultAccount)
	for _, k := range slices.Sorted(maps.Keys(s.Extra)) {
		w.Append(k, s.Extra[k])
	}
	return w.MarshalJSON()
}

// UnmarshalJSON merges stored values onto the receiver. Keys missing from
// data keep the receiver's value, so decoding into DefaultSettings() yields
// defaults merged with what was stored.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := map[string]any{
		"baseCurrency":         &s.BaseCurrency,
		"descriptionMaxLength": &s.DescriptionMaxLength,
		"maxFutureDays":        &s.MaxFutureDays,
		"defaultAccount":       &s.DefaultAccount,
	}
	for key, ptr := range fields {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, ptr); err != nil {
			return fmt.Errorf("invalid setting %q: %w", key, err)
		}
	}
	if v, ok := raw["exchangeRates"]; ok && string(v) != "null" {
		var rates map[string]decimal.Decimal
		if err := json.Unmarshal(v, &rates); err != nil {
			return fmt.Errorf("invalid setting %q: %w", "exchangeRates", err)
		}
		if s.ExchangeRates == nil {
			s.ExchangeRates = make(map[string]decimal.Decimal, len(rates))
		}
		for cur, rate := range rates {
			s.ExchangeRates[strings.ToUpper(cur)] = rate
		}
	}
	for key, v := range raw {
		if slices.Contains(settingsKeys, key) {
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]json.RawMessage)
		}
		s.Extra[key] = v
	}
	return nil
}

func (s Settings) clone() Settings {
	s.ExchangeRates = maps.Clone(s.ExchangeRates)
	s.Extra = maps.Clone(s.Extra)
	return s
}

// Rate returns the value of one unit of cur in the base currency.
func (s Settings) Rate(cur string) (decimal.Decimal, bool) {
	cur = strings.ToUpper(strings.TrimSpace(cur))
	if cur == "" || cur == s.BaseCurrency {
		return decimal.NewFromInt(1), true
	}
	r, ok := s.ExchangeRates[cur]
	if !ok || !r.IsPositive() {
		return decimal.Zero, false
	}
	return r, true
}

// Convert returns amount of cur expressed in the base currency.
func (s Settings) Convert(amount decimal.Decimal, cur string) (decimal.Decimal, error) {
	r, ok := s.Rate(cur)
	if !ok {
		return decimal.Zero, fmt.Errorf("no exchange rate for %q", cur)
	}
	return amount.Mul(r), nil
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings { return s.settings.clone() }

// UpdateSettings replaces the settings after checking them.
func (s *Store) UpdateSettings(set Settings) error {
	set.BaseCurrency = strings.ToUpper(strings.TrimSpace(set.BaseCurrency))
	if set.BaseCurrency == "" {
		return newValidationError("baseCurrency", ErrMissingField, "base currency is empty")
	}
	if set.DescriptionMaxLength < 0 {
		return newValidationError("descriptionMaxLength", ErrValidation, "must not be negative")
	}
	for cur, r := range set.ExchangeRates {
		if !r.IsPositive() {
			return newValidationError("exchangeRates", ErrInvalidAmount, "rate for %s must be positive", cur)
		}
	}
	if set.DefaultAccount != "" {
		if _, ok := s.Account(set.DefaultAccount); !ok {
			return newValidationError("defaultAccount", ErrUnknownAccount, "account %q is not declared", set.DefaultAccount)
		}
	}
	s.settings = set.clone()
	return s.changed(OpSettings)
}

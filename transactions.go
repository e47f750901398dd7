package finance

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction. Transfers are not a third type:
// they are stored as one Expense and one Income leg.
type Type string

const (
	Income  Type = "Income"
	Expense Type = "Expense"
)

// ParseType parses a transaction type, case-insensitively.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "in", "thu":
		return Income, nil
	case "expense", "out", "chi":
		return Expense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Valid reports whether t is Income or Expense.
func (t Type) Valid() bool { return t == Income || t == Expense }

// Opposite returns the other direction.
func (t Type) Opposite() Type {
	if t == Income {
		return Expense
	}
	return Income
}

// DatetimeFormat is the layout used for the datetime of new transactions.
// Datetimes carry no timezone: they are read in the store's location.
const DatetimeFormat = "2006-01-02T15:04:05"

var datetimeLayouts = []string{
	DatetimeFormat,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDatetime parses a stored datetime. Values without a zone are read in
// loc; RFC 3339 values keep their own offset.
func ParseDatetime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// Transaction is the atomic ledger record.
//
// Amount is always positive, its sign is implied by Type. A transfer leg has
// IsTransfer set and TransferPairID pointing at the opposite leg.
type Transaction struct {
	ID               string          `json:"id"`
	Datetime         string          `json:"datetime"`
	Type             Type            `json:"type"`
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	Account          string          `json:"account"`
	Description      string          `json:"description"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
	IsTransfer       bool            `json:"isTransfer"`
	TransferPairID   string          `json:"transferPairId"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// MarshalJSON writes the record with a stable key order and a null
// transferPairId for regular transactions.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("datetime", t.Datetime)
	w.Append("type", t.Type)
	w.Append("category", t.Category)
	w.Append("amount", t.Amount)
	w.Append("account", t.Account)
	w.Append("description", t.Description)
	w.Append("originalAmount", t.OriginalAmount)
	w.Append("originalCurrency", t.OriginalCurrency)
	w.Append("isTransfer", t.IsTransfer)
	w.Nullable("transferPairId", t.TransferPairID)
	w.Append("createdAt", t.CreatedAt)
	w.Optional("updatedAt", t.UpdatedAt)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a record, accepting empty or zone-less timestamps.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	var temp struct {
		plain
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	created, err := parseTimestamp(temp.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid createdAt: %w", err)
	}
	updated, err := parseTimestamp(temp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invalid updatedAt: %w", err)
	}
	*t = Transaction(temp.plain)
	t.CreatedAt, t.UpdatedAt = created, updated
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return ParseDatetime(s, time.UTC)
}

// Time returns the parsed datetime, or false if it cannot be parsed.
func (t Transaction) Time(loc *time.Location) (time.Time, bool) {
	v, err := ParseDatetime(t.Datetime, loc)
	return v, err == nil
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Money returns the amount in the base currency.
func (t Transaction) Money() Money { return VND(t.Amount) }

var unsafeDescription = strings.NewReplacer("<", "", ">", "", "&", "", `"`, "", "'", "")

// SafeDescription returns the description stripped of HTML-unsafe characters.
func (t Transaction) SafeDescription() string { return unsafeDescription.Replace(t.Description) }

// Equal reports whether two records carry the same data.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Datetime == o.Datetime &&
		t.Type == o.Type &&
		t.Category == o.Category &&
		t.Amount.Equal(o.Amount) &&
		t.Account == o.Account &&
		t.Description == o.Description &&
		t.OriginalAmount.Equal(o.OriginalAmount) &&
		t.OriginalCurrency == o.OriginalCurrency &&
		t.IsTransfer == o.IsTransfer &&
		t.TransferPairID == o.TransferPairID &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}

// Draft holds the caller-supplied fields of a regular transaction.
// Zero fields take defaults: Datetime is now, OriginalAmount is Amount and
// OriginalCurrency is the base currency.
type Draft struct {
	Datetime         string
	Type             Type
	Category         string
	Amount           decimal.Decimal
	Account          string
	Description      string
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
}

// Patch lists the fields to change on an existing transaction; nil fields
// are kept. For transfer legs Account is the source and ToAccount the
// destination of the transfer whichever leg is edited; Type and Category are
// ignored because they are fixed by the leg's direction.
type Patch struct {
	Datetime         *string
	Type             *Type
	Category         *string
	Amount           *decimal.Decimal
	Account          *string
	ToAccount        *string
	Description      *string
	OriginalAmount   *decimal.Decimal
	OriginalCurrency *string
}

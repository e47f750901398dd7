package finance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency every stored amount is normalized to.
const BaseCurrency = "VND"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// VND returns value as Money in the base currency.
func VND(value decimal.Decimal) Money { return Money{value: value, cur: BaseCurrency} }

func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case decimal.Decimal:
		return v
	}
	return decimal.Zero
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, e.g. "5.000.000 ₫".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string           { return m.cur }
func (m Money) Value() decimal.Decimal     { return m.value }
func (m Money) Equal(n Money) bool         { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool               { return m.value.IsZero() }
func (m Money) IsPositive() bool           { return m.value.IsPositive() }
func (m Money) IsNegative() bool           { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool { return m.value.LessThan(amount.value) }
func (m Money) Neg() Money                 { return Money{value: m.value.Neg(), cur: m.cur} }

var amountRE = regexp.MustCompile(`^([0-9][0-9.,]*)\s*(k|m|tr|b|ty)?$`)

// ParseAmount parses an amount as typed by a user: plain digits, digits with
// thousands separators ("5,000,000" or "5.000.000") and the shorthand
// suffixes k (thousand), m or tr (million) and b or ty (billion).
//
// With a suffix, or when a single separator is followed by other than three
// digits, the separator is read as a decimal point ("2.5m", "12.75").
func ParseAmount(s string) (decimal.Decimal, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	match := amountRE.FindStringSubmatch(in)
	if match == nil {
		return decimal.Zero, fmt.Errorf("cannot parse amount %q: %w", s, ErrInvalidAmount)
	}
	digits, suffix := match[1], match[2]

	var normalized string
	switch {
	case suffix != "":
		normalized = strings.ReplaceAll(digits, ",", ".")
	case strings.Count(digits, ",")+strings.Count(digits, ".") == 1 && !groupedByThousands(digits):
		normalized = strings.ReplaceAll(digits, ",", ".")
	default:
		normalized = strings.NewReplacer(",", "", ".", "").Replace(digits)
	}

	v, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot parse amount %q: %w", s, ErrInvalidAmount)
	}
	switch suffix {
	case "k":
		v = v.Mul(decimal.NewFromInt(1_000))
	case "m", "tr":
		v = v.Mul(decimal.NewFromInt(1_000_000))
	case "b", "ty":
		v = v.Mul(decimal.NewFromInt(1_000_000_000))
	}
	return v, nil
}

// groupedByThousands reports whether the only separator in s is followed by exactly three digits.
func groupedByThousands(s string) bool {
	i := strings.LastIndexAny(s, ",.")
	return i >= 0 && len(s)-i-1 == 3
}

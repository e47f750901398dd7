package finance

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{"income": Income, " Expense ": Expense, "thu": Income, "CHI": Expense} {
		got, err := ParseType(in)
		if err != nil || got != want {
			t.Errorf("ParseType(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseType("transfer"); err == nil {
		t.Error("ParseType(transfer) succeeded: transfers are not a type")
	}
	if Income.Opposite() != Expense || Expense.Opposite() != Income {
		t.Error("Opposite() is not symmetric")
	}
}

func TestParseDatetime(t *testing.T) {
	hcm := time.FixedZone("ICT", 7*3600)
	testCases := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-01T08:30:00", time.Date(2025, time.March, 1, 8, 30, 0, 0, hcm)},
		{"2025-03-01T08:30", time.Date(2025, time.March, 1, 8, 30, 0, 0, hcm)},
		{"2025-03-01 08:30:15", time.Date(2025, time.March, 1, 8, 30, 15, 0, hcm)},
		{"2025-03-01", time.Date(2025, time.March, 1, 0, 0, 0, 0, hcm)},
		{"2025-03-01T01:30:00Z", time.Date(2025, time.March, 1, 8, 30, 0, 0, hcm)},
		{"2025-03-01T01:30:00.123Z", time.Date(2025, time.March, 1, 1, 30, 0, 123e6, time.UTC)},
	}
	for _, tc := range testCases {
		got, err := ParseDatetime(tc.in, hcm)
		if err != nil {
			t.Errorf("ParseDatetime(%q) failed: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDatetime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "01/03/2025", "2025-13-01"} {
		if _, err := ParseDatetime(bad, hcm); err == nil {
			t.Errorf("ParseDatetime(%q) succeeded", bad)
		}
	}
}

func TestTransaction_JSON(t *testing.T) {
	tx := Transaction{
		ID:               "a1",
		Datetime:         "2025-03-01T08:30:00",
		Type:             Expense,
		Category:         "Food",
		Amount:           d("45000"),
		Account:          "Cash",
		Description:      "phở",
		OriginalAmount:   d("45000"),
		OriginalCurrency: "VND",
		CreatedAt:        time.Date(2025, time.March, 1, 1, 30, 0, 0, time.UTC),
	}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"a1","datetime":"2025-03-01T08:30:00","type":"Expense","category":"Food","amount":45000,"account":"Cash","description":"phở","originalAmount":45000,"originalCurrency":"VND","isTransfer":false,"transferPairId":null,"createdAt":"2025-03-01T01:30:00Z"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s\nwant %s", data, want)
	}

	var back Transaction
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(tx) {
		t.Errorf("Unmarshal() = %+v, want %+v", back, tx)
	}
}

func TestTransaction_UnmarshalLenient(t *testing.T) {
	var tx Transaction
	data := `{"id":"x","type":"Income","amount":"10","createdAt":"2025-03-01T08:30:00","updatedAt":""}`
	if err := json.Unmarshal([]byte(data), &tx); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if !tx.CreatedAt.Equal(time.Date(2025, time.March, 1, 8, 30, 0, 0, time.UTC)) || !tx.UpdatedAt.IsZero() {
		t.Errorf("timestamps = %v / %v", tx.CreatedAt, tx.UpdatedAt)
	}
	if !tx.Amount.Equal(d("10")) {
		t.Errorf("Amount = %s, want 10 from a quoted number", tx.Amount)
	}
	if err := json.Unmarshal([]byte(`{"id":"x","createdAt":"last week"}`), &tx); err == nil {
		t.Error("invalid createdAt accepted")
	}
}

func TestTransaction_SafeDescription(t *testing.T) {
	tx := Transaction{Description: `<b>"Tom" & Jerry's</b>`}
	if got := tx.SafeDescription(); got != "bTom  Jerrys/b" {
		t.Errorf("SafeDescription() = %q", got)
	}
}

func TestIntegrityReport_String(t *testing.T) {
	if got := (IntegrityReport{}).String(); got != "no repairs" {
		t.Errorf("String() = %q", got)
	}
	got := IntegrityReport{Malformed: 2, OrphanLegs: 1}.String()
	if !strings.Contains(got, "2 malformed") || !strings.Contains(got, "1 orphan") || strings.Contains(got, "duplicate") {
		t.Errorf("String() = %q", got)
	}
}

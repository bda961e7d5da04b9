package expense

import (
	"testing"

	"cloud.google.com/go/civil"
)

func normalizeCSV(t *testing.T, data string) *NormalizedTable {
	t.Helper()
	table, err := ReadTable([]byte(data))
	if err != nil {
		t.Fatalf("ReadTable returned error: %v", err)
	}
	return Normalize(table, ResolveColumns(table.Headers))
}

func TestNormalizeSignFlip(t *testing.T) {
	// 80% of parseable amounts are positive, so the file is treated as
	// expense-only and every value is remapped to -abs(value).
	nt := normalizeCSV(t, "amount\n100\n200\n300\n-50\n400\n")

	want := []float64{-100, -200, -300, -50, -400}
	for i, w := range want {
		if nt.Rows[i].Amount != w {
			t.Errorf("row %d: amount = %v, want %v", i, nt.Rows[i].Amount, w)
		}
	}
}

func TestNormalizeNoFlipWhenMostlyNegative(t *testing.T) {
	nt := normalizeCSV(t, "amount\n-100\n-200\n300\n")

	want := []float64{-100, -200, 300}
	for i, w := range want {
		if nt.Rows[i].Amount != w {
			t.Errorf("row %d: amount = %v, want %v", i, nt.Rows[i].Amount, w)
		}
	}
}

func TestNormalizeUnparseableAmounts(t *testing.T) {
	// The second column keeps the empty-amount row from reading as a blank
	// line, which the CSV reader would skip.
	nt := normalizeCSV(t, "amount,description\n-100,a\nnot-a-number,b\n,c\n\"-1,200.50\",d\n")

	if len(nt.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(nt.Rows))
	}
	if nt.Rows[0].Amount != -100 || !nt.Rows[0].AmountValid {
		t.Errorf("row 0: got (%v, %v), want (-100, true)", nt.Rows[0].Amount, nt.Rows[0].AmountValid)
	}
	if nt.Rows[1].AmountValid {
		t.Error("row 1: unparseable amount should be invalid")
	}
	if nt.Rows[2].AmountValid {
		t.Error("row 2: empty amount should be invalid")
	}
	if nt.Rows[3].Amount != -1200.50 || !nt.Rows[3].AmountValid {
		t.Errorf("row 3: got (%v, %v), want (-1200.50, true)", nt.Rows[3].Amount, nt.Rows[3].AmountValid)
	}
}

func TestNormalizeDebitCreditFallback(t *testing.T) {
	// ColumnMap with no amount role forces the debit/credit pair path.
	table := &Table{
		Headers: []string{"debit", "credit"},
		Rows: []Row{
			{"debit": "500", "credit": ""},
			{"debit": "", "credit": "1000"},
			{"debit": "bad", "credit": ""},
		},
	}
	got := Normalize(table, ColumnMap{})

	if got.Rows[0].Amount != -500 {
		t.Errorf("debit row: amount = %v, want -500", got.Rows[0].Amount)
	}
	if got.Rows[1].Amount != 0 {
		t.Errorf("credit-only row: amount = %v, want 0", got.Rows[1].Amount)
	}
	if got.Rows[2].Amount != 0 {
		t.Errorf("unparseable debit row: amount = %v, want 0", got.Rows[2].Amount)
	}
	if got.Columns.Amount != SynthAmount {
		t.Errorf("effective amount column = %q, want %q", got.Columns.Amount, SynthAmount)
	}
}

func TestNormalizeNoAmountSourcesAtAll(t *testing.T) {
	nt := normalizeCSV(t, "description\nSwiggy\nUber\n")

	for i, row := range nt.Rows {
		if row.Amount != 0 || !row.AmountValid {
			t.Errorf("row %d: got (%v, %v), want (0, true)", i, row.Amount, row.AmountValid)
		}
	}
	if nt.Columns.Amount != SynthAmount {
		t.Errorf("effective amount column = %q, want %q", nt.Columns.Amount, SynthAmount)
	}
}

func TestNormalizeDateLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want civil.Date
	}{
		{"2024-01-05", civil.Date{Year: 2024, Month: 1, Day: 5}},
		{"2024/01/05", civil.Date{Year: 2024, Month: 1, Day: 5}},
		{"01/05/2024", civil.Date{Year: 2024, Month: 1, Day: 5}},
		{"05 Jan 2024", civil.Date{Year: 2024, Month: 1, Day: 5}},
		{"2024-01-05T10:30:00", civil.Date{Year: 2024, Month: 1, Day: 5}},
	}

	for _, tt := range tests {
		got, ok := parseDate(tt.raw)
		if !ok {
			t.Errorf("parseDate(%q) failed", tt.raw)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if _, ok := parseDate("yesterday"); ok {
		t.Error("parseDate(yesterday) should fail")
	}
}

func TestNormalizeMonths(t *testing.T) {
	nt := normalizeCSV(t, "date,amount\n2024-01-05,-100\ngarbled,-50\n2024-02-10,-200\n")

	want := []string{"2024-01", UnknownMonth, "2024-02"}
	for i, w := range want {
		if nt.Rows[i].Month != w {
			t.Errorf("row %d: month = %q, want %q", i, nt.Rows[i].Month, w)
		}
	}
	if nt.Rows[1].Date != nil {
		t.Error("garbled date should normalize to nil")
	}
}

func TestNormalizeAllDatesInvalid(t *testing.T) {
	nt := normalizeCSV(t, "date,amount\nfoo,-100\nbar,-50\n")

	for i, row := range nt.Rows {
		if row.Month != UnknownMonth {
			t.Errorf("row %d: month = %q, want %q", i, row.Month, UnknownMonth)
		}
	}
}

func TestNormalizeSentinels(t *testing.T) {
	nt := normalizeCSV(t, "amount\n-100\n")

	row := nt.Rows[0]
	if row.Category != DefaultCategory {
		t.Errorf("category = %q, want %q", row.Category, DefaultCategory)
	}
	if row.Description != "" {
		t.Errorf("description = %q, want empty", row.Description)
	}
	cols := nt.Columns
	if cols.Date != SynthDate || cols.Category != SynthCategory || cols.Description != SynthDescription || cols.Month != SynthMonth {
		t.Errorf("unexpected effective columns: %+v", cols)
	}
}

func TestNormalizeBlankCategoryCell(t *testing.T) {
	nt := normalizeCSV(t, "amount,category\n-100,Food\n-50,\n")

	if nt.Rows[0].Category != "Food" {
		t.Errorf("row 0: category = %q, want Food", nt.Rows[0].Category)
	}
	if nt.Rows[1].Category != DefaultCategory {
		t.Errorf("row 1: category = %q, want %q", nt.Rows[1].Category, DefaultCategory)
	}
}

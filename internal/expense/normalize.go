package expense

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Synthesized field names used when no source column matched a role. They are
// reported through EffectiveColumns so downstream consumers (and categorized
// CSV re-exports) see the fields that were actually used.
const (
	SynthAmount      = "__amount"
	SynthDate        = "__date"
	SynthMonth       = "__month"
	SynthCategory    = "__category"
	SynthDescription = "__desc"
)

// Sentinel values for absent data. Absence is representable, not exceptional.
const (
	UnknownMonth       = "Unknown"
	DefaultCategory    = "Uncategorized"
	defaultDescription = ""
)

// Date layouts tried in order when coercing the date column. Entries that
// match none of these become null dates, never errors.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// NormalizedRow is one expense row after coercion. Amount follows the
// negative-outflow convention. Date is nil when the source value was absent
// or unparseable.
type NormalizedRow struct {
	Amount      float64
	AmountValid bool
	Date        *civil.Date
	Month       string
	Category    string
	Description string
}

// EffectiveColumns records the field names actually used for each role after
// normalization: the resolved source column, or the synthesized sentinel field.
type EffectiveColumns struct {
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Month       string `json:"month"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// NormalizedTable is the source table plus the four guaranteed derived fields.
type NormalizedTable struct {
	Source  *Table
	Rows    []NormalizedRow
	Columns EffectiveColumns
}

// Normalize coerces the table into the canonical expense schema:
//
//   - amounts become signed floats with outflows negative; when more than half
//     of the parseable source amounts are positive the file is assumed to be
//     expense-only and every value is remapped to -abs(value)
//   - with no amount column, a debit/credit pair yields amount = -debit
//     (credit is ignored under expense-only semantics), otherwise all zeros
//   - dates are parsed leniently, failures become null
//   - each row gets a "YYYY-MM" month key, or "Unknown" when the table has no
//     valid date at all
//   - missing category/description columns are synthesized with sentinels
//
// Normalize never fails on malformed values; unreadable input is rejected
// earlier by ReadTable.
func Normalize(t *Table, cols ColumnMap) *NormalizedTable {
	nt := &NormalizedTable{
		Source: t,
		Rows:   make([]NormalizedRow, len(t.Rows)),
	}

	normalizeAmounts(t, cols, nt)
	normalizeDates(t, cols, nt)
	normalizeCategories(t, cols, nt)
	nt.Columns.Month = SynthMonth

	return nt
}

func normalizeAmounts(t *Table, cols ColumnMap, nt *NormalizedTable) {
	if cols.Amount != "" {
		nt.Columns.Amount = cols.Amount

		positive, valid := 0, 0
		for i, row := range t.Rows {
			v, err := parseAmount(row[cols.Amount])
			if err != nil {
				continue // coerced to missing, summed as zero
			}
			nt.Rows[i].Amount = v
			nt.Rows[i].AmountValid = true
			valid++
			if v > 0 {
				positive++
			}
		}

		// Mostly-positive files store expenses as positive magnitudes and
		// must be remapped to the negative-outflow convention.
		if valid > 0 && float64(positive)/float64(valid) > 0.5 {
			for i := range nt.Rows {
				if nt.Rows[i].AmountValid {
					nt.Rows[i].Amount = -abs(nt.Rows[i].Amount)
				}
			}
		}
		return
	}

	// No amount column: fall back to an explicit debit/credit pair.
	lower := lowerHeaderIndex(t.Headers)
	debit := firstPresent(lower, "debit", "debit_amount")
	credit := firstPresent(lower, "credit", "credit_amount")

	nt.Columns.Amount = SynthAmount
	if debit != "" && credit != "" {
		for i, row := range t.Rows {
			v, err := parseAmount(row[debit])
			if err != nil {
				v = 0
			}
			nt.Rows[i].Amount = -v
			nt.Rows[i].AmountValid = true
		}
		return
	}

	// Neither present: synthesize an all-zero amount column.
	for i := range nt.Rows {
		nt.Rows[i].Amount = 0
		nt.Rows[i].AmountValid = true
	}
}

func normalizeDates(t *Table, cols ColumnMap, nt *NormalizedTable) {
	anyValid := false

	if cols.Date != "" {
		nt.Columns.Date = cols.Date
		for i, row := range t.Rows {
			if d, ok := parseDate(row[cols.Date]); ok {
				nt.Rows[i].Date = &d
				anyValid = true
			}
		}
	} else {
		nt.Columns.Date = SynthDate
	}

	for i := range nt.Rows {
		if anyValid && nt.Rows[i].Date != nil {
			d := nt.Rows[i].Date
			nt.Rows[i].Month = fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
		} else {
			nt.Rows[i].Month = UnknownMonth
		}
	}
}

func normalizeCategories(t *Table, cols ColumnMap, nt *NormalizedTable) {
	if cols.Category != "" {
		nt.Columns.Category = cols.Category
	} else {
		nt.Columns.Category = SynthCategory
	}
	if cols.Description != "" {
		nt.Columns.Description = cols.Description
	} else {
		nt.Columns.Description = SynthDescription
	}

	for i, row := range t.Rows {
		if cols.Category != "" && strings.TrimSpace(row[cols.Category]) != "" {
			nt.Rows[i].Category = row[cols.Category]
		} else {
			nt.Rows[i].Category = DefaultCategory
		}
		if cols.Description != "" {
			nt.Rows[i].Description = row[cols.Description]
		} else {
			nt.Rows[i].Description = defaultDescription
		}
	}
}

// parseAmount coerces a raw cell to a float. It tolerates surrounding
// whitespace and thousands separators but nothing fancier; anything else is
// treated as missing by the caller.
func parseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

// parseDate tries each supported layout in order.
func parseDate(raw string) (civil.Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return civil.Date{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(ts), true
		}
	}
	return civil.Date{}, false
}

func firstPresent(lower map[string]string, names ...string) string {
	for _, n := range names {
		if original, ok := lower[n]; ok {
			return original
		}
	}
	return ""
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package expense

import "strings"

// Alias lists for each logical column role, in priority order. Matching is
// case-insensitive against trimmed header names; the first alias that appears
// in the header set wins.
var (
	dateAliases        = []string{"date", "txn_date", "transaction_date", "posted_date"}
	amountAliases      = []string{"amount", "amt", "transaction_amount", "debit", "debit_amount", "inr_amount"}
	categoryAliases    = []string{"category", "cat", "bucket"}
	descriptionAliases = []string{"description", "narration", "merchant", "details", "remarks"}
)

// ColumnMap binds the four logical roles to concrete header names. An empty
// string means no source column matched that role; callers handle the absence
// explicitly. The map is computed once by ResolveColumns and threaded through
// the rest of the pipeline, never re-inferred downstream.
type ColumnMap struct {
	Date        string
	Amount      string
	Category    string
	Description string
}

// ResolveColumns infers which headers play which role. It is a pure function
// over the header names and never fails: unmatched roles stay empty.
func ResolveColumns(headers []string) ColumnMap {
	lower := lowerHeaderIndex(headers)

	return ColumnMap{
		Date:        pickColumn(lower, dateAliases),
		Amount:      pickColumn(lower, amountAliases),
		Category:    pickColumn(lower, categoryAliases),
		Description: pickColumn(lower, descriptionAliases),
	}
}

// lowerHeaderIndex maps the lower-cased, trimmed header name back to the
// original spelling. On duplicates the first occurrence wins.
func lowerHeaderIndex(headers []string) map[string]string {
	lower := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := lower[key]; !exists {
			lower[key] = h
		}
	}
	return lower
}

func pickColumn(lower map[string]string, aliases []string) string {
	for _, a := range aliases {
		if original, ok := lower[a]; ok {
			return original
		}
	}
	return ""
}

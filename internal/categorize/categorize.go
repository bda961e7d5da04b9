// Package categorize assigns a spending category to every merchant in an
// uploaded export with a single model call over the distinct merchant names.
package categorize

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/advisor"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/expense"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/gemini"
)

// CategoryColumn is the header added (or overwritten) on categorized output.
const CategoryColumn = "category"

// Categorizer runs the merchant-categorization flow over raw CSV bytes.
type Categorizer struct {
	gen advisor.Generator
	log zerolog.Logger
}

// New creates a Categorizer backed by the given generator.
func New(gen advisor.Generator, log zerolog.Logger) *Categorizer {
	return &Categorizer{gen: gen, log: log}
}

// CategorizeCSV parses the export, asks the model to categorize its distinct
// merchants, and returns the table re-encoded as CSV with a category column.
// Unreadable input propagates expense.ErrInvalidInput.
func (c *Categorizer) CategorizeCSV(ctx context.Context, raw []byte) ([]byte, error) {
	table, err := expense.ReadTable(raw)
	if err != nil {
		return nil, fmt.Errorf("CategorizeCSV: %w", err)
	}

	cols := expense.ResolveColumns(table.Headers)
	merchants := Merchants(table, cols)
	if len(merchants) == 0 {
		// Nothing to categorize; emit the table unchanged with an empty
		// category column so downstream consumers see a stable schema.
		return WriteCSV(table, cols, nil)
	}

	prompt := BuildPrompt(merchants)
	res := c.gen.Generate(ctx, "", []advisor.Part{{Role: advisor.PartRoleUser, Text: prompt}})
	switch res.Outcome {
	case advisor.OutcomeSuccess:
		// fall through
	case advisor.OutcomeBlocked:
		return nil, fmt.Errorf("CategorizeCSV: model blocked categorization: %s", res.Reason)
	default:
		return nil, fmt.Errorf("CategorizeCSV: model call failed: %s", res.Detail)
	}

	mapping := ParseMapping(res.Text)
	c.log.Info().
		Int("merchants", len(merchants)).
		Int("mapped", len(mapping)).
		Msg("Merchant categorization complete")

	return WriteCSV(table, cols, mapping)
}

// Merchants returns the distinct merchant names from the description column in
// first-seen order. With no description column there is nothing to categorize.
func Merchants(t *expense.Table, cols expense.ColumnMap) []string {
	if cols.Description == "" {
		return nil
	}

	seen := map[string]bool{}
	var out []string
	for _, row := range t.Rows {
		m := strings.TrimSpace(row[cols.Description])
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// ParseMapping extracts merchant→category pairs from the model's reply. Fenced
// output is tolerated; lines without a comma, and a literal header line, are
// skipped. The split is on the LAST comma so merchant names containing commas
// survive.
func ParseMapping(raw string) map[string]string {
	mapping := map[string]string{}

	for _, line := range strings.Split(gemini.CleanModelText(raw), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		idx := strings.LastIndex(line, ",")
		if idx <= 0 || idx == len(line)-1 {
			continue
		}
		merchant := strings.TrimSpace(line[:idx])
		category := strings.TrimSpace(line[idx+1:])
		if merchant == "" || category == "" {
			continue
		}
		if strings.EqualFold(merchant, "merchant") && strings.EqualFold(category, "category") {
			continue // echoed header
		}
		mapping[merchant] = category
	}
	return mapping
}

// WriteCSV re-encodes the table with the category column filled from mapping
// (keyed by the description column). Merchants the model skipped keep an empty
// category. An existing category header is overwritten in place; otherwise the
// column is appended.
func WriteCSV(t *expense.Table, cols expense.ColumnMap, mapping map[string]string) ([]byte, error) {
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)

	catIdx := -1
	for i, h := range headers {
		if strings.EqualFold(h, CategoryColumn) {
			catIdx = i
			break
		}
	}
	if catIdx == -1 {
		headers = append(headers, CategoryColumn)
		catIdx = len(headers) - 1
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("WriteCSV: write header: %w", err)
	}

	for _, row := range t.Rows {
		record := make([]string, len(headers))
		for i, h := range t.Headers {
			record[i] = row[h]
		}

		if cols.Description != "" {
			if cat, ok := mapping[strings.TrimSpace(row[cols.Description])]; ok {
				record[catIdx] = cat
			} else if catIdx >= len(t.Headers) {
				record[catIdx] = ""
			}
		}

		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("WriteCSV: write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("WriteCSV: flush: %w", err)
	}
	return buf.Bytes(), nil
}

package categorize

import (
	"fmt"
	"strings"
)

// Taxonomy is the fixed category set the model must choose from. The final
// entry is the catch-all.
var Taxonomy = []string{
	"Food", "Fuel", "Shopping", "Utilities", "Bills",
	"Medical", "Entertainment", "Travel", "Groceries", "Other",
}

// BuildPrompt renders the single categorization prompt for a merchant batch.
// The model is asked for bare "merchant,category" CSV lines so the reply can
// be joined back onto the table without a second parse step.
func BuildPrompt(merchants []string) string {
	var lines strings.Builder
	for _, m := range merchants {
		lines.WriteString("- ")
		lines.WriteString(m)
		lines.WriteString("\n")
	}

	return fmt.Sprintf(
		"You are a finance assistant that categorizes bank transaction merchants into one of:\n"+
			"%s\n\n"+
			"For each merchant below, return CSV format as:\n"+
			"merchant,category\n\n"+
			"Return ONLY the CSV lines, one merchant per line.\n"+
			"Do NOT wrap the response in code fences.\n\n"+
			"Merchants:\n%s",
		strings.Join(Taxonomy, ", "),
		lines.String(),
	)
}

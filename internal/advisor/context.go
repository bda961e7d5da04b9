package advisor

import (
	"encoding/json"
	"fmt"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/expense"
)

// contextBlock is the structured snapshot handed to the model alongside each
// query. A null monthly_income signals the model to ask for it.
type contextBlock struct {
	MonthlyIncome *float64         `json:"monthly_income"`
	ExpenseTotals *expense.Profile `json:"expense_totals"`
}

// BuildContextBlock serializes the financial profile plus optional income into
// the DATA block injected into the newest user turn. Values pass through
// untransformed.
func BuildContextBlock(profile *expense.Profile, monthlyIncome *float64) (string, error) {
	data, err := json.MarshalIndent(contextBlock{
		MonthlyIncome: monthlyIncome,
		ExpenseTotals: profile,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("BuildContextBlock: marshal: %w", err)
	}
	return string(data), nil
}

package advisor

import "strings"

// DefaultMemoryBudget is the character budget for the rolling memory summary.
const DefaultMemoryBudget = 900

// ellipsisMarker prefixes a summary whose head was cut by truncation.
const ellipsisMarker = "… "

// memoryWindow is how many trailing turns feed each refresh.
const memoryWindow = 6

// Keyword tables for the heuristic extraction. Matching is case-insensitive
// substring over the whole message (goals) or a single line (budgets).
var (
	goalKeywords   = []string{"goal", "trip", "save", "invest", "budget"}
	budgetKeywords = []string{"limit", "cap", "reduce", "cut", "allocate", "set aside"}
)

// Caps on how much of each extracted list survives into the bullet block.
const (
	keepGoals   = 2
	keepBudgets = 3
	keepTips    = 4
	maxTips     = 6
)

// UpdateMemorySummary folds the most recent turns into the previous summary
// without any model call. User turns contribute goal-like messages; assistant
// turns contribute budget-constraint lines and the first few non-empty lines
// as tips. The merged result is truncated from the front (keeping the most
// recent content) when it exceeds maxChars. Truncation is lossy, never an error.
//
// Deterministic for identical inputs. The caller decides the refresh cadence
// and must serialize concurrent calls per session.
func UpdateMemorySummary(prev string, history []Turn, maxChars int) string {
	recent := history
	if len(recent) > memoryWindow {
		recent = recent[len(recent)-memoryWindow:]
	}

	var goals, budgets, tips []string

	for _, turn := range recent {
		txt := strings.TrimSpace(turn.Content)
		if txt == "" {
			continue
		}

		if turn.Role == RoleUser {
			if containsAny(strings.ToLower(txt), goalKeywords) {
				goals = append(goals, txt)
			}
			continue
		}

		for _, line := range strings.Split(txt, "\n") {
			line = strings.Trim(line, " -•\t")
			if line == "" {
				continue
			}
			if containsAny(strings.ToLower(line), budgetKeywords) ||
				strings.HasSuffix(line, "%") ||
				strings.HasPrefix(line, "Target") {
				budgets = append(budgets, line)
			}
			if len(tips) < maxTips {
				tips = append(tips, line)
			}
		}
	}

	var bullets []string
	if len(goals) > 0 {
		bullets = append(bullets, "Goals: "+strings.Join(lastN(goals, keepGoals), "; "))
	}
	if len(budgets) > 0 {
		bullets = append(bullets, "Budget notes: "+strings.Join(lastN(budgets, keepBudgets), "; "))
	}
	if len(tips) > 0 {
		bullets = append(bullets, "Tips: "+strings.Join(lastN(tips, keepTips), "; "))
	}

	var b strings.Builder
	b.WriteString(prev)
	b.WriteString("\n")
	for i, bullet := range bullets {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(bullet)
	}
	merged := strings.TrimSpace(b.String())

	// Character budget is counted in runes, matching the wire contract of
	// "characters" rather than bytes.
	if runes := []rune(merged); len(runes) > maxChars {
		merged = ellipsisMarker + string(runes[len(runes)-maxChars:])
	}
	return merged
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

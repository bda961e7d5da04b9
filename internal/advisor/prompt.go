package advisor

import (
	"fmt"
	"strings"
)

// Conversation roles as stored in session history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Wire roles accepted by the model boundary.
const (
	PartRoleUser  = "user"
	PartRoleModel = "model"
)

// Turn is one conversation turn. History is append-only within a session.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Part is one role-tagged prompt element in the exact shape expected by the
// model-invocation boundary.
type Part struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SystemInstruction pins the model's persona and the mandatory closing note.
const SystemInstruction = "You are a friendly personal finance copilot for India-focused users.\n" +
	"The user uploads a CSV that contains only OUTGOING transactions (expenses). Income is asked separately.\n" +
	"Keep responses short, structured, and practical.\n" +
	"Strictly avoid naming specific investment products, funds, stocks or giving buy/sell calls.\n" +
	"Suggest ONLY categories (e.g., liquid/savings, RD/short-duration debt, broad-market index exposure, SGB).\n" +
	"Always end with this NOTE on a new line:\n" +
	Disclaimer + "\n"

// Instructions renders the fixed guidance text around the raw user query.
func Instructions(query string) string {
	return fmt.Sprintf("User question:\n%s\n\n", query) +
		"Rules:\n" +
		"- If asked about savings rate or budgets, compute rough guidance using provided income and expense totals.\n" +
		"- If income is missing, ask briefly for it before estimating.\n" +
		"- Reply as concise bullet points.\n" +
		"- Do not name specific funds or stocks. Stick to categories.\n" +
		fmt.Sprintf("- End with: %s\n", Disclaimer)
}

// CraftParts assembles the ordered prompt parts for one model call. Prior
// turns are mapped user→user, assistant→model in order; the final part is a
// fresh user turn carrying memory + context + instructions. That final part is
// the single injection point for grounding data, so long conversations never
// accumulate stale or duplicated context.
func CraftParts(history []Turn, ctxBlock, query, memSummary string) []Part {
	parts := make([]Part, 0, len(history)+1)

	for _, h := range history {
		role := PartRoleModel
		if h.Role == RoleUser {
			role = PartRoleUser
		}
		parts = append(parts, Part{Role: role, Text: h.Content})
	}

	var payload []string
	if memSummary != "" {
		payload = append(payload, "MEMORY (summary of past chat):\n"+memSummary)
	}
	payload = append(payload, "DATA (financial context):\n"+ctxBlock)
	payload = append(payload, Instructions(query))

	parts = append(parts, Part{Role: PartRoleUser, Text: strings.Join(payload, "\n\n")})
	return parts
}

package advisor

import (
	"regexp"
	"strings"
)

// Disclaimer must appear verbatim in every final response.
const Disclaimer = "Educational only. Not financial advice. Please research before investing."

// prohibitedPhrases are hard advice patterns that force the canned fallback.
// Kept as a data table so the rule set is replaceable configuration rather
// than buried literals.
var prohibitedPhrases = []string{
	"target price",
	"guaranteed return",
	"sure-shot",
	"multibagger",
	"buy now",
	"sell now",
}

var prohibitedRe = regexp.MustCompile("(?i)(" + strings.Join(prohibitedPhrases, "|") + ")")

// fallbackResponse replaces any answer that crossed into prohibited advice.
// It already ends with the disclaimer, so no second append happens.
const fallbackResponse = "I can't provide buy/sell calls or guaranteed returns.\n" +
	"Here are safer category-level steps:\n" +
	"- Build emergency fund (3–6 months) in high-liquidity options.\n" +
	"- For 1–3 yr goals: RD/short-duration debt category.\n" +
	"- For 5+ yrs: broad-market index exposure.\n" +
	"- Consider SGB for diversification if lock-in suits.\n\n" +
	Disclaimer

// EnforceNote post-processes raw model output. The prohibited-phrase scan runs
// against the original text; when it matches, the output is the fixed fallback
// as-is. Otherwise the disclaimer is appended (blank-line separated) unless
// already present, matched case-insensitively.
func EnforceNote(text string) string {
	if prohibitedRe.MatchString(text) {
		return fallbackResponse
	}
	if !strings.Contains(strings.ToLower(text), strings.ToLower(Disclaimer)) {
		text += "\n\n" + Disclaimer
	}
	return text
}

// ContainsProhibited reports whether the text matches any prohibited phrase.
func ContainsProhibited(text string) bool {
	return prohibitedRe.MatchString(text)
}

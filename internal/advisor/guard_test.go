package advisor

import (
	"strings"
	"testing"
)

func TestEnforceNoteAppendsDisclaimer(t *testing.T) {
	got := EnforceNote("Spend less on dining out.")

	if !strings.HasSuffix(got, "\n\n"+Disclaimer) {
		t.Errorf("disclaimer not appended:\n%s", got)
	}
}

func TestEnforceNoteDisclaimerAlreadyPresent(t *testing.T) {
	tests := []string{
		"Advice here.\n\n" + Disclaimer,
		"Advice here.\n\n" + strings.ToUpper(Disclaimer),
	}
	for _, in := range tests {
		got := EnforceNote(in)
		if got != in {
			t.Errorf("EnforceNote(%q) = %q, want unchanged", in, got)
		}
		if strings.Count(strings.ToLower(got), strings.ToLower(Disclaimer)) != 1 {
			t.Errorf("disclaimer duplicated in:\n%s", got)
		}
	}
}

func TestEnforceNoteProhibited(t *testing.T) {
	tests := []string{
		"This stock is a Multibagger, trust me.",
		"BUY NOW before the target price moves.",
		"guaranteed return of 12%",
		"a sure-shot pick",
		"you should sell now",
	}
	for _, in := range tests {
		if got := EnforceNote(in); got != fallbackResponse {
			t.Errorf("EnforceNote(%q) should return the fallback, got:\n%s", in, got)
		}
	}
}

func TestEnforceNoteFallbackEndsWithDisclaimer(t *testing.T) {
	if !strings.HasSuffix(fallbackResponse, Disclaimer) {
		t.Error("fallback response must already end with the disclaimer")
	}
}

func TestContainsProhibited(t *testing.T) {
	if ContainsProhibited("stick to index categories") {
		t.Error("benign text flagged as prohibited")
	}
	if !ContainsProhibited("Target Price: 500") {
		t.Error("prohibited phrase not detected case-insensitively")
	}
}

package advisor

import (
	"strings"
	"testing"
)

func TestCraftParts(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello! How can I help?"},
	}

	parts := CraftParts(history, `{"monthly_income":null}`, "How much did I spend?", "")

	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	if parts[0].Role != PartRoleUser || parts[0].Text != "Hi" {
		t.Errorf("parts[0] = %+v", parts[0])
	}
	if parts[1].Role != PartRoleModel || parts[1].Text != "Hello! How can I help?" {
		t.Errorf("parts[1] = %+v", parts[1])
	}

	final := parts[2]
	if final.Role != PartRoleUser {
		t.Errorf("final part role = %q, want user", final.Role)
	}
	if strings.Contains(final.Text, "MEMORY") {
		t.Error("empty memory summary must not produce a MEMORY section")
	}
	if !strings.HasPrefix(final.Text, "DATA (financial context):\n{\"monthly_income\":null}") {
		t.Errorf("final part must lead with the DATA block, got:\n%s", final.Text)
	}
	if !strings.Contains(final.Text, "User question:\nHow much did I spend?") {
		t.Errorf("final part missing the query, got:\n%s", final.Text)
	}
	if !strings.Contains(final.Text, "- End with: "+Disclaimer) {
		t.Errorf("final part missing the closing rule, got:\n%s", final.Text)
	}
}

func TestCraftPartsWithMemory(t *testing.T) {
	parts := CraftParts(nil, "{}", "query", "- Goals: trip")

	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	text := parts[0].Text
	if !strings.HasPrefix(text, "MEMORY (summary of past chat):\n- Goals: trip\n\n") {
		t.Errorf("memory section must lead the final part, got:\n%s", text)
	}
	if strings.Index(text, "MEMORY") > strings.Index(text, "DATA") {
		t.Error("MEMORY must precede DATA")
	}
}

func TestSystemInstructionEndsWithDisclaimer(t *testing.T) {
	if !strings.HasSuffix(SystemInstruction, Disclaimer+"\n") {
		t.Error("system instruction must close with the disclaimer")
	}
}

package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, system string, parts []Part) ModelResult

	gotSystem string
	gotParts  []Part
}

func (m *mockGenerator) Generate(ctx context.Context, system string, parts []Part) ModelResult {
	m.gotSystem = system
	m.gotParts = parts
	return m.GenerateFunc(ctx, system, parts)
}

func TestAskSuccessEnforcesDisclaimer(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, system string, parts []Part) ModelResult {
			return ModelResult{Outcome: OutcomeSuccess, Text: "  Spend less.  "}
		},
	}
	a := New(gen, zerolog.Nop())

	res := a.Ask(context.Background(), nil, "{}", "", "how do I save?")

	if res.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", res.Outcome)
	}
	if res.Text != "Spend less.\n\n"+Disclaimer {
		t.Errorf("text = %q, want trimmed reply plus disclaimer", res.Text)
	}
	if gen.gotSystem != SystemInstruction {
		t.Error("generator did not receive the system instruction")
	}
	if len(gen.gotParts) != 1 || !strings.Contains(gen.gotParts[0].Text, "how do I save?") {
		t.Errorf("generator received unexpected parts: %+v", gen.gotParts)
	}
}

func TestAskProhibitedReplyFallsBack(t *testing.T) {
	gen := &mockGenerator{
		GenerateFunc: func(ctx context.Context, system string, parts []Part) ModelResult {
			return ModelResult{Outcome: OutcomeSuccess, Text: "buy now, guaranteed return"}
		},
	}
	a := New(gen, zerolog.Nop())

	res := a.Ask(context.Background(), nil, "{}", "", "q")
	if res.Text != fallbackResponse {
		t.Errorf("prohibited reply must become the fallback, got:\n%s", res.Text)
	}
}

func TestAskPassesThroughFailures(t *testing.T) {
	tests := []ModelResult{
		{Outcome: OutcomeBlocked, Reason: "SAFETY"},
		{Outcome: OutcomeTransportFailure, Detail: "dial tcp: timeout"},
	}
	for _, want := range tests {
		gen := &mockGenerator{
			GenerateFunc: func(ctx context.Context, system string, parts []Part) ModelResult {
				return want
			},
		}
		a := New(gen, zerolog.Nop())

		got := a.Ask(context.Background(), nil, "{}", "", "q")
		if got != want {
			t.Errorf("Ask result = %+v, want %+v", got, want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{OutcomeSuccess, "success"},
		{OutcomeBlocked, "blocked"},
		{OutcomeTransportFailure, "transport_failure"},
		{Outcome(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.o, got, tt.want)
		}
	}
}

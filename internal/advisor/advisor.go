// Package advisor assembles grounded, policy-constrained prompts for the
// financial-advice model and post-processes its replies. All functions here
// are pure, synchronous transformations over in-memory data; the single
// suspension point is the Generator call, which callers own the retry and
// timeout policy for.
package advisor

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Outcome classifies one model invocation so callers can apply distinct
// policies without parsing error text.
type Outcome int

const (
	// OutcomeSuccess means the model produced usable text.
	OutcomeSuccess Outcome = iota
	// OutcomeBlocked means the model refused the prompt (safety feedback).
	OutcomeBlocked
	// OutcomeTransportFailure means the call itself failed (network, auth,
	// quota, empty response).
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// ModelResult is the explicit result of one model call.
type ModelResult struct {
	Outcome Outcome
	Text    string // set on success
	Reason  string // set when blocked
	Detail  string // set on transport failure
}

// Generator is the opaque model capability: given structured prompt parts,
// it returns text. Implementations decide nothing about prompt content.
type Generator interface {
	Generate(ctx context.Context, system string, parts []Part) ModelResult
}

// Advisor turns a session's state plus a fresh query into a guarded reply.
type Advisor struct {
	gen Generator
	log zerolog.Logger
}

// New creates an Advisor backed by the given generator.
func New(gen Generator, log zerolog.Logger) *Advisor {
	return &Advisor{gen: gen, log: log}
}

// Ask performs one advice turn: compose parts from the prior history (the new
// query must not already be in history), call the model once, and guard the
// reply. Success text always comes back disclaimer-enforced.
func (a *Advisor) Ask(ctx context.Context, history []Turn, ctxBlock, memSummary, query string) ModelResult {
	parts := CraftParts(history, ctxBlock, query, memSummary)

	a.log.Debug().
		Int("history_turns", len(history)).
		Int("parts", len(parts)).
		Bool("has_memory", memSummary != "").
		Msg("Dispatching advice prompt")

	res := a.gen.Generate(ctx, SystemInstruction, parts)
	switch res.Outcome {
	case OutcomeSuccess:
		res.Text = EnforceNote(strings.TrimSpace(res.Text))
	case OutcomeBlocked:
		a.log.Warn().Str("reason", res.Reason).Msg("Model blocked the prompt")
	case OutcomeTransportFailure:
		a.log.Error().Str("detail", res.Detail).Msg("Model call failed")
	}
	return res
}

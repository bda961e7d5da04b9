// Package gemini adapts the Gemini SDK to the advisor's Generator contract.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/advisor"
)

// Default model names. The fallback is used when the primary model is not
// available to the caller's API key.
const (
	DefaultModel         = "gemini-2.5-pro"
	DefaultFallbackModel = "gemini-2.5-flash"
)

// Client wraps a genai client with model fallback and outcome classification.
type Client struct {
	api      *genai.Client
	model    string
	fallback string
	log      zerolog.Logger
}

// NewClient creates a Gemini-backed generator. apiKey must be non-empty;
// model/fallback default when blank.
func NewClient(ctx context.Context, apiKey, model, fallback string, log zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini.NewClient: missing API key")
	}
	if model == "" {
		model = DefaultModel
	}
	if fallback == "" {
		fallback = DefaultFallbackModel
	}

	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini.NewClient: create genai client: %w", err)
	}

	return &Client{api: api, model: model, fallback: fallback, log: log}, nil
}

// Generate implements advisor.Generator. It makes exactly one content call
// (plus at most one retry against the fallback model when the primary model
// does not exist) and maps the response onto the explicit result type.
func (c *Client) Generate(ctx context.Context, system string, parts []advisor.Part) advisor.ModelResult {
	contents := make([]*genai.Content, 0, len(parts))
	for _, p := range parts {
		contents = append(contents, &genai.Content{
			Role:  p.Role,
			Parts: []*genai.Part{{Text: p.Text}},
		})
	}

	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		}
	}

	resp, err := c.api.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil && isModelNotFound(err) && c.fallback != c.model {
		c.log.Warn().
			Str("model", c.model).
			Str("fallback", c.fallback).
			Msg("Primary model unavailable, retrying with fallback")
		resp, err = c.api.Models.GenerateContent(ctx, c.fallback, contents, config)
	}
	if err != nil {
		return advisor.ModelResult{
			Outcome: advisor.OutcomeTransportFailure,
			Detail:  fmt.Sprintf("generate content: %v", err),
		}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return advisor.ModelResult{
				Outcome: advisor.OutcomeBlocked,
				Reason:  string(resp.PromptFeedback.BlockReason),
			}
		}
		return advisor.ModelResult{
			Outcome: advisor.OutcomeTransportFailure,
			Detail:  "empty response from model",
		}
	}

	return advisor.ModelResult{Outcome: advisor.OutcomeSuccess, Text: text}
}

func isModelNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "404")
}

// CleanModelText strips Markdown code fences the model sometimes wraps plain
// output in, despite instructions not to.
func CleanModelText(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```csv etc).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

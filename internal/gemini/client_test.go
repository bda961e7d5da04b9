package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "", "", zerolog.Nop()); err == nil {
		t.Error("NewClient without a key should fail")
	}
}

func TestIsModelNotFound(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("model not found"), true},
		{errors.New("Error 404: NOT_FOUND"), true},
		{errors.New("rate limit exceeded"), false},
	}
	for _, tt := range tests {
		if got := isModelNotFound(tt.err); got != tt.want {
			t.Errorf("isModelNotFound(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestCleanModelText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"bare fences", "```\nhello\n```", "hello"},
		{"language tag", "```csv\na,b\nc,d\n```", "a,b\nc,d"},
		{"surrounding whitespace", "  \n```\nhello\n```\n  ", "hello"},
		{"unterminated fence", "```\nhello", "hello"},
		{"fence only", "```", "```"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanModelText(tt.in); got != tt.want {
				t.Errorf("CleanModelText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

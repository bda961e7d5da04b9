package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{" WARN ", zerolog.WarnLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	log := New("error")
	if log.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("level = %v, want error", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("key", "value").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) || !strings.Contains(out, "hello") {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	ctx := WithContext(context.Background(), log)
	retrieved := FromContext(ctx)
	retrieved.Info().Msg("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("context logger not used: %s", buf.String())
	}

	// A bare context yields a usable default logger.
	fallback := FromContext(context.Background())
	fallback.Debug().Msg("dropped at info level")
}

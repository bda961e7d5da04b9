// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries everything the binaries read from the environment. Zero
// values mean "feature off" (no bucket → in-memory uploads, no API key →
// model-dependent endpoints disabled).
type Config struct {
	Port int

	// GeminiAPIKey comes from GOOGLE_API_KEY, falling back to GEMINI_API_KEY.
	GeminiAPIKey  string
	Model         string
	FallbackModel string

	// GCSBucket switches the upload store to Cloud Storage when set.
	GCSBucket       string
	CredentialsFile string

	AllowedOrigins []string
	MemoryMaxChars int
	LogLevel       string

	JobWorkers   int
	JobQueueSize int
}

// Load reads the environment with defaults matching local development.
func Load() Config {
	return Config{
		Port:            envInt("PORT", 8000),
		GeminiAPIKey:    envFirst("GOOGLE_API_KEY", "GEMINI_API_KEY"),
		Model:           envStr("GEMINI_MODEL", "gemini-2.5-pro"),
		FallbackModel:   envStr("GEMINI_FALLBACK_MODEL", "gemini-2.5-flash"),
		GCSBucket:       envStr("GCS_BUCKET", ""),
		CredentialsFile: envStr("GOOGLE_APPLICATION_CREDENTIALS", ""),
		AllowedOrigins:  envList("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080"),
		MemoryMaxChars:  envInt("MEMORY_MAX_CHARS", 900),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		JobWorkers:      envInt("JOB_WORKERS", 2),
		JobQueueSize:    envInt("JOB_QUEUE_SIZE", 100),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFirst(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key, fallback string) []string {
	raw := envStr(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

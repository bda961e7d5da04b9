// Command categorize assigns spending categories to the merchants of a CSV
// export with one Gemini call and writes the categorized CSV.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/categorize"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/config"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/gemini"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	file := flag.String("file", "", "path to the transactions CSV")
	out := flag.String("out", "Bank_transaction_categorized.csv", "output file path")
	flag.Parse()

	log := logger.New(cfg.LogLevel)

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("Error: GOOGLE_API_KEY or GEMINI_API_KEY must be set")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.FallbackModel, cfg.FallbackModel, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	result, err := categorize.New(client, log).CategorizeCSV(ctx, data)
	if err != nil {
		log.Fatal().Err(err).Msg("Categorization failed")
	}

	if err := os.WriteFile(*out, result, 0o644); err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("Failed to write output")
	}

	log.Info().Str("out", *out).Msg("Categorization complete")
}

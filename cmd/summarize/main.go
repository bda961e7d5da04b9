// Command summarize reads a bank-transaction CSV and prints the financial
// context block (profile + optional income) as JSON.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/advisor"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/expense"
	"github.com/AryamanRoy/Raseed-FinanceAI/internal/logger"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "path to the expenses CSV")
	income := flag.Float64("income", 0, "monthly income (0 = not provided)")
	flag.Parse()

	log := logger.New(os.Getenv("LOG_LEVEL"))

	if *file == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read file")
	}

	table, err := expense.ReadTable(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse CSV")
	}

	cols := expense.ResolveColumns(table.Headers)
	nt := expense.Normalize(table, cols)
	profile := expense.Summarize(nt)

	var monthlyIncome *float64
	if *income > 0 {
		monthlyIncome = income
	}

	block, err := advisor.BuildContextBlock(profile, monthlyIncome)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build context block")
	}

	log.Info().
		Int("rows", len(table.Rows)).
		Float64("total_outflow", profile.TotalOutflow).
		Msg("Summarized")

	fmt.Println(block)
}

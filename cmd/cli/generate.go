package main

import (
	"fmt"
	"time"

	"ech-simulator/internal/data"
	"ech-simulator/internal/model"

	"github.com/spf13/cobra"
)

var (
	generateStart   string
	generatePeriods int
	generateOut     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a fresh synthetic baseline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if generateStart == "" {
			generateStart = cfg.Data.StartDate
		}
		if generatePeriods == 0 {
			generatePeriods = cfg.Data.Periods
		}
		if generateOut == "" {
			generateOut = cfg.Data.BaselinePath
		}
		if generatePeriods < 24 || generatePeriods > 240 {
			return fmt.Errorf("--periods must be between 24 and 240, got %d", generatePeriods)
		}
		start, err := time.Parse(model.DateLayout, generateStart)
		if err != nil {
			return fmt.Errorf("--start must be YYYY-MM-DD: %w", err)
		}

		b, err := data.NewGenerator(start, generatePeriods).Generate()
		if err != nil {
			return err
		}
		if err := data.SaveBaseline(b, generateOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d periods (%s to %s) to %s\n",
			b.Len(), b.Dates[0], b.Dates[b.Len()-1], generateOut)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateStart, "start", "", "First period, YYYY-MM-DD (default from config)")
	generateCmd.Flags().IntVar(&generatePeriods, "periods", 0, "Number of monthly periods (default from config)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output path (default: baseline path)")
}

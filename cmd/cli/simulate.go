package main

import (
	"encoding/json"
	"fmt"

	"ech-simulator/internal/model"
	"ech-simulator/internal/simulate"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	simulateParams []string
	simulateOut    string
	simulateJSON   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <id>",
	Short: "Apply one scenario and forecast the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		custom, err := parseParams(simulateParams)
		if err != nil {
			return err
		}
		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Engine.ApplyScenario(id, custom)
		if err != nil {
			return err
		}

		if simulateJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Scenario %d: %s\n", res.ScenarioID, res.ScenarioName)
		if len(res.IgnoredParameters) > 0 {
			fmt.Fprintf(out, "Ignored parameters: %v\n", res.IgnoredParameters)
		}

		table := tablewriter.NewWriter(out)
		table.Header("Region", "Effect %", "Baseline avg", "Simulated avg", "Change %", "Max", "Min")
		for _, r := range model.CanonicalRegions {
			m, ok := res.Metrics[r]
			if !ok {
				continue
			}
			table.Append(
				string(r),
				fmt.Sprintf("%.2f", res.PriceEffects[r]),
				fmt.Sprintf("%.4f", m.BaselineAvg),
				fmt.Sprintf("%.4f", m.SimulatedAvg),
				fmt.Sprintf("%.2f", m.ChangePercent),
				fmt.Sprintf("%.4f", m.MaxPrice),
				fmt.Sprintf("%.4f", m.MinPrice),
			)
		}
		table.Render()
		fmt.Fprintf(out, "Forecast: %s, %d months, %s interval\n",
			res.Forecast.Model, len(res.Forecast.Dates), res.Forecast.ConfidenceInterval)

		if simulateOut != "" {
			if err := simulate.WriteSeriesCSV(simulateOut, a.Engine.Baseline(), res.SimulatedPrices); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %d rows to %s\n", len(res.Dates), simulateOut)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringArrayVar(&simulateParams, "param", nil, "Parameter override key=value (repeatable)")
	simulateCmd.Flags().StringVar(&simulateOut, "out", "", "Write baseline and simulated series to this CSV")
	simulateCmd.Flags().BoolVar(&simulateJSON, "json", false, "Print the full result as JSON")
}

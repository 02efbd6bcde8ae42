package main

import (
	"fmt"

	"ech-simulator/internal/model"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	sensitivityParam  string
	sensitivityValues []string
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity <id>",
	Short: "Sweep one parameter and report the effect per value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		values := make([]any, len(sensitivityValues))
		for i, v := range sensitivityValues {
			values[i] = parseValue(v)
		}
		a, err := newApp()
		if err != nil {
			return err
		}

		sens, err := a.Engine.SensitivityAnalysis(id, sensitivityParam, values)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Scenario %d: %s, sweeping %s\n", sens.ScenarioID, sens.ScenarioName, sens.Parameter)
		header := []any{"Value"}
		for _, r := range model.CanonicalRegions {
			header = append(header, string(r)+" effect %", string(r)+" change %")
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header(header...)
		for _, p := range sens.Results {
			row := []any{fmt.Sprint(p.Value)}
			for _, r := range model.CanonicalRegions {
				change := "-"
				if m, ok := p.Metrics[r]; ok {
					change = fmt.Sprintf("%.2f", m.ChangePercent)
				}
				row = append(row, fmt.Sprintf("%.2f", p.PriceEffects[r]), change)
			}
			table.Append(row...)
		}
		table.Render()
		return nil
	},
}

func init() {
	sensitivityCmd.Flags().StringVar(&sensitivityParam, "param", "", "Parameter to sweep")
	sensitivityCmd.Flags().StringSliceVar(&sensitivityValues, "values", nil, "Comma-separated values to try")
	_ = sensitivityCmd.MarkFlagRequired("param")
	_ = sensitivityCmd.MarkFlagRequired("values")
}

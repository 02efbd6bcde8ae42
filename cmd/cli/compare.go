package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id>...",
	Short: "Run up to five scenarios and rank them by impact",
	Args:  cobra.RangeArgs(1, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		a, err := newApp()
		if err != nil {
			return err
		}

		cmp, err := a.Engine.CompareScenarios(ids)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Rank", "ID", "Scenario", "Mean abs change %", "Max region", "Max change %")
		for _, r := range cmp.Ranking {
			table.Append(
				fmt.Sprintf("%d", r.Rank),
				fmt.Sprintf("%d", r.ScenarioID),
				r.ScenarioName,
				fmt.Sprintf("%.2f", r.MeanAbsolute),
				r.MaxRegion,
				fmt.Sprintf("%.2f", r.MaxChange),
			)
		}
		table.Render()
		return nil
	},
}

package main

import (
	"fmt"
	"strings"

	"ech-simulator/internal/catalog"
	"ech-simulator/internal/config"
	"ech-simulator/internal/model"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var scenarioCategory string

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List catalog scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		var cat *catalog.Catalog
		if cfg.Data.CatalogFile != "" {
			cat, err = catalog.LoadFile(cfg.Data.CatalogFile)
		} else {
			cat, err = catalog.Default()
		}
		if err != nil {
			return err
		}

		var list []model.Scenario
		if scenarioCategory != "" {
			list = cat.ByCategory(scenarioCategory)
		} else {
			list = cat.All()
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("ID", "Category", "Name", "Logic", "Regions")
		for _, s := range list {
			table.Append(
				fmt.Sprintf("%d", s.ID),
				s.Category,
				s.Name,
				s.LogicKind().String(),
				strings.Join(s.AffectedRegions, ","),
			)
		}
		table.Render()
		return nil
	},
}

func init() {
	scenariosCmd.Flags().StringVar(&scenarioCategory, "category", "", "Only list this category")
}

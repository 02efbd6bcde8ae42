package main

import (
	"flag"
	"fmt"
	"os"

	"ech-simulator/internal/catalog"
	"ech-simulator/internal/data"
	"ech-simulator/internal/engine"
	"ech-simulator/internal/logging"
	"ech-simulator/internal/model"
	"ech-simulator/internal/simulate"
)

// Demo:
// - Generate a synthetic baseline in memory
// - Apply one catalog scenario with the default forecast config
// - Print effects, metrics and the first forecast months
func main() {
	id := flag.Int("scenario", 6, "Scenario id to run")
	periods := flag.Int("periods", data.DefaultPeriods, "Number of monthly periods to generate")
	outCSV := flag.String("out", "", "Optional path to write baseline and simulated series as CSV")
	flag.Parse()

	logger := logging.New("warn", "text", os.Stderr)

	cat, err := catalog.Default()
	if err != nil {
		panic(err)
	}
	g := data.DefaultGenerator()
	g.Periods = *periods
	b, err := g.Generate()
	if err != nil {
		panic(err)
	}

	eng, err := engine.New(cat, b, engine.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	res, err := eng.ApplyScenario(*id, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scenario %d: %s (%s)\n", res.ScenarioID, res.ScenarioName, res.ScenarioCategory)
	fmt.Printf("%s\n\n", res.ScenarioDescription)
	fmt.Printf("%-10s %8s %10s %10s %8s\n", "region", "effect%", "base avg", "sim avg", "change%")
	for _, r := range model.CanonicalRegions {
		m, ok := res.Metrics[r]
		if !ok {
			continue
		}
		fmt.Printf("%-10s %8.2f %10.4f %10.4f %8.2f\n", r, res.PriceEffects[r], m.BaselineAvg, m.SimulatedAvg, m.ChangePercent)
	}

	fc := res.Forecast
	fmt.Printf("\nForecast (%s, %s interval)\n", fc.Model, fc.ConfidenceInterval)
	show := min(3, len(fc.Dates))
	for _, r := range model.CanonicalRegions {
		rf, ok := fc.Regions[r]
		if !ok {
			continue
		}
		for i := 0; i < show; i++ {
			fmt.Printf("  %-10s %s point=%.4f [%.4f, %.4f]\n", r, fc.Dates[i], rf.Point[i], rf.Lower[i], rf.Upper[i])
		}
	}

	if *outCSV != "" {
		if err := simulate.WriteSeriesCSV(*outCSV, b, res.SimulatedPrices); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", b.Len(), *outCSV)
	}
}

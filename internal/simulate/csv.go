package simulate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ech-simulator/internal/model"
)

// WriteSeriesCSV writes one row per period: date, then baseline and
// simulated price for each canonical region that was simulated.
func WriteSeriesCSV(path string, b *model.Baseline, simulated map[model.Region][]float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeSeries(f, b, simulated)
}

func writeSeries(out io.Writer, b *model.Baseline, simulated map[model.Region][]float64) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	regions := make([]model.Region, 0, len(simulated))
	for _, r := range model.CanonicalRegions {
		if _, ok := simulated[r]; ok {
			regions = append(regions, r)
		}
	}

	header := []string{"date"}
	for _, r := range regions {
		header = append(header, "baseline_"+string(r), "simulated_"+string(r))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, date := range b.Dates {
		row := []string{date}
		for _, r := range regions {
			base, _ := b.Series(r)
			sim := simulated[r]
			if i >= len(base) || i >= len(sim) {
				return fmt.Errorf("region %s shorter than dates", r)
			}
			row = append(row, fmtFloat(base[i]), fmtFloat(sim[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// Command echsim runs ECH price scenarios from the terminal.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"ech-simulator/internal/app"
	"ech-simulator/internal/config"
	"ech-simulator/internal/logging"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	baselinePath string
)

var rootCmd = &cobra.Command{
	Use:           "echsim",
	Short:         "ECH scenario simulation and forecasting",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML or TOML config")
	rootCmd.PersistentFlags().StringVar(&baselinePath, "baseline", "", "Baseline JSON path (overrides config)")

	rootCmd.AddCommand(scenariosCmd, simulateCmd, compareCmd, sensitivityCmd, generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if baselinePath != "" {
		cfg.Data.BaselinePath = baselinePath
	}
	return cfg, nil
}

func newApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	// CLI output goes to stdout; keep logs on stderr and quiet by default.
	level := cfg.Log.Level
	if level == "info" {
		level = "warn"
	}
	return app.New(cfg, logging.New(level, cfg.Log.Format, os.Stderr), nil)
}

// parseValue turns a flag value into the JSON kind it most looks like.
func parseValue(s string) any {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// parseParams parses repeated key=value flags.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, want key=value", p)
		}
		out[k] = parseValue(v)
	}
	return out, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("scenario id %q is not an integer", s)
	}
	return id, nil
}

package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ech-simulator/internal/model"
)

// LoadBaseline reads and validates a baseline JSON file.
func LoadBaseline(path string) (*model.Baseline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b model.Baseline
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid baseline %s: %w", path, err)
	}
	return &b, nil
}

// SaveBaseline writes b as indented JSON, creating parent directories.
// The file is written to a temporary sibling and renamed into place.
func SaveBaseline(b *model.Baseline, path string) error {
	tmp, err := stageBaseline(b, path)
	if err != nil {
		return err
	}
	return commitBaseline(tmp, path)
}

// stageBaseline writes b next to path and returns the temporary file name.
func stageBaseline(b *model.Baseline, path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal baseline: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write baseline file: %w", err)
	}
	return tmp, nil
}

func commitBaseline(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace baseline file: %w", err)
	}
	return nil
}

// DefaultBaselinePath returns the baseline location used when the config
// does not name one.
func DefaultBaselinePath() string {
	if path := os.Getenv("BASELINE_PATH"); path != "" {
		return path
	}
	return "./data/synthetic_data.json"
}

// LoadOrGenerate loads path, or generates a default baseline and saves it
// there when the file does not exist yet.
func LoadOrGenerate(path string, g *Generator) (*model.Baseline, bool, error) {
	b, err := LoadBaseline(path)
	if err == nil {
		return b, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}

	b, err = g.Generate()
	if err != nil {
		return nil, false, err
	}
	if err := SaveBaseline(b, path); err != nil {
		return nil, false, err
	}
	return b, true, nil
}

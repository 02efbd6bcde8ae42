package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ech-simulator/internal/forecast"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML or TOML, by extension).
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Data     DataConfig     `yaml:"data" toml:"data"`
	Forecast ForecastConfig `yaml:"forecast" toml:"forecast"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" toml:"port" validate:"min=1,max=65535"`
	Env            string   `yaml:"env" toml:"env" validate:"oneof=development production test"`
	StaticDir      string   `yaml:"static_dir" toml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
	// Requests per second per client IP; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit" validate:"gte=0"`
	RateBurst int     `yaml:"rate_burst" toml:"rate_burst" validate:"gte=0"`
}

// DataConfig locates the baseline and catalog and controls regeneration.
type DataConfig struct {
	BaselinePath string `yaml:"baseline_path" toml:"baseline_path" validate:"required"`
	// Optional alternative scenario catalog; empty uses the embedded one.
	CatalogFile string `yaml:"catalog_file" toml:"catalog_file"`
	// Cron spec for regenerating the baseline; empty disables it.
	RegenerateSchedule string `yaml:"regenerate_schedule" toml:"regenerate_schedule"`
	StartDate          string `yaml:"start_date" toml:"start_date" validate:"datetime=2006-01-02"`
	Periods            int    `yaml:"periods" toml:"periods" validate:"min=24,max=240"`
}

// ForecastConfig mirrors forecast.Config plus the primary model switch.
type ForecastConfig struct {
	// Primary=false runs every forecast through the heuristic model.
	Primary               bool    `yaml:"primary" toml:"primary"`
	YearlySeasonality     bool    `yaml:"yearly_seasonality" toml:"yearly_seasonality"`
	SeasonalityMode       string  `yaml:"seasonality_mode" toml:"seasonality_mode" validate:"oneof=multiplicative additive"`
	ChangepointPriorScale float64 `yaml:"changepoint_prior_scale" toml:"changepoint_prior_scale" validate:"gt=0"`
	SeasonalityPriorScale float64 `yaml:"seasonality_prior_scale" toml:"seasonality_prior_scale" validate:"gt=0"`
	IntervalWidth         float64 `yaml:"interval_width" toml:"interval_width" validate:"gt=0,lt=1"`
	HorizonMonths         int     `yaml:"horizon_months" toml:"horizon_months" validate:"min=1,max=120"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	fc := forecast.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Env:            "development",
			StaticDir:      "./frontend/dist",
			AllowedOrigins: []string{"*"},
			RateLimit:      20,
			RateBurst:      40,
		},
		Data: DataConfig{
			BaselinePath: "./data/synthetic_data.json",
			StartDate:    "2020-01-01",
			Periods:      60,
		},
		Forecast: ForecastConfig{
			Primary:               true,
			YearlySeasonality:     fc.YearlySeasonality,
			SeasonalityMode:       fc.SeasonalityMode,
			ChangepointPriorScale: fc.ChangepointPriorScale,
			SeasonalityPriorScale: fc.SeasonalityPriorScale,
			IntervalWidth:         fc.IntervalWidth,
			HorizonMonths:         fc.HorizonMonths,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads .env (if present), the config file at path (if non-empty) over
// the defaults, then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c := Default()
	if path != "" {
		if err := decodeFile(path, c); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}
	if err := applyEnvOverrides(c); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return c, nil
}

func decodeFile(path string, c *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("parse TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, c); err != nil {
			return fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
	return nil
}

func applyEnvOverrides(c *Config) error {
	if v := os.Getenv("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("API_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("BASELINE_PATH"); v != "" {
		c.Data.BaselinePath = v
	}
	if v := os.Getenv("CATALOG_FILE"); v != "" {
		c.Data.CatalogFile = v
	}
	if v := os.Getenv("REGENERATE_SCHEDULE"); v != "" {
		c.Data.RegenerateSchedule = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks c against its validate tags.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			msgs := make([]string, 0, len(fields))
			for _, f := range fields {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", f.Namespace(), f.Tag(), f.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ToEngine converts the forecast section for the engine.
func (f ForecastConfig) ToEngine() forecast.Config {
	return forecast.Config{
		YearlySeasonality:     f.YearlySeasonality,
		SeasonalityMode:       f.SeasonalityMode,
		ChangepointPriorScale: f.ChangepointPriorScale,
		SeasonalityPriorScale: f.SeasonalityPriorScale,
		IntervalWidth:         f.IntervalWidth,
		HorizonMonths:         f.HorizonMonths,
	}
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string { return ":" + strconv.Itoa(s.Port) }

func (s ServerConfig) Production() bool { return s.Env == "production" }

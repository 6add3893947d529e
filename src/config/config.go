// Package config holds runtime settings and the expected weather table schema.
//
// Settings come from WEATHER_* environment variables first; an optional YAML file
// (WEATHER_SCHEMA_FILE or --schema) then overrides the schema. Binaries apply their
// own flags last.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "WEATHER"

// Config represents the settings shared by all binaries.
type Config struct {
	File       string `envconfig:"FILE" default:"weather_2012.csv"`
	OutDir     string `envconfig:"OUT_DIR" default:"figures"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	SchemaFile string `envconfig:"SCHEMA_FILE"`
	// Arguments of the grouped aggregation step.
	GroupBy   string `envconfig:"GROUP_BY" default:"Weather"`
	Aggregate string `envconfig:"AGGREGATE" default:"mean"`
	Value     string `envconfig:"VALUE" default:"Visibility (km)"`

	Schema Schema `ignored:"true"`
}

// Schema names the columns the analysis relies on.
type Schema struct {
	IndexColumn       string   `yaml:"index_column"`
	TrendColumn       string   `yaml:"trend_column"`
	CategoricalColumn string   `yaml:"categorical_column"`
	PanelColumns      []string `yaml:"panel_columns"`
	TimeLayouts       []string `yaml:"time_layouts"`
}

// DefaultTimeLayouts covers the export formats seen for hourly station data.
var DefaultTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006",
}

// DefaultSchema returns the schema of the 2012 hourly weather export.
func DefaultSchema() Schema {
	return Schema{
		IndexColumn:       "Date/Time",
		TrendColumn:       "Temp (C)",
		CategoricalColumn: "Weather",
		PanelColumns: []string{
			"Temp (C)",
			"Dew Point Temp (C)",
			"Rel Hum (%)",
			"Wind Spd (km/h)",
			"Visibility (km)",
			"Stn Press (kPa)",
		},
		TimeLayouts: append([]string(nil), DefaultTimeLayouts...),
	}
}

// Load reads the environment and the optional schema file.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	cfg.Schema = DefaultSchema()
	if cfg.SchemaFile != "" {
		s, err := LoadSchema(cfg.SchemaFile)
		if err != nil {
			return nil, err
		}
		cfg.Schema = s
	}
	return &cfg, nil
}

// LoadSchema reads a YAML schema file. Keys left out keep their default value.
func LoadSchema(path string) (Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(b)
}

// ParseSchema decodes YAML on top of DefaultSchema and validates the result.
func ParseSchema(b []byte) (Schema, error) {
	s := DefaultSchema()
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Schema{}, fmt.Errorf("parse schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Validate checks that the schema can drive every plot.
func (s Schema) Validate() error {
	var problems []string
	if strings.TrimSpace(s.IndexColumn) == "" {
		problems = append(problems, "index_column is empty")
	}
	if strings.TrimSpace(s.TrendColumn) == "" {
		problems = append(problems, "trend_column is empty")
	}
	if strings.TrimSpace(s.CategoricalColumn) == "" {
		problems = append(problems, "categorical_column is empty")
	}
	// The distribution grid is 3x2.
	if len(s.PanelColumns) != 6 {
		problems = append(problems, fmt.Sprintf("panel_columns must list 6 columns, got %d", len(s.PanelColumns)))
	}
	if len(s.TimeLayouts) == 0 {
		problems = append(problems, "time_layouts is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(problems, "; "))
	}
	return nil
}

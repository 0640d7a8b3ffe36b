package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/settled-dev/settled/internal/fx"
)

// Config represents the top-level settled.yaml configuration.
type Config struct {
	TargetCurrency string       `yaml:"target_currency"`
	Rates          []Rate       `yaml:"rates,omitempty"`
	DeriveRates    bool         `yaml:"derive_rates"`
	Output         OutputConfig `yaml:"output"`
}

// Rate is an explicit exchange-rate entry. The rate is kept as a string
// so it round-trips through YAML without float drift.
type Rate struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Rate string `yaml:"rate"`
}

// OutputConfig controls where result tables are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads a settled.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults: convert to USD and
// derive rates from the statement itself.
func Default() *Config {
	return &Config{
		TargetCurrency: "USD",
		DeriveRates:    true,
		Output: OutputConfig{
			Dir: "output",
		},
	}
}

// RateTable builds an fx table from the explicit rate entries.
func (c *Config) RateTable() (*fx.Table, error) {
	table := fx.NewTable()
	for _, r := range c.Rates {
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("rate %s -> %s: parsing %q: %w", r.From, r.To, r.Rate, err)
		}
		table.Set(r.From, r.To, rate)
	}
	return table, nil
}

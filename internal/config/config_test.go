package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := &Config{
		TargetCurrency: "USD",
		Rates: []Rate{
			{From: "EUR", To: "USD", Rate: "1.08"},
		},
		DeriveRates: true,
		Output:      OutputConfig{Dir: "out"},
	}

	path := filepath.Join(t.TempDir(), "settled.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settled.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_currency: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "USD", cfg.TargetCurrency)
	assert.True(t, cfg.DeriveRates)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestRateTable(t *testing.T) {
	cfg := &Config{
		Rates: []Rate{
			{From: "EUR", To: "USD", Rate: "1.08"},
			{From: "JPY", To: "USD", Rate: "0.0066"},
		},
	}

	table, err := cfg.RateTable()
	require.NoError(t, err)

	r, ok := table.Rate("EUR", "USD")
	require.True(t, ok)
	assert.True(t, r.Equal(decimal.RequireFromString("1.08")))
}

func TestRateTable_BadRate(t *testing.T) {
	cfg := &Config{Rates: []Rate{{From: "EUR", To: "USD", Rate: "oops"}}}
	_, err := cfg.RateTable()
	assert.Error(t, err)
}

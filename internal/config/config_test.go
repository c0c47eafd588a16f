package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Default Configuration Tests
// ============================================================================

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "item", cfg.StopField)
	assert.Equal(t, "pcs", cfg.Distribution.BasisField)
	assert.ElementsMatch(t, []string{"net", "gross", "cbm"}, cfg.Distribution.Fields)
	assert.Equal(t, int32(4), cfg.Precision.CBM)
	assert.Equal(t, 2, cfg.Compounding.ChunkSize)
	assert.Equal(t, 5, cfg.Compounding.POGroupSize)
	assert.Equal(t, "BUFFALO", cfg.Compounding.CategoryMarker)
}

func TestDefaultFieldLookup(t *testing.T) {
	cfg := Default()

	po := cfg.Field("po")
	require.NotNil(t, po)
	assert.True(t, po.AllowsString())
	assert.True(t, po.AllowsNumeric())

	net := cfg.Field("net")
	require.NotNil(t, net)
	assert.False(t, net.AllowsString())

	assert.Nil(t, cfg.Field("no_such_field"))
}

func TestDefaultPalletCountStrictValue(t *testing.T) {
	pallet := Default().Field("pallet_count")
	require.NotNil(t, pallet)
	assert.Equal(t, []string{"1"}, pallet.Values)
}

// ============================================================================
// Loading Tests
// ============================================================================

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().StopField, cfg.StopField)
	assert.Len(t, cfg.Fields, len(Default().Fields))
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
sheet_name: "Packing List"
max_table_rows: 50
compounding:
  po_group_size: 3
custom_aggregation_prefixes:
  - "JF"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Packing List", cfg.SheetName)
	assert.Equal(t, 50, cfg.MaxTableRows)
	assert.Equal(t, 3, cfg.Compounding.POGroupSize)
	// Unset compounding options fall back to defaults.
	assert.Equal(t, 2, cfg.Compounding.ChunkSize)
	assert.Equal(t, "BUFFALO", cfg.Compounding.CategoryMarker)
	// Field specs come from defaults when not overridden.
	assert.NotNil(t, cfg.Field("cbm"))
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

// ============================================================================
// Validation Tests
// ============================================================================

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "degenerate search window",
			mutate: func(c *Config) { c.HeaderSearch.RowEnd = 0 },
		},
		{
			name:   "unknown stop field",
			mutate: func(c *Config) { c.StopField = "nope" },
		},
		{
			name:   "unknown basis field",
			mutate: func(c *Config) { c.Distribution.BasisField = "nope" },
		},
		{
			name:   "unknown distribution field",
			mutate: func(c *Config) { c.Distribution.Fields = []string{"nope"} },
		},
		{
			name:   "invalid identification pattern",
			mutate: func(c *Config) { c.HeaderIdentificationPattern = "^(" },
		},
		{
			name:   "non-positive max rows",
			mutate: func(c *Config) { c.MaxTableRows = -1 },
		},
		{
			name:   "zero chunk size",
			mutate: func(c *Config) { c.Compounding.ChunkSize = 0 },
		},
		{
			name: "duplicate field",
			mutate: func(c *Config) {
				c.Fields = append(c.Fields, FieldSpec{Name: "po", Types: []string{"string"}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

// ============================================================================
// Aggregation Strategy Selection Tests
// ============================================================================

func TestUseCustomAggregation(t *testing.T) {
	cfg := Default()
	cfg.CustomAggregationPrefixes = []string{"JF", "MOTO"}

	assert.True(t, cfg.UseCustomAggregation("JF_Report_Q1.xlsx"))
	assert.True(t, cfg.UseCustomAggregation("MOTO-2026.csv"))
	assert.False(t, cfg.UseCustomAggregation("HIGH_QUALITY.xlsx"))
	// Matching is case-sensitive.
	assert.False(t, cfg.UseCustomAggregation("jf_report.xlsx"))

	assert.False(t, Default().UseCustomAggregation("JF_Report_Q1.xlsx"))
}

// =============================================================================
// Invoice Extractor - Configuration Module
// =============================================================================
//
// This module loads and manages the pipeline configuration: the canonical
// field specifications (header aliases, expected-value rules), the header
// search window, extraction limits, distribution settings, decimal
// precisions, and the compounding constants.
//
// CONFIGURATION FILES:
//   A single YAML file configures a run. Every setting has a default that
//   reproduces the behavior the pipeline shipped with, so a missing config
//   file is not an error: the defaults describe the common trade-invoice
//   layouts (English and Chinese header variants included).
//
// ARCHITECTURE:
//   - Raw settings only; regex compilation happens in the fieldrules package
//   - Defaults applied after unmarshal, then validated
//   - Field specifications are an ordered list: earlier fields win ties
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// FIELD SPECIFICATION
// =============================================================================

// FieldSpec describes one canonical invoice field: how its header may be
// spelled, and how the data value below a candidate header is expected to
// look. The expected-value rules are evaluated in fixed priority: strict
// allowed values, then regex patterns, then allowed type classes.
type FieldSpec struct {
	// Name is the canonical field identifier (e.g. "po", "net", "cbm").
	Name string `yaml:"name"`

	// Aliases are accepted header spellings, matched case-insensitively.
	Aliases []string `yaml:"aliases"`

	// Values is an optional strict allowed-value list for the data cell
	// below the header. Matching a listed value scores highest.
	Values []string `yaml:"values,omitempty"`

	// Patterns are optional regexes matched against the data cell's text.
	Patterns []string `yaml:"patterns,omitempty"`

	// Types are the allowed type classes for the data cell: "numeric"
	// and/or "string".
	Types []string `yaml:"types,omitempty"`
}

// AllowsString reports whether the field admits string data at all. Fields
// that do receive a minimal mercy score even when the data cell is blank.
func (f *FieldSpec) AllowsString() bool {
	for _, t := range f.Types {
		if t == "string" {
			return true
		}
	}
	return false
}

// AllowsNumeric reports whether the field admits numeric data.
func (f *FieldSpec) AllowsNumeric() bool {
	for _, t := range f.Types {
		if t == "numeric" {
			return true
		}
	}
	return false
}

// =============================================================================
// SEARCH WINDOW
// =============================================================================

// SearchWindow bounds the header search. Rows and columns are 1-based and
// inclusive.
type SearchWindow struct {
	RowStart int `yaml:"row_start"`
	RowEnd   int `yaml:"row_end"`
	ColStart int `yaml:"col_start"`
	ColEnd   int `yaml:"col_end"`
}

// =============================================================================
// SECTION STRUCTURES
// =============================================================================

// DistributionSettings selects the basis field and the fields whose values
// are spread proportionally across sibling rows.
type DistributionSettings struct {
	// BasisField is the canonical field whose relative values determine
	// each row's share (piece count in the shipped layouts).
	BasisField string `yaml:"basis_field"`

	// Fields are the canonical fields to distribute.
	Fields []string `yaml:"fields"`
}

// PrecisionSettings fixes the fractional digits of computed decimals.
type PrecisionSettings struct {
	// CBM is the precision of parsed and distributed volume values.
	CBM int32 `yaml:"cbm"`

	// Default is the precision of every other distributed field.
	Default int32 `yaml:"default"`
}

// CompoundingSettings are the FOB compounder's configuration-time constants.
// Chunk size and PO group size are deliberately separate knobs: one governs
// text formatting, the other how many purchase orders share a totals group.
type CompoundingSettings struct {
	// ChunkSize is how many identifiers join inside one text chunk.
	ChunkSize int `yaml:"chunk_size"`

	// IntraSeparator joins identifiers within a chunk.
	IntraSeparator string `yaml:"intra_separator"`

	// InterSeparator joins chunks.
	InterSeparator string `yaml:"inter_separator"`

	// POGroupSize is how many distinct POs form one group on the
	// PO-count-split path.
	POGroupSize int `yaml:"po_group_size"`

	// CategoryMarker is the reserved description substring that routes an
	// entry into group "1" on the description-split path. Case-insensitive.
	CategoryMarker string `yaml:"category_marker"`
}

// CSVSettings configures the CSV grid loader for comma/pipe/tab exports.
type CSVSettings struct {
	// Delimiter separates fields in CSV input. Default ",".
	Delimiter string `yaml:"delimiter"`
}

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds every run-time setting of the extraction pipeline. It is
// read-only for the duration of a run.
type Config struct {
	// SheetName selects the worksheet to process; empty means the first
	// sheet in the workbook.
	SheetName string `yaml:"sheet_name,omitempty"`

	// HeaderSearch bounds the best-fit header scan.
	HeaderSearch SearchWindow `yaml:"header_search"`

	// HeaderIdentificationPattern is the looser regex used to locate
	// additional header rows below the primary one (repeated tables).
	HeaderIdentificationPattern string `yaml:"header_identification_pattern"`

	// Fields are the canonical field specifications in priority order.
	Fields []FieldSpec `yaml:"fields"`

	// HeaderlessPatterns maps a canonical field to regexes matched against
	// the data cell when the header cell above it is blank.
	HeaderlessPatterns map[string][]string `yaml:"headerless_patterns,omitempty"`

	// StopField is the canonical field whose emptiness ends a data table.
	StopField string `yaml:"stop_field"`

	// MaxTableRows bounds how many data rows one table may contain.
	MaxTableRows int `yaml:"max_table_rows"`

	// Distribution configures proportional value spreading.
	Distribution DistributionSettings `yaml:"distribution"`

	// Precision fixes the fractional digits of computed decimals.
	Precision PrecisionSettings `yaml:"precision"`

	// Compounding holds the FOB compounder constants.
	Compounding CompoundingSettings `yaml:"compounding"`

	// CustomAggregationPrefixes lists workbook filename prefixes
	// (case-sensitive) whose runs feed the custom aggregation map into
	// compounding instead of the standard one.
	CustomAggregationPrefixes []string `yaml:"custom_aggregation_prefixes,omitempty"`

	// CSV configures the CSV grid loader.
	CSV CSVSettings `yaml:"csv"`
}

// Field returns the specification for a canonical field name, or nil.
func (c *Config) Field(name string) *FieldSpec {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// UseCustomAggregation reports whether the named workbook should feed the
// custom aggregation map into FOB compounding.
func (c *Config) UseCustomAggregation(workbookName string) bool {
	for _, prefix := range c.CustomAggregationPrefixes {
		if prefix != "" && strings.HasPrefix(workbookName, prefix) {
			return true
		}
	}
	return false
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a YAML configuration file, fills defaults, and validates it.
// A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills any unset option. A config file only needs to state
// what it changes.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.HeaderSearch == (SearchWindow{}) {
		cfg.HeaderSearch = def.HeaderSearch
	}
	if cfg.HeaderIdentificationPattern == "" {
		cfg.HeaderIdentificationPattern = def.HeaderIdentificationPattern
	}
	if len(cfg.Fields) == 0 {
		cfg.Fields = def.Fields
	}
	if cfg.HeaderlessPatterns == nil {
		cfg.HeaderlessPatterns = def.HeaderlessPatterns
	}
	if cfg.StopField == "" {
		cfg.StopField = def.StopField
	}
	if cfg.MaxTableRows == 0 {
		cfg.MaxTableRows = def.MaxTableRows
	}
	if cfg.Distribution.BasisField == "" {
		cfg.Distribution.BasisField = def.Distribution.BasisField
	}
	if len(cfg.Distribution.Fields) == 0 {
		cfg.Distribution.Fields = def.Distribution.Fields
	}
	if cfg.Precision.CBM == 0 {
		cfg.Precision.CBM = def.Precision.CBM
	}
	if cfg.Precision.Default == 0 {
		cfg.Precision.Default = def.Precision.Default
	}
	if cfg.Compounding.ChunkSize == 0 {
		cfg.Compounding.ChunkSize = def.Compounding.ChunkSize
	}
	if cfg.Compounding.IntraSeparator == "" {
		cfg.Compounding.IntraSeparator = def.Compounding.IntraSeparator
	}
	if cfg.Compounding.InterSeparator == "" {
		cfg.Compounding.InterSeparator = def.Compounding.InterSeparator
	}
	if cfg.Compounding.POGroupSize == 0 {
		cfg.Compounding.POGroupSize = def.Compounding.POGroupSize
	}
	if cfg.Compounding.CategoryMarker == "" {
		cfg.Compounding.CategoryMarker = def.Compounding.CategoryMarker
	}
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = def.CSV.Delimiter
	}
}

// Validate checks structural consistency: a usable window, a known stop
// field and basis field, and a compilable identification pattern. Per-field
// regex patterns are compiled later by the rule engine, which logs and
// skips invalid ones instead of failing the run.
func Validate(cfg *Config) error {
	w := cfg.HeaderSearch
	if w.RowStart < 1 || w.ColStart < 1 || w.RowEnd < w.RowStart || w.ColEnd < w.ColStart {
		return fmt.Errorf("header search window is degenerate: rows %d-%d cols %d-%d",
			w.RowStart, w.RowEnd, w.ColStart, w.ColEnd)
	}
	if _, err := regexp.Compile(cfg.HeaderIdentificationPattern); err != nil {
		return fmt.Errorf("header identification pattern: %w", err)
	}
	if cfg.Field(cfg.StopField) == nil {
		return fmt.Errorf("stop field %q is not a configured field", cfg.StopField)
	}
	if cfg.Field(cfg.Distribution.BasisField) == nil {
		return fmt.Errorf("distribution basis field %q is not a configured field", cfg.Distribution.BasisField)
	}
	for _, f := range cfg.Distribution.Fields {
		if cfg.Field(f) == nil {
			return fmt.Errorf("distribution field %q is not a configured field", f)
		}
	}
	if cfg.MaxTableRows < 1 {
		return fmt.Errorf("max_table_rows must be positive, got %d", cfg.MaxTableRows)
	}
	if cfg.Compounding.ChunkSize < 1 || cfg.Compounding.POGroupSize < 1 {
		return fmt.Errorf("compounding chunk_size and po_group_size must be positive")
	}
	seen := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if f.Name == "" {
			return fmt.Errorf("field specification with empty name")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field specification %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

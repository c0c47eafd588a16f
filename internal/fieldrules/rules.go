// =============================================================================
// Invoice Extractor - Field Rule Engine
// =============================================================================
//
// This module decides how well a data cell fits a canonical field. Header
// detection does not trust header wording alone: the cell BELOW a candidate
// header is scored against the field's expected shape, and the score drives
// column mapping.
//
// RULE PRIORITY (first match wins, higher is stronger evidence):
//   - Strict allowed value   -> 25   (e.g. pallet_count must be exactly 1)
//   - Regex pattern          -> 15   (e.g. production orders: ^(25|26|27)\d{5}-\d{2}$)
//   - Allowed type class     ->  5   (numeric cell under a numeric field)
//   - Mercy                  ->  1   (field admits strings at all; keeps a
//                                     blank-data column as weak evidence)
//
// A blank header cell whose data matches a headerless pattern scores 4 for
// the inferred field (the L*W*H volume column is the shipped case).
//
// Invalid regexes in the configuration are logged and skipped; a typo in one
// pattern must not take down the run.
//
// =============================================================================

package fieldrules

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================

const (
	// ScoreStrictValue is awarded when the data cell equals one of the
	// field's strict allowed values.
	ScoreStrictValue = 25

	// ScorePattern is awarded when the data cell's text matches one of the
	// field's regex patterns.
	ScorePattern = 15

	// ScoreTypeMatch is awarded when the data cell's type class is among
	// the field's allowed types.
	ScoreTypeMatch = 5

	// ScoreMercy is awarded when nothing else matched but the field admits
	// string data at all.
	ScoreMercy = 1

	// ScoreHeaderless is awarded when a blank header cell has data
	// matching a headerless-column pattern.
	ScoreHeaderless = 4
)

// =============================================================================
// ENGINE
// =============================================================================

// compiledField holds one field's rules with patterns pre-compiled.
type compiledField struct {
	spec     *config.FieldSpec
	values   []decimal.Decimal // numeric strict values
	textVals []string          // non-numeric strict values
	patterns []*regexp.Regexp
}

// headerlessRule is one headerless-column inference rule.
type headerlessRule struct {
	field    string
	patterns []*regexp.Regexp
}

// Engine evaluates data cells against the configured field rules.
// It is immutable after construction and safe for reuse across sheets.
type Engine struct {
	fields     map[string]*compiledField
	order      []string            // field names in priority order
	aliases    map[string][]string // normalized header text -> candidate fields
	headerless []headerlessRule
}

// NewEngine compiles the configuration's field rules. Patterns that fail to
// compile are logged at warn and dropped.
func NewEngine(cfg *config.Config, log zerolog.Logger) *Engine {
	e := &Engine{
		fields:  make(map[string]*compiledField, len(cfg.Fields)),
		aliases: make(map[string][]string),
	}

	for i := range cfg.Fields {
		spec := &cfg.Fields[i]
		cf := &compiledField{spec: spec}

		for _, v := range spec.Values {
			if d, err := decimal.NewFromString(v); err == nil {
				cf.values = append(cf.values, d)
			} else {
				cf.textVals = append(cf.textVals, strings.TrimSpace(v))
			}
		}

		for _, p := range spec.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				log.Warn().
					Str("field", spec.Name).
					Str("pattern", p).
					Err(err).
					Msg("Skipping invalid field pattern")
				continue
			}
			cf.patterns = append(cf.patterns, re)
		}

		e.fields[spec.Name] = cf
		e.order = append(e.order, spec.Name)

		for _, alias := range spec.Aliases {
			key := normalizeHeader(alias)
			if key == "" {
				continue
			}
			if !containsString(e.aliases[key], spec.Name) {
				e.aliases[key] = append(e.aliases[key], spec.Name)
			}
		}
	}

	// Headerless rules follow field priority order.
	for _, name := range e.order {
		pats, ok := cfg.HeaderlessPatterns[name]
		if !ok {
			continue
		}
		rule := headerlessRule{field: name}
		for _, p := range pats {
			re, err := regexp.Compile(p)
			if err != nil {
				log.Warn().
					Str("field", name).
					Str("pattern", p).
					Err(err).
					Msg("Skipping invalid headerless pattern")
				continue
			}
			rule.patterns = append(rule.patterns, re)
		}
		if len(rule.patterns) > 0 {
			e.headerless = append(e.headerless, rule)
		}
	}

	return e
}

// FieldOrder returns the canonical field names in priority order.
func (e *Engine) FieldOrder() []string {
	return e.order
}

// CandidateFields returns the canonical fields whose aliases match the given
// header text, in field priority order. Matching is case-insensitive on the
// trimmed text.
func (e *Engine) CandidateFields(headerText string) []string {
	return e.aliases[normalizeHeader(headerText)]
}

// =============================================================================
// SCORING
// =============================================================================

// Score rates how well a data cell fits the named field. Zero means the
// field is unknown or the cell contradicts every rule.
func (e *Engine) Score(field string, v types.Value) int {
	cf, ok := e.fields[field]
	if !ok {
		return 0
	}

	if e.matchesStrictValue(cf, v) {
		return ScoreStrictValue
	}
	if matchesPattern(cf.patterns, v) {
		return ScorePattern
	}
	if matchesType(cf.spec, v) {
		return ScoreTypeMatch
	}
	if cf.spec.AllowsString() {
		return ScoreMercy
	}
	return 0
}

// ScoreHeaderless checks a data cell under a blank header against the
// headerless-column rules. It returns the inferred field and ScoreHeaderless
// on a match, or ("", 0).
func (e *Engine) ScoreHeaderless(v types.Value) (string, int) {
	if v.IsEmpty() {
		return "", 0
	}
	for _, rule := range e.headerless {
		if matchesPattern(rule.patterns, v) {
			return rule.field, ScoreHeaderless
		}
	}
	return "", 0
}

// matchesStrictValue compares the cell against the strict allowed values.
// Numeric allowed values compare numerically, so a cell holding 1.0 matches
// an allowed value of 1.
func (e *Engine) matchesStrictValue(cf *compiledField, v types.Value) bool {
	if len(cf.values) == 0 && len(cf.textVals) == 0 {
		return false
	}
	if d, ok := v.AsDecimal(); ok {
		for _, allowed := range cf.values {
			if d.Equal(allowed) {
				return true
			}
		}
	}
	if v.IsText() {
		for _, allowed := range cf.textVals {
			if v.String() == allowed {
				return true
			}
		}
	}
	return false
}

// matchesPattern matches the cell's text form against the compiled patterns.
// Empty cells never match.
func matchesPattern(patterns []*regexp.Regexp, v types.Value) bool {
	text := v.String()
	if text == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// matchesType checks the cell's type class against the field's allowed
// classes. Empty cells belong to no class.
func matchesType(spec *config.FieldSpec, v types.Value) bool {
	switch {
	case v.IsNumber():
		return spec.AllowsNumeric()
	case v.IsText():
		return spec.AllowsString()
	default:
		return false
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

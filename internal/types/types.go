// =============================================================================
// Invoice Extractor - Shared Data Types
// =============================================================================
//
// This package contains the data model shared across the extraction pipeline
// to avoid import cycles. Types defined here are used by:
//   - sheet (grid loading, header detection, extraction)
//   - dataproc (CBM parsing, value distribution)
//   - aggregate / compound (summaries)
//   - jsonwriter (final document)
//
// Numbers are held as arbitrary-precision decimals so totals can serialize
// losslessly as decimal text rather than binary floating point.
//
// =============================================================================

package types

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALUE
// =============================================================================

// Kind identifies the scalar type of a cell value.
type Kind int

const (
	// KindEmpty represents a blank cell or an unparseable soft result.
	KindEmpty Kind = iota

	// KindNumber represents a numeric cell, held as a decimal.
	KindNumber

	// KindText represents a non-numeric, non-empty text cell.
	KindText
)

// Value is a single untyped spreadsheet scalar: empty, a decimal number, or
// a trimmed text string. The zero Value is empty.
type Value struct {
	kind Kind
	num  decimal.Decimal
	text string
}

// Empty returns the empty Value.
func Empty() Value {
	return Value{}
}

// Number wraps a decimal as a numeric Value.
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// Text wraps a string as a text Value. The string is trimmed; an all-blank
// string yields the empty Value.
func Text(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty()
	}
	return Value{kind: KindText, text: s}
}

// Cell builds a Value from a raw cell string: blank becomes empty, anything
// that parses as a decimal becomes a number, everything else is text.
func Cell(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Empty()
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return Number(d)
	}
	return Value{kind: KindText, text: raw}
}

// Kind returns the scalar type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the value is blank.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// IsNumber reports whether the value is numeric.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsText reports whether the value is non-empty text.
func (v Value) IsText() bool { return v.kind == KindText }

// Decimal returns the numeric value and whether the value is a number.
func (v Value) Decimal() (decimal.Decimal, bool) {
	return v.num, v.kind == KindNumber
}

// AsDecimal converts the value to a decimal where possible: numbers convert
// directly, numeric-looking text parses, everything else reports false.
func (v Value) AsDecimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		d, err := decimal.NewFromString(v.text)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// String renders the value for display and keying: numbers as decimal text,
// text as-is, empty as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.num.String()
	case KindText:
		return v.text
	default:
		return ""
	}
}

// MarshalJSON encodes empty as null, numbers as decimal text (quoted, to
// stay lossless), and text as a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// =============================================================================
// TABLE
// =============================================================================

// Table is the column-wise data of one extracted table. Columns maps each
// canonical field to one value per data row; every sequence has the same
// length. It is created by the extractor and mutated in place by the
// distributor before being folded into the aggregation maps.
type Table struct {
	// Index is the 1-based position of this table within its sheet.
	Index int

	// HeaderRow is the 1-based row the table's header was detected on.
	HeaderRow int

	// Columns maps canonical field names to per-row values.
	Columns map[string][]Value
}

// RowCount returns the number of data rows in the table. All sequences have
// equal length; the first one found is authoritative.
func (t *Table) RowCount() int {
	for _, vals := range t.Columns {
		return len(vals)
	}
	return 0
}

// Has reports whether the table carries a sequence for the given field.
func (t *Table) Has(field string) bool {
	_, ok := t.Columns[field]
	return ok
}

// =============================================================================
// COMPOUNDED GROUP
// =============================================================================

// Group is one compounded output group: combined identifier texts plus the
// group's decimal totals. Groups are keyed "1", "2", ... by the compounder.
type Group struct {
	CombinedPO          string          `json:"combined_po"`
	CombinedItem        string          `json:"combined_item"`
	CombinedDescription string          `json:"combined_description"`
	TotalQuantity       decimal.Decimal `json:"total_sqft"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Value Tests
// ============================================================================

func TestCellClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
	}{
		{name: "blank", raw: "", kind: KindEmpty},
		{name: "whitespace only", raw: "   ", kind: KindEmpty},
		{name: "integer", raw: "42", kind: KindNumber},
		{name: "decimal", raw: "3.25", kind: KindNumber},
		{name: "negative", raw: "-1.5", kind: KindNumber},
		{name: "padded number", raw: " 12 ", kind: KindNumber},
		{name: "text", raw: "BUFFALO LEATHER", kind: KindText},
		{name: "dimension expression", raw: "1.2*0.8*0.5", kind: KindText},
		{name: "chinese header", raw: "订单号", kind: KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Cell(tt.raw).Kind())
		})
	}
}

func TestTextTrimsToEmpty(t *testing.T) {
	assert.True(t, Text("  ").IsEmpty())
	assert.Equal(t, "x", Text(" x ").String())
}

func TestAsDecimal(t *testing.T) {
	d, ok := Number(decimal.RequireFromString("1.5")).AsDecimal()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("1.5")))

	// Numeric text converts.
	d, ok = Value{kind: KindText, text: "2.5"}.AsDecimal()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("2.5")))

	_, ok = Text("abc").AsDecimal()
	assert.False(t, ok)
	_, ok = Empty().AsDecimal()
	assert.False(t, ok)
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "empty is null", value: Empty(), expected: `null`},
		{name: "number is quoted decimal text", value: Number(decimal.RequireFromString("0.4800")), expected: `"0.4800"`},
		{name: "text is a string", value: Text("PO-1"), expected: `"PO-1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

// ============================================================================
// Table Tests
// ============================================================================

func TestTableRowCount(t *testing.T) {
	table := &Table{
		Index:     1,
		HeaderRow: 5,
		Columns: map[string][]Value{
			"po":   {Text("A"), Text("B")},
			"item": {Text("X"), Text("Y")},
		},
	}
	assert.Equal(t, 2, table.RowCount())
	assert.True(t, table.Has("po"))
	assert.False(t, table.Has("cbm"))

	empty := &Table{Columns: map[string][]Value{}}
	assert.Equal(t, 0, empty.RowCount())
}

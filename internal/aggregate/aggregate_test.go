package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/logger"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

func num(s string) types.Value {
	return types.Number(decimal.RequireFromString(s))
}

func testTable(columns map[string][]types.Value) *types.Table {
	return &types.Table{Index: 1, Columns: columns}
}

// ============================================================================
// Key Tests
// ============================================================================

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "full key",
			key:  Key{PO: "P1", Item: "A", Price: "1.5", HasPrice: true, Description: "BUFFALO HIDE", HasDescription: true},
			want: "(P1, A, 1.5, BUFFALO HIDE)",
		},
		{
			name: "null price and description",
			key:  Key{PO: "P1", Item: "A"},
			want: "(P1, A, <nil>, <nil>)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

// ============================================================================
// Folding Tests
// ============================================================================

func TestFoldStandardMergesEqualPrices(t *testing.T) {
	a := New(Standard, logger.Nop())
	a.Fold(testTable(map[string][]types.Value{
		"po":     {types.Text("P1"), types.Text("P1"), types.Text("P1")},
		"item":   {types.Text("A"), types.Text("A"), types.Text("A")},
		"unit":   {num("1.5"), num("1.50"), num("2.0")},
		"sqft":   {num("10"), num("20"), num("5")},
		"amount": {num("15"), num("30"), num("10")},
	}))

	// 1.5 and 1.50 are the same price; 2.0 is its own entry.
	require.Equal(t, 2, a.Len())

	entries := a.Entries()
	assert.Equal(t, "(P1, A, 1.5, <nil>)", entries[0].Key.String())
	assert.True(t, entries[0].Entry.Quantity.Equal(decimal.RequireFromString("30")))
	assert.True(t, entries[0].Entry.Amount.Equal(decimal.RequireFromString("45")))
	assert.Equal(t, "(P1, A, 2, <nil>)", entries[1].Key.String())
}

func TestFoldCustomIgnoresPrice(t *testing.T) {
	a := New(Custom, logger.Nop())
	a.Fold(testTable(map[string][]types.Value{
		"po":     {types.Text("P1"), types.Text("P1")},
		"item":   {types.Text("A"), types.Text("A")},
		"sqft":   {num("10"), num("20")},
		"amount": {num("15"), num("30")},
	}))

	require.Equal(t, 1, a.Len())
	e := a.Entries()[0]
	assert.False(t, e.Key.HasPrice)
	assert.True(t, e.Entry.Quantity.Equal(decimal.RequireFromString("30")))
}

func TestFoldOrderIndependent(t *testing.T) {
	t1 := map[string][]types.Value{
		"po":     {types.Text("P1")},
		"item":   {types.Text("A")},
		"unit":   {num("1")},
		"sqft":   {num("10")},
		"amount": {num("10")},
	}
	t2 := map[string][]types.Value{
		"po":     {types.Text("P2")},
		"item":   {types.Text("B")},
		"unit":   {num("2")},
		"sqft":   {num("5")},
		"amount": {num("10")},
	}

	a := New(Standard, logger.Nop())
	a.Fold(testTable(t1))
	a.Fold(testTable(t2))

	b := New(Standard, logger.Nop())
	b.Fold(testTable(t2))
	b.Fold(testTable(t1))

	assert.Equal(t, a.Entries(), b.Entries())
}

func TestFoldMissingCellsUseSentinels(t *testing.T) {
	a := New(Standard, logger.Nop())
	a.Fold(testTable(map[string][]types.Value{
		"po":     {types.Empty()},
		"item":   {types.Empty()},
		"unit":   {types.Empty()},
		"sqft":   {num("10")},
		"amount": {num("15")},
	}))

	require.Equal(t, 1, a.Len())
	key := a.Entries()[0].Key
	assert.Equal(t, MissingPO, key.PO)
	assert.Equal(t, MissingItem, key.Item)
	assert.False(t, key.HasPrice)
}

func TestFoldDescriptionDistinguishesKeys(t *testing.T) {
	a := New(Standard, logger.Nop())
	a.Fold(testTable(map[string][]types.Value{
		"po":          {types.Text("P1"), types.Text("P1")},
		"item":        {types.Text("A"), types.Text("A")},
		"unit":        {num("1"), num("1")},
		"sqft":        {num("10"), num("10")},
		"amount":      {num("10"), num("10")},
		"description": {types.Text("BUFFALO"), types.Empty()},
	}))

	// Same po/item/price but one row has a description: two entries.
	assert.Equal(t, 2, a.Len())
}

func TestFoldSkipsTableMissingRequiredColumn(t *testing.T) {
	// No unit column: standard skips, custom still folds.
	columns := map[string][]types.Value{
		"po":     {types.Text("P1")},
		"item":   {types.Text("A")},
		"sqft":   {num("10")},
		"amount": {num("15")},
	}

	std := New(Standard, logger.Nop())
	std.Fold(testTable(columns))
	assert.Zero(t, std.Len())

	cst := New(Custom, logger.Nop())
	cst.Fold(testTable(columns))
	assert.Equal(t, 1, cst.Len())
}

func TestFoldSkipsTableWithLengthMismatch(t *testing.T) {
	a := New(Custom, logger.Nop())
	a.Fold(testTable(map[string][]types.Value{
		"po":     {types.Text("P1"), types.Text("P2")},
		"item":   {types.Text("A"), types.Text("B")},
		"sqft":   {num("10")},
		"amount": {num("15"), num("20")},
	}))
	assert.Zero(t, a.Len())
}

func TestFoldUnparseableSumsDefaultToZero(t *testing.T) {
	a := New(Custom, logger.Nop())
	a.Fold(testTable(map[string][]types.Value{
		"po":     {types.Text("P1")},
		"item":   {types.Text("A")},
		"sqft":   {types.Text("n/a")},
		"amount": {num("15")},
	}))

	e := a.Entries()[0]
	assert.True(t, e.Entry.Quantity.IsZero())
	assert.True(t, e.Entry.Amount.Equal(decimal.RequireFromString("15")))
}

// ============================================================================
// Price Canonicalization Tests
// ============================================================================

func TestCanonicalPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1.50", want: "1.5"},
		{in: "1.500", want: "1.5"},
		{in: "2.00", want: "2"},
		{in: "2", want: "2"},
		{in: "10", want: "10"},
		{in: "0.05", want: "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalPrice(decimal.RequireFromString(tt.in)))
		})
	}
}

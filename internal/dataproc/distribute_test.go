package dataproc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/logger"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

func num(s string) types.Value {
	return types.Number(decimal.RequireFromString(s))
}

func newTestDistributor() *Distributor {
	cfg := config.Default()
	cfg.Precision.Default = 2 // distinguishable from the CBM precision
	return NewDistributor(cfg, logger.Nop())
}

// column renders a distributed column back to decimal strings for compact
// assertions.
func column(table *types.Table, field string) []string {
	col := table.Columns[field]
	out := make([]string, len(col))
	for i, v := range col {
		out[i] = v.String()
	}
	return out
}

// ============================================================================
// Distribution Tests
// ============================================================================

func TestDistributeSpreadsHeadProportionally(t *testing.T) {
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("10"), num("20"), num("30")},
			"net": {num("60"), types.Empty(), types.Empty()},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"10.00", "20.00", "30.00"}, column(table, "net"))
}

func TestDistributeUsesCBMPrecision(t *testing.T) {
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("1"), num("2")},
			"net": {num("1"), types.Empty()},
			"cbm": {num("1"), types.Empty()},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"0.33", "0.67"}, column(table, "net"))
	assert.Equal(t, []string{"0.3333", "0.6667"}, column(table, "cbm"))
}

func TestDistributeSharesRoundIndependently(t *testing.T) {
	// Three equal shares of 10 round to 3.33 each; the 0.01 drift is
	// accepted, not redistributed.
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("3"), num("3"), num("3")},
			"net": {num("10"), types.Empty(), types.Empty()},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"3.33", "3.33", "3.33"}, column(table, "net"))
}

func TestDistributeZeroBasisRowGetsZero(t *testing.T) {
	// The head row itself has no pieces: its share is zero like any other
	// zero-basis row, and the full value goes to the rows that do.
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("0"), num("5"), num("5")},
			"net": {num("100"), types.Empty(), types.Empty()},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"0", "50.00", "50.00"}, column(table, "net"))
}

func TestDistributeNoPositiveBasisKeepsHead(t *testing.T) {
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {types.Empty(), num("0")},
			"net": {num("100"), types.Empty()},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"100", "0"}, column(table, "net"))
}

func TestDistributeSingletonValueStays(t *testing.T) {
	// Adjacent filled rows form no block; each value stays put.
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("1"), num("1")},
			"net": {num("7"), num("8")},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"7", "8"}, column(table, "net"))
}

func TestDistributeFillsUntouchedEmptiesWithZero(t *testing.T) {
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("1"), num("1")},
			"net": {types.Empty(), num("5")},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"0", "5"}, column(table, "net"))
}

func TestDistributeMissingBasisSkipsTable(t *testing.T) {
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"net": {num("60"), types.Empty()},
		},
	}

	newTestDistributor().Distribute(table)

	// Untouched: the empty cell stays empty, not zero.
	require.Len(t, table.Columns["net"], 2)
	assert.Equal(t, "60", table.Columns["net"][0].String())
	assert.True(t, table.Columns["net"][1].IsEmpty())
}

func TestDistributeRowCountMismatchSkipsField(t *testing.T) {
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("1"), num("1")},
			"net": {num("60")},
		},
	}

	newTestDistributor().Distribute(table)

	require.Len(t, table.Columns["net"], 1)
	assert.Equal(t, "60", table.Columns["net"][0].String())
}

func TestDistributeSeparateBlocks(t *testing.T) {
	table := &types.Table{
		Index: 1,
		Columns: map[string][]types.Value{
			"pcs": {num("1"), num("1"), num("1"), num("3")},
			"net": {num("10"), types.Empty(), num("20"), types.Empty()},
		},
	}

	newTestDistributor().Distribute(table)

	assert.Equal(t, []string{"5.00", "5.00", "5.00", "15.00"}, column(table, "net"))
}

// =============================================================================
// Invoice Extractor - Proportional Value Distribution
// =============================================================================
//
// Packing lists often carry an aggregate figure (net weight, gross weight,
// volume) only on the first row of a multi-row shipment, leaving the sibling
// rows blank. Distribution spreads such a head value across its block
// proportional to each row's piece count (the basis field).
//
// BLOCK RULES (per distributed field, using pre-distribution values only):
//   - A block starts at a non-empty, non-zero value and extends through the
//     following rows that are empty or zero in that field.
//   - The head value is split across the block rows whose basis is strictly
//     positive, proportional to basis; every share rounds independently and
//     rounding drift is not redistributed. Rows without positive basis get 0.
//   - When no block row has positive basis, distribution is abandoned: the
//     head keeps its value and the rest of the block is zeroed.
//
// After distribution every row of a distributed field holds a decimal; rows
// that were empty and received nothing hold 0.
//
// =============================================================================

package dataproc

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// Distributor spreads head values across their blocks.
type Distributor struct {
	basisField  string
	fields      []string
	cbmPrec     int32
	defaultPrec int32
	log         zerolog.Logger
}

// NewDistributor builds a Distributor from the configuration.
func NewDistributor(cfg *config.Config, log zerolog.Logger) *Distributor {
	return &Distributor{
		basisField:  cfg.Distribution.BasisField,
		fields:      cfg.Distribution.Fields,
		cbmPrec:     cfg.Precision.CBM,
		defaultPrec: cfg.Precision.Default,
		log:         log,
	}
}

// Distribute mutates the table in place, distributing each configured field
// independently. Fields absent from the table are skipped with a warning;
// a missing basis column skips the whole table.
func (d *Distributor) Distribute(table *types.Table) {
	basisCol, ok := table.Columns[d.basisField]
	if !ok {
		d.log.Warn().
			Int("table", table.Index).
			Str("basis_field", d.basisField).
			Msg("Basis column missing, skipping distribution")
		return
	}

	basis := toDecimals(basisCol)

	for _, field := range d.fields {
		col, ok := table.Columns[field]
		if !ok {
			d.log.Warn().
				Int("table", table.Index).
				Str("field", field).
				Msg("Distribution field missing from table, skipping")
			continue
		}
		if len(col) != len(basis) {
			d.log.Error().
				Int("table", table.Index).
				Str("field", field).
				Int("field_rows", len(col)).
				Int("basis_rows", len(basis)).
				Msg("Row count mismatch, skipping distribution for field")
			continue
		}

		precision := d.defaultPrec
		if field == cbmField {
			precision = d.cbmPrec
		}
		table.Columns[field] = d.distributeColumn(table.Index, field, col, basis, precision)
	}
}

// distributeColumn runs the block scan over one field's pre-distribution
// values and returns the fully numeric replacement column.
func (d *Distributor) distributeColumn(tableIndex int, field string, col []types.Value, basis []*decimal.Decimal, precision int32) []types.Value {
	n := len(col)
	values := toDecimals(col)
	out := make([]*decimal.Decimal, n)

	i := 0
	for i < n {
		head := values[i]
		if head == nil || head.IsZero() {
			// Empty or zero and not filled by a previous block.
			if out[i] == nil {
				zero := decimal.Zero
				out[i] = &zero
			}
			i++
			continue
		}

		// Lookahead: following rows empty/zero in this field form the block.
		j := i + 1
		for j < n {
			if values[j] != nil && !values[j].IsZero() {
				break
			}
			j++
		}

		if j == i+1 {
			// No block follows; the value stays where it is.
			out[i] = head
			i++
			continue
		}

		d.distributeBlock(tableIndex, field, *head, basis, out, i, j, precision)
		i = j
	}

	result := make([]types.Value, n)
	for k, v := range out {
		if v == nil {
			result[k] = types.Number(decimal.Zero)
			continue
		}
		result[k] = types.Number(*v)
	}
	return result
}

// distributeBlock splits head across rows [start, end) by positive basis.
func (d *Distributor) distributeBlock(tableIndex int, field string, head decimal.Decimal, basis []*decimal.Decimal, out []*decimal.Decimal, start, end int, precision int32) {
	totalBasis := decimal.Zero
	positive := make(map[int]bool, end-start)
	for k := start; k < end; k++ {
		if basis[k] != nil && basis[k].IsPositive() {
			totalBasis = totalBasis.Add(*basis[k])
			positive[k] = true
		}
	}

	if len(positive) == 0 {
		d.log.Warn().
			Int("table", tableIndex).
			Str("field", field).
			Int("row_index", start).
			Str("value", head.String()).
			Msg("No positive basis in block, keeping head value and zeroing the rest")
		out[start] = &head
		for k := start + 1; k < end; k++ {
			zero := decimal.Zero
			out[k] = &zero
		}
		return
	}

	distributedSum := decimal.Zero
	for k := start; k < end; k++ {
		if !positive[k] {
			zero := decimal.Zero
			out[k] = &zero
			continue
		}
		share := head.Mul(*basis[k]).Div(totalBasis).Round(precision)
		out[k] = &share
		distributedSum = distributedSum.Add(share)
	}

	// Independent rounding may drift by up to half a unit; more than that
	// means something is off with the input.
	tolerance := decimal.New(5, -precision-1)
	if diff := distributedSum.Sub(head).Abs(); diff.GreaterThan(tolerance) {
		d.log.Warn().
			Int("table", tableIndex).
			Str("field", field).
			Str("original", head.String()).
			Str("distributed_sum", distributedSum.String()).
			Str("difference", diff.String()).
			Msg("Distribution sum drifted beyond tolerance")
	}
}

// toDecimals converts a column to decimal pointers; empty and non-numeric
// cells become nil.
func toDecimals(col []types.Value) []*decimal.Decimal {
	out := make([]*decimal.Decimal, len(col))
	for i, v := range col {
		if d, ok := v.AsDecimal(); ok {
			dv := d
			out[i] = &dv
		}
	}
	return out
}

// =============================================================================
// Invoice Extractor - CBM Parsing
// =============================================================================
//
// Volume (CBM) cells arrive in two shapes: a plain number, or a dimension
// expression like "1.2*0.8*0.5" / "1.2x0.8x0.5". Parsing multiplies exactly
// three dimensions and quantizes the product; anything else is unparseable.
//
// Unparseable cells are a soft failure: the result type carries an explicit
// ok flag and callers store a null, never abort the table.
//
// =============================================================================

package dataproc

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// cbmField is the canonical name of the volume column.
const cbmField = "cbm"

var dimensionSplit = regexp.MustCompile(`[xX]`)

// ParseCBM parses one volume cell. Numeric input is quantized to the given
// number of fractional digits (round half away from zero). String input is
// split into exactly three dimensions on '*' (or 'x'/'X' when no '*' is
// present) and the product is quantized. The second return is false when
// the cell cannot be parsed.
func ParseCBM(v types.Value, precision int32) (decimal.Decimal, bool) {
	if d, ok := v.Decimal(); ok {
		return d.Round(precision), true
	}
	if !v.IsText() {
		return decimal.Decimal{}, false
	}

	s := v.String()
	parts := strings.Split(s, "*")
	if len(parts) != 3 && !strings.Contains(s, "*") && strings.ContainsAny(s, "xX") {
		parts = dimensionSplit.Split(s, -1)
	}
	if len(parts) != 3 {
		return decimal.Decimal{}, false
	}

	product := decimal.NewFromInt(1)
	for _, part := range parts {
		dim, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return decimal.Decimal{}, false
		}
		product = product.Mul(dim)
	}
	return product.Round(precision), true
}

// ProcessCBMColumn replaces the table's cbm values with parsed volumes.
// Unparseable cells become empty (serialized as null) and are logged.
// Tables without a cbm column are left untouched.
func ProcessCBMColumn(table *types.Table, precision int32, log zerolog.Logger) {
	col, ok := table.Columns[cbmField]
	if !ok || len(col) == 0 {
		return
	}

	for i, v := range col {
		if v.IsEmpty() {
			continue
		}
		parsed, ok := ParseCBM(v, precision)
		if !ok {
			log.Warn().
				Int("table", table.Index).
				Int("row_index", i).
				Str("value", v.String()).
				Msg("Could not parse CBM expression")
			col[i] = types.Empty()
			continue
		}
		col[i] = types.Number(parsed)
	}
}

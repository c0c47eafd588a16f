// =============================================================================
// Invoice Extractor - Grid
// =============================================================================
//
// The Grid is the read-only rows-by-columns view the whole pipeline works
// on. Loaders (XLSX, CSV) build it once; header detection and extraction
// only read it. Coordinates are 1-based everywhere, matching spreadsheet
// convention, and out-of-range reads return the empty value so callers can
// scan a configured window without bounds juggling.
//
// =============================================================================

package sheet

import (
	"github.com/xuri/excelize/v2"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// Grid is an immutable spreadsheet view.
type Grid struct {
	rows [][]types.Value
	cols int
}

// NewGrid builds a Grid from row-major values. Ragged rows are allowed; the
// column count is the widest row.
func NewGrid(rows [][]types.Value) *Grid {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return &Grid{rows: rows, cols: cols}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return len(g.rows) }

// Cols returns the number of columns (width of the widest row).
func (g *Grid) Cols() int { return g.cols }

// At returns the value at the 1-based (row, col) position. Positions outside
// the grid are empty.
func (g *Grid) At(row, col int) types.Value {
	if row < 1 || row > len(g.rows) {
		return types.Empty()
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return types.Empty()
	}
	return r[col-1]
}

// columnLetter renders a 1-based column index as its spreadsheet letter for
// log output ("A", "B", ..., "AA").
func columnLetter(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return "?"
	}
	return name
}

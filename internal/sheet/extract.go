// =============================================================================
// Invoice Extractor - Multi-Table Extraction
// =============================================================================
//
// One sheet can hold several data tables separated by blank rows or repeated
// header rows. Given the ordered header rows and the validated column
// mapping, this module collects the data beneath each header column-wise.
//
// Per table, data runs from the row after its header to the next header row
// (exclusive) or the per-table row ceiling, stopping early at the first row
// whose stop-field cell is empty. An empty data region still yields a table
// with empty sequences for every mapped field, so downstream stages always
// see one table per header row.
//
// =============================================================================

package sheet

import (
	"github.com/rs/zerolog"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// Extractor pulls table data out of a grid.
type Extractor struct {
	stopField string
	maxRows   int
	log       zerolog.Logger
}

// NewExtractor builds an Extractor. stopField names the canonical field
// whose emptiness ends a table; maxRows bounds each table's data scan.
func NewExtractor(stopField string, maxRows int, log zerolog.Logger) *Extractor {
	return &Extractor{stopField: stopField, maxRows: maxRows, log: log}
}

// ExtractTables collects one table per header row, in sheet order. Table
// indexes are 1-based.
func (e *Extractor) ExtractTables(g *Grid, headerRows []int, mapping Mapping) []*types.Table {
	if len(headerRows) == 0 || len(mapping) == 0 {
		e.log.Warn().Msg("No header rows or column mapping to extract from")
		return nil
	}

	stopCol, hasStop := mapping[e.stopField]
	tables := make([]*types.Table, 0, len(headerRows))

	for i, headerRow := range headerRows {
		startRow := headerRow + 1

		// Data ends at the next header, the row ceiling, or the sheet edge.
		endRow := g.Rows() + 1
		if i+1 < len(headerRows) {
			endRow = headerRows[i+1]
		}
		if limit := startRow + e.maxRows; limit < endRow {
			endRow = limit
		}

		table := &types.Table{
			Index:     i + 1,
			HeaderRow: headerRow,
			Columns:   make(map[string][]types.Value, len(mapping)),
		}
		for field := range mapping {
			table.Columns[field] = []types.Value{}
		}

		for row := startRow; row < endRow; row++ {
			if hasStop && g.At(row, stopCol).IsEmpty() {
				e.log.Debug().
					Int("table", table.Index).
					Int("row", row).
					Str("stop_field", e.stopField).
					Msg("Stop field empty, ending table")
				break
			}
			for field, col := range mapping {
				table.Columns[field] = append(table.Columns[field], g.At(row, col))
			}
		}

		e.log.Info().
			Int("table", table.Index).
			Int("header_row", headerRow).
			Int("rows", table.RowCount()).
			Msg("Extracted table")
		tables = append(tables, table)
	}

	return tables
}

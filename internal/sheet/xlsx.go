// =============================================================================
// Invoice Extractor - XLSX Loader
// =============================================================================
//
// Loads one worksheet of an XLSX workbook into a Grid. Cell values come from
// excelize as formatted strings; numeric-looking cells become decimals, the
// rest stay text. The sheet is chosen by name, or the workbook's first sheet
// when no name is configured.
//
// =============================================================================

package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// LoadXLSX opens a workbook file and loads the named sheet (or the first
// sheet when name is empty). It returns the grid and the sheet name used.
func LoadXLSX(path, sheetName string) (*Grid, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return GridFromWorkbook(f, sheetName)
}

// GridFromWorkbook loads a sheet from an already-open workbook. Tests feed
// in-memory workbooks through this entry point.
func GridFromWorkbook(f *excelize.File, sheetName string) (*Grid, string, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, "", fmt.Errorf("workbook contains no sheets")
		}
	}

	rawRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	rows := make([][]types.Value, len(rawRows))
	for i, rawRow := range rawRows {
		row := make([]types.Value, len(rawRow))
		for j, raw := range rawRow {
			row[j] = types.Cell(raw)
		}
		rows[i] = row
	}

	return NewGrid(rows), sheetName, nil
}

// =============================================================================
// Invoice Extractor - CSV Loader
// =============================================================================
//
// Loads a delimited text export into a Grid. CSV exports of the same
// invoices go through the identical detection/extraction path as XLSX: the
// loader only differs in how the raw cells are read.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab)
//   - Ragged rows allowed; short rows read as empty cells
//   - Lazy quotes, so lightly malformed exports still load
//
// =============================================================================

package sheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// LoadCSV reads a delimited file into a Grid using the configured settings.
func LoadCSV(path string, settings config.CSVSettings) (*Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	grid, err := GridFromCSV(bufio.NewReader(file), settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return grid, nil
}

// GridFromCSV parses delimited text from a reader into a Grid.
func GridFromCSV(r io.Reader, settings config.CSVSettings) (*Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	if settings.Delimiter != "" {
		reader.Comma = rune(settings.Delimiter[0])
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	rows := make([][]types.Value, len(records))
	for i, record := range records {
		row := make([]types.Value, len(record))
		for j, raw := range record {
			row[j] = types.Cell(raw)
		}
		rows[i] = row
	}

	return NewGrid(rows), nil
}

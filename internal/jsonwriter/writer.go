// =============================================================================
// Invoice Extractor - JSON Output Writer
// =============================================================================
//
// This module assembles the final result document and writes it as
// pretty-printed JSON. The document carries:
//   - Run metadata (workbook, worksheet, run ID, compounding mode and
//     constants, timestamp)
//   - Every processed table's post-distribution data
//   - BOTH aggregation maps with stringified keys, for audit
//   - The final compounded result
//
// All decimals serialize as quoted decimal text, never binary floating
// point, so totals survive the JSON hand-off losslessly. A value that
// cannot be encoded aborts the run; partial output files are never left
// behind on a marshalling failure.
//
// =============================================================================

package jsonwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/aggregate"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/compound"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// =============================================================================
// DOCUMENT STRUCTURE
// =============================================================================

// Metadata identifies one run of the pipeline.
type Metadata struct {
	WorkbookFilename        string    `json:"workbook_filename"`
	WorksheetName           string    `json:"worksheet_name"`
	RunID                   string    `json:"run_id"`
	FOBCompoundingInputMode string    `json:"fob_compounding_input_mode"`
	FOBChunkSize            int       `json:"fob_chunk_size"`
	FOBIntraSeparator       string    `json:"fob_intra_separator"`
	FOBInterSeparator       string    `json:"fob_inter_separator"`
	Timestamp               time.Time `json:"timestamp"`
}

// TableData is one table's serialized form.
type TableData struct {
	HeaderRow int                      `json:"header_row"`
	Columns   map[string][]types.Value `json:"columns"`
}

// AggregationEntry is one aggregation key's serialized sums.
type AggregationEntry struct {
	SqftSum   decimal.Decimal `json:"sqft_sum"`
	AmountSum decimal.Decimal `json:"amount_sum"`
}

// Document is the complete output of one run.
type Document struct {
	Metadata            Metadata                    `json:"metadata"`
	ProcessedTables     map[string]TableData        `json:"processed_tables_data"`
	StandardAggregation map[string]AggregationEntry `json:"standard_aggregation_results"`
	CustomAggregation   map[string]AggregationEntry `json:"custom_aggregation_results"`
	FOBCompoundedResult compound.Result             `json:"final_fob_compounded_result"`
}

// =============================================================================
// DOCUMENT ASSEMBLY
// =============================================================================

// BuildDocument assembles the output document from the run's results.
func BuildDocument(
	workbookName string,
	sheetName string,
	runID string,
	mode aggregate.Mode,
	settings config.CompoundingSettings,
	tables []*types.Table,
	standard, custom *aggregate.Accumulator,
	compounded compound.Result,
) *Document {
	processed := make(map[string]TableData, len(tables))
	for _, t := range tables {
		processed[strconv.Itoa(t.Index)] = TableData{
			HeaderRow: t.HeaderRow,
			Columns:   t.Columns,
		}
	}

	return &Document{
		Metadata: Metadata{
			WorkbookFilename:        workbookName,
			WorksheetName:           sheetName,
			RunID:                   runID,
			FOBCompoundingInputMode: mode.String(),
			FOBChunkSize:            settings.ChunkSize,
			FOBIntraSeparator:       settings.IntraSeparator,
			FOBInterSeparator:       settings.InterSeparator,
			Timestamp:               time.Now(),
		},
		ProcessedTables:     processed,
		StandardAggregation: aggregationMap(standard),
		CustomAggregation:   aggregationMap(custom),
		FOBCompoundedResult: compounded,
	}
}

// aggregationMap stringifies an accumulator's keys for JSON.
func aggregationMap(acc *aggregate.Accumulator) map[string]AggregationEntry {
	out := make(map[string]AggregationEntry, acc.Len())
	for _, ke := range acc.Entries() {
		out[ke.Key.String()] = AggregationEntry{
			SqftSum:   ke.Entry.Quantity,
			AmountSum: ke.Entry.Amount,
		}
	}
	return out
}

// =============================================================================
// WRITER
// =============================================================================

// Writer encodes and persists result documents.
type Writer struct {
	log zerolog.Logger
}

// NewWriter creates a Writer.
func NewWriter(log zerolog.Logger) *Writer {
	return &Writer{log: log}
}

// Encode writes the document as indented JSON to the given writer.
func (w *Writer) Encode(doc *Document, out io.Writer) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize result document: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write result document: %w", err)
	}
	return nil
}

// WriteTable dumps one table's post-distribution data as an intermediate
// JSON file for inspection.
func (w *Writer) WriteTable(table *types.Table, path string) error {
	data, err := json.MarshalIndent(TableData{
		HeaderRow: table.HeaderRow,
		Columns:   table.Columns,
	}, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize table %d: %w", table.Index, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.log.Debug().
		Str("path", path).
		Int("table", table.Index).
		Msg("Saved intermediate table file")
	return nil
}

// Write marshals the document and writes it to path. The file is only
// created once marshalling has succeeded.
func (w *Writer) Write(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize result document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.log.Info().
		Str("path", path).
		Int("bytes", len(data)).
		Msg("Saved JSON output")
	return nil
}

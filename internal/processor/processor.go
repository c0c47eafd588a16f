// =============================================================================
// Invoice Extractor - Workbook Processor
// =============================================================================
//
// This module orchestrates the extraction pipeline for a single workbook:
//
//   1. Load the spreadsheet into a Grid (XLSX or CSV)
//   2. Detect the primary header row and map its columns
//   3. Find repeated header rows further down the sheet
//   4. Extract one table per header row
//   5. Per table: parse CBM, distribute head values, fold BOTH aggregations
//   6. Compound the aggregation selected by workbook-name prefix
//   7. Write the JSON result document
//
// Processing is single-threaded and synchronous; each table completes its
// distribution and aggregation before the next starts, and compounding runs
// once at the end. The two accumulators live exactly as long as one Run
// call and are never reused.
//
// =============================================================================

package processor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/aggregate"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/compound"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/dataproc"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/fieldrules"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/jsonwriter"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/sheet"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of processing one workbook.
type Result struct {
	// InputPath is the workbook that was processed.
	InputPath string

	// OutputFile is the JSON document written; empty on failure.
	OutputFile string

	// RunID identifies this run in output metadata and file names.
	RunID string

	// HeaderRow is the detected primary header row.
	HeaderRow int

	// Success reports whether the run completed.
	Success bool

	// Error holds the failure when Success is false.
	Error error

	// Stats holds processing counters.
	Stats Stats
}

// Stats contains counters for one run.
type Stats struct {
	// TablesExtracted is the number of tables found and extracted.
	TablesExtracted int

	// RowsExtracted is the total data rows across all tables.
	RowsExtracted int

	// StandardKeys is the size of the standard aggregation map.
	StandardKeys int

	// CustomKeys is the size of the custom aggregation map.
	CustomKeys int

	// CompoundedGroups is the number of final display groups.
	CompoundedGroups int

	// ProcessingTime is the elapsed wall time of the run.
	ProcessingTime time.Duration
}

// Options control one Run call.
type Options struct {
	// InputPath is the workbook or CSV export to process.
	InputPath string

	// OutputDir receives the JSON document; defaults to the input's dir.
	OutputDir string

	// SheetName overrides the configured worksheet selection.
	SheetName string

	// KeepIntermediate writes one JSON file per table before aggregation.
	KeepIntermediate bool
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor runs the pipeline for workbooks under one configuration.
type Processor struct {
	cfg   *config.Config
	rules *fieldrules.Engine
	log   zerolog.Logger
}

// New creates a Processor. The field rules compile once and are shared
// across Run calls.
func New(cfg *config.Config, log zerolog.Logger) *Processor {
	return &Processor{
		cfg:   cfg,
		rules: fieldrules.NewEngine(cfg, log),
		log:   log,
	}
}

// Run processes one workbook end to end.
func (p *Processor) Run(opts Options) Result {
	startTime := time.Now()
	result := Result{
		InputPath: opts.InputPath,
		RunID:     utils.NewRunID(),
	}

	workbookName := filepath.Base(opts.InputPath)
	log := p.log.With().Str("workbook", workbookName).Logger()
	log.Info().Str("run_id", result.RunID).Msg("Starting invoice extraction")

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(opts.InputPath)
	}
	if err := utils.EnsureDir(outputDir); err != nil {
		return p.fail(result, startTime, err)
	}

	// 1. Load the grid.
	grid, sheetName, err := p.loadGrid(opts)
	if err != nil {
		return p.fail(result, startTime, err)
	}
	log.Info().
		Str("sheet", sheetName).
		Int("rows", grid.Rows()).
		Int("cols", grid.Cols()).
		Msg("Loaded grid")

	// 2-3. Detect headers.
	detector, err := sheet.NewDetector(p.cfg, p.rules, log)
	if err != nil {
		return p.fail(result, startTime, err)
	}
	headerRow, mapping, err := detector.FindHeader(grid)
	if err != nil {
		return p.fail(result, startTime, fmt.Errorf("sheet %q: %w", sheetName, err))
	}
	result.HeaderRow = headerRow
	headerRows := append([]int{headerRow}, detector.FindAdditionalHeaderRows(grid, headerRow)...)

	// 4. Extract tables.
	extractor := sheet.NewExtractor(p.cfg.StopField, p.cfg.MaxTableRows, log)
	tables := extractor.ExtractTables(grid, headerRows, mapping)
	result.Stats.TablesExtracted = len(tables)

	// 5. Per-table processing and aggregation.
	standard := aggregate.New(aggregate.Standard, log)
	custom := aggregate.New(aggregate.Custom, log)
	distributor := dataproc.NewDistributor(p.cfg, log)
	writer := jsonwriter.NewWriter(log)

	for _, table := range tables {
		dataproc.ProcessCBMColumn(table, p.cfg.Precision.CBM, log)
		distributor.Distribute(table)
		standard.Fold(table)
		custom.Fold(table)
		result.Stats.RowsExtracted += table.RowCount()

		if opts.KeepIntermediate {
			path := utils.IntermediatePath(outputDir, opts.InputPath, result.RunID, table.Index)
			if err := writer.WriteTable(table, path); err != nil {
				log.Warn().Err(err).Int("table", table.Index).Msg("Failed to write intermediate table file")
			}
		}
	}
	result.Stats.StandardKeys = standard.Len()
	result.Stats.CustomKeys = custom.Len()

	// 6. Compound the selected aggregation.
	chosen := standard
	if p.cfg.UseCustomAggregation(workbookName) {
		log.Info().Msg("Workbook name matches custom prefix, compounding custom aggregation")
		chosen = custom
	}
	compounder := compound.NewCompounder(p.cfg, log)
	compounded := compounder.Compound(chosen.Entries())
	result.Stats.CompoundedGroups = len(compounded)

	// 7. Write the result document.
	doc := jsonwriter.BuildDocument(
		workbookName, sheetName, result.RunID,
		chosen.Mode(), p.cfg.Compounding,
		tables, standard, custom, compounded,
	)
	outputFile := utils.OutputPath(outputDir, opts.InputPath)
	if err := writer.Write(doc, outputFile); err != nil {
		return p.fail(result, startTime, err)
	}

	result.OutputFile = outputFile
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	log.Info().
		Int("tables", result.Stats.TablesExtracted).
		Int("rows", result.Stats.RowsExtracted).
		Int("standard_keys", result.Stats.StandardKeys).
		Int("custom_keys", result.Stats.CustomKeys).
		Int("groups", result.Stats.CompoundedGroups).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("Invoice extraction finished")
	return result
}

// loadGrid picks the loader by file extension.
func (p *Processor) loadGrid(opts Options) (*sheet.Grid, string, error) {
	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = p.cfg.SheetName
	}

	if strings.EqualFold(filepath.Ext(opts.InputPath), ".csv") {
		grid, err := sheet.LoadCSV(opts.InputPath, p.cfg.CSV)
		if err != nil {
			return nil, "", err
		}
		return grid, filepath.Base(opts.InputPath), nil
	}

	return sheet.LoadXLSX(opts.InputPath, sheetName)
}

func (p *Processor) fail(result Result, startTime time.Time, err error) Result {
	result.Error = err
	result.Stats.ProcessingTime = time.Since(startTime)
	p.log.Error().Err(err).Str("input", result.InputPath).Msg("Invoice extraction failed")
	return result
}

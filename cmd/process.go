// =============================================================================
// Invoice Extractor - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main entry point for running
// the extraction pipeline against one workbook or CSV export.
//
// COMMAND USAGE:
//   invoice-extractor process <input.xlsx|input.csv> [flags]
//
// FLAGS:
//   --output-dir        : Directory for the JSON output (default: input's dir)
//   --sheet             : Worksheet to process (default: first sheet)
//   --keep-intermediate : Also write one JSON file per extracted table
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/processor"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// outputDir receives the JSON output file.
var outputDir string

// sheetName selects the worksheet to process.
var sheetName string

// keepIntermediate writes per-table JSON dumps alongside the final output.
var keepIntermediate bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process <input.xlsx|input.csv>",
	Short: "Extract, aggregate and compound one spreadsheet export",
	Long: `The process command runs the full extraction pipeline on one workbook:
header detection, multi-table extraction, CBM parsing, value distribution,
dual aggregation, and FOB compounding. The result is written as a JSON
document next to the input (or into --output-dir).

One bad cell never discards a table: malformed values are neutralized and
logged. The run only fails when no usable header row exists or the result
document cannot be written.`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(args[0])
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the process command and its flags.
func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(
		&outputDir,
		"output-dir",
		"o",
		"",
		"Directory for the JSON output (defaults to the input file's directory)",
	)
	processCmd.Flags().StringVar(
		&sheetName,
		"sheet",
		"",
		"Worksheet name to process (defaults to the first sheet)",
	)
	processCmd.Flags().BoolVar(
		&keepIntermediate,
		"keep-intermediate",
		false,
		"Write one JSON file per extracted table before aggregation",
	)
}

// =============================================================================
// COMMAND EXECUTION
// =============================================================================

// runProcess executes the pipeline for one input file.
func runProcess(inputPath string) error {
	if !utils.FileExists(inputPath) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	proc := processor.New(cfg, log)
	result := proc.Run(processor.Options{
		InputPath:        inputPath,
		OutputDir:        outputDir,
		SheetName:        sheetName,
		KeepIntermediate: keepIntermediate,
	})

	if !result.Success {
		return fmt.Errorf("processing %s failed: %w", inputPath, result.Error)
	}

	fmt.Printf("Processed %s\n", inputPath)
	fmt.Printf("  Header row:       %d\n", result.HeaderRow)
	fmt.Printf("  Tables extracted: %d (%d rows)\n", result.Stats.TablesExtracted, result.Stats.RowsExtracted)
	fmt.Printf("  Aggregation keys: %d standard, %d custom\n", result.Stats.StandardKeys, result.Stats.CustomKeys)
	fmt.Printf("  Output groups:    %d\n", result.Stats.CompoundedGroups)
	fmt.Printf("  Output file:      %s\n", result.OutputFile)
	return nil
}

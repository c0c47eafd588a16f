// =============================================================================
// Invoice Extractor - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Invoice Extractor CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   invoice-extractor process <input>  - Extract and aggregate one workbook
//   invoice-extractor version          - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core pipeline (detection, extraction, aggregation)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/cmd"
)

// main delegates to the cmd package, which initializes and runs the CLI.
func main() {
	cmd.Execute()
}

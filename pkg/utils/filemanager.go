// =============================================================================
// Invoice Extractor - File Manager Utility
// =============================================================================
//
// File-handling helpers for the extraction pipeline:
//   - Directory management for output locations
//   - Output file naming from the input workbook name
//   - Intermediate per-table file naming (run-scoped via UUID)
//
// The pipeline packages under internal/ own no file-path decisions; the
// processor resolves everything through these helpers.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// InputStem returns the input file's base name without its extension;
// "shipments/JF_Report_Q1.xlsx" yields "JF_Report_Q1".
func InputStem(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath resolves the JSON output path for an input workbook:
// outputDir/<stem>.json.
func OutputPath(outputDir, inputPath string) string {
	return filepath.Join(outputDir, InputStem(inputPath)+".json")
}

// IntermediatePath resolves the path of one table's intermediate JSON
// dump. The run ID keeps files from concurrent or repeated runs apart.
func IntermediatePath(outputDir, inputPath, runID string, tableIndex int) string {
	name := fmt.Sprintf("%s_table%d_%s.json", InputStem(inputPath), tableIndex, runID)
	return filepath.Join(outputDir, name)
}

// NewRunID returns the identifier stamped into output metadata and
// intermediate file names.
func NewRunID() string {
	return uuid.New().String()
}

// Timestamp formats a time the way file names and logs use it.
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

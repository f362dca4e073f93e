// =============================================================================
// Points Calculator - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the calculator, including:
//   - Directory management
//   - Export file naming
//   - Run summary logs written next to exports
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
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

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an export file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {type}      - Export type, e.g. "pedidos"
//   - params: Values for custom placeholders, keyed without braces.
//
// RETURNS:
//   - The generated file name. ".xlsx" is appended when the result has no
//     extension.
//
// EXAMPLE:
//   format: "pontos_{type}_{date}"
//   params: {"type": "pedidos"}
//   output: "pontos_pedidos_20240115.xlsx"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	// Longest placeholder first so a custom key never clips a built-in one.
	placeholders := make([]string, 0, len(replacements))
	for p := range replacements {
		placeholders = append(placeholders, p)
	}
	sort.Slice(placeholders, func(i, j int) bool {
		if len(placeholders[i]) != len(placeholders[j]) {
			return len(placeholders[i]) > len(placeholders[j])
		}
		return placeholders[i] < placeholders[j]
	})

	result := format
	for _, p := range placeholders {
		result = strings.ReplaceAll(result, p, replacements[p])
	}

	if filepath.Ext(result) == "" {
		result += ".xlsx"
	}

	return result
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about one calculation run.
type RunSummary struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time

	OrdersFile string
	CostsFile  string
	ExportFile string

	OrderRows int
	CostRows  int
	LineItems int
	Orders    int

	// Dropped counts skipped order rows by reason.
	Dropped map[string]int

	ValidationWarnings int

	// Parameters lists the calculation inputs as label/value pairs.
	Parameters [][2]string
}

// WriteSummaryLog writes a run summary to a text file in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	id := summary.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	summaryFileName := fmt.Sprintf("run_summary_%s_%s.txt", summary.StartTime.Format("20060102_150405"), id)
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	rule := strings.Repeat("=", 80) + "\n"
	fmt.Fprintf(writer, "Points Calculator - Run Summary\n%s\n", rule)
	fmt.Fprintf(writer, "Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String())

	fmt.Fprintf(writer, "Inputs:\n"+
		"  Orders File:    %s (%d rows)\n"+
		"  Costs File:     %s (%d rows)\n\n",
		summary.OrdersFile, summary.OrderRows,
		summary.CostsFile, summary.CostRows)

	if len(summary.Parameters) > 0 {
		writer.WriteString("Parameters:\n")
		for _, p := range summary.Parameters {
			fmt.Fprintf(writer, "  %-16s%s\n", p[0]+":", p[1])
		}
		writer.WriteString("\n")
	}

	fmt.Fprintf(writer, "Statistics:\n"+
		"  Line Items:         %d\n"+
		"  Orders:             %d\n"+
		"  Validation Warnings: %d\n",
		summary.LineItems, summary.Orders, summary.ValidationWarnings)

	if len(summary.Dropped) > 0 {
		reasons := make([]string, 0, len(summary.Dropped))
		for r := range summary.Dropped {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		writer.WriteString("  Dropped Rows:\n")
		for _, r := range reasons {
			fmt.Fprintf(writer, "    %-20s%d\n", r+":", summary.Dropped[r])
		}
	}
	writer.WriteString("\n")

	if summary.ExportFile != "" {
		fmt.Fprintf(writer, "Export:\n  %s\n\n", summary.ExportFile)
	}

	writer.WriteString(rule + "End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, file.Close()
}

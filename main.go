// =============================================================================
// Points Calculator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Points Calculator CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   pointscalc calculate    - Compute points and profitability for an export
//   pointscalc inspect      - Check how the exports will be read
//   pointscalc version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Cobra command definitions
//   - internal/      : Ingestion, validation, calculation engine, reporting
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/points-calculator/cmd"
)

func main() {
	cmd.Execute()
}

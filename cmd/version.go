// =============================================================================
// Points Calculator - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   pointscalc version
//
// OUTPUT:
//   Points Calculator
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// These variables are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/points-calculator/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, and Go runtime version.`,

	// Skips configuration loading so a broken config.yaml never hides the version.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Points Calculator")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

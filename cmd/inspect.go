// =============================================================================
// Points Calculator - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which checks two exports before a
// calculation: which column each field was read from, what the validator
// found, and which order SKUs have no cost.
//
// COMMAND USAGE:
//   pointscalc inspect --orders FILE --costs FILE [--log FILE]
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/points-calculator/internal/diagnostics"
	"github.com/ginjaninja78/points-calculator/internal/engine"
	"github.com/ginjaninja78/points-calculator/internal/fields"
	"github.com/ginjaninja78/points-calculator/internal/ingest"
	"github.com/ginjaninja78/points-calculator/internal/pipeline"
	"github.com/ginjaninja78/points-calculator/internal/report"
	"github.com/ginjaninja78/points-calculator/internal/validation"
)

var issueLogPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Check how the exports will be read",
	Long: `The inspect command loads both exports and reports, without calculating
anything for display:

  - the format, sheet or delimiter each file was read with
  - the column each calculation field was found under
  - validation errors and warnings
  - order SKUs missing from the cost export, with the closest cost SKU

Validation errors are reported here instead of aborting.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&ordersPath, "orders", "", "VTEX order export (.xlsx, .xls or .csv)")
	inspectCmd.Flags().StringVar(&costsPath, "costs", "", "Product cost export (.xlsx, .xls or .csv)")
	inspectCmd.Flags().StringVar(&issueLogPath, "log", "", "Also write validation issues to this file")

	inspectCmd.MarkFlagRequired("orders")
	inspectCmd.MarkFlagRequired("costs")
}

func runInspect(cmd *cobra.Command) error {
	inputs, err := pipeline.Prepare(cmd.Context(), ordersPath, costsPath, appConfig.Input, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	describeDataset(out, inputs.Orders)
	if err := printColumns(out, fields.OrderFields, inputs.OrderValidation); err != nil {
		return err
	}
	describeDataset(out, inputs.Costs)
	if err := printColumns(out, fields.CostFields, inputs.CostValidation); err != nil {
		return err
	}

	issues := inputs.Issues()
	fmt.Fprintln(out, validation.FormatIssues(issues))

	if issueLogPath != "" {
		if err := validation.WriteIssueLog(issues, issueLogPath); err != nil {
			return err
		}
		logger.Info().Str("file", issueLogPath).Int("issues", len(issues)).Msg("Wrote issue log")
	}

	if err := inputs.Err(); err != nil {
		logger.Warn().Err(err).Msg("Skipping SKU matching")
		return nil
	}

	calc, err := engine.Compute(engine.Request{
		Orders: inputs.Orders.Records,
		Costs:  inputs.Costs.Records,
		Params: appConfig.Params(),
	})
	if err != nil {
		return err
	}

	r := report.NewRenderer(out, appConfig.Output.PageSize)
	if err := r.Drops(calc); err != nil {
		return err
	}
	costSKUs := engine.BuildCostIndex(inputs.Costs.Records).SKUs()
	return r.Suggestions(diagnostics.SuggestSKUs(calc.UnmatchedSKUs(), costSKUs))
}

func describeDataset(w io.Writer, ds *ingest.Dataset) {
	fmt.Fprintf(w, "%s (%s, %d linhas, %d colunas", filepath.Base(ds.Source), ds.Format, len(ds.Records), len(ds.Headers))
	switch {
	case ds.Sheet != "":
		fmt.Fprintf(w, ", aba %q", ds.Sheet)
	case ds.Delimiter != 0:
		fmt.Fprintf(w, ", separador %q, %s", ds.Delimiter, ds.Encoding)
	}
	fmt.Fprintln(w, ")")
}

func printColumns(w io.Writer, want []fields.Field, res *validation.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range want {
		label, ok := res.Resolved[f]
		if !ok {
			label = "(não encontrado)"
		}
		fmt.Fprintf(tw, "  %s\t%s\t\n", f, label)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

// =============================================================================
// Points Calculator - Calculate Command
// =============================================================================
//
// This file defines the 'calculate' command, the main command of the tool.
// It runs the pipeline over one order export and one cost export and prints
// the result.
//
// COMMAND USAGE:
//   pointscalc calculate --orders FILE --costs FILE [flags]
//
// FLAGS:
//   --multiplier  : Scenario to display (3, 6, 8 or 10)
//   --custom      : Evaluate only this multiplier instead of the standard set
//   --tax         : Simples Nacional tax, percent of sales
//   --discount    : Payment processor fee, percent of sales
//   --order       : Keep orders whose number contains this text
//   --start/--end : Keep orders dated within this range (YYYY-MM-DD)
//   --view        : summary, orders or skus
//   --page        : Page of the orders/skus listing
//   --detail      : Print one order with every scenario
//   --export      : Write the result to an .xlsx or .csv file
//   --explain     : List skipped rows and likely SKU mismatches
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/points-calculator/internal/diagnostics"
	"github.com/ginjaninja78/points-calculator/internal/engine"
	"github.com/ginjaninja78/points-calculator/internal/pipeline"
	"github.com/ginjaninja78/points-calculator/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	ordersPath string
	costsPath  string

	multiplier float64
	custom     float64
	tax        float64
	discount   float64

	orderFilter string
	startDate   string
	endDate     string

	viewName    string
	page        int
	detailOrder string
	exportPath  string
	explain     bool
)

// =============================================================================
// CALCULATE COMMAND DEFINITION
// =============================================================================

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Compute points and profitability for an order export",
	Long: `The calculate command joins the order export with the cost export by SKU,
evaluates every points scenario for each line item and order, and prints the
summary for the selected multiplier.

Order rows whose SKU has no cost, or whose sale or cost is not positive, are
left out of every total. Use --explain to see how many were skipped and the
closest cost SKU for each one without a match.

Parameters given as flags override the calculation section of the
configuration file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalculate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(calculateCmd)

	f := calculateCmd.Flags()
	f.StringVar(&ordersPath, "orders", "", "VTEX order export (.xlsx, .xls or .csv)")
	f.StringVar(&costsPath, "costs", "", "Product cost export (.xlsx, .xls or .csv)")

	f.Float64Var(&multiplier, "multiplier", engine.DefaultMultiplier, "Scenario multiplier to display")
	f.Float64Var(&custom, "custom", 0, "Evaluate only this custom multiplier")
	f.Float64Var(&tax, "tax", engine.DefaultSimplesTax, "Simples Nacional tax (% of sales)")
	f.Float64Var(&discount, "discount", engine.DefaultPaymentDiscount, "Payment processor fee (% of sales)")

	f.StringVar(&orderFilter, "order", "", "Keep orders whose number contains this text")
	f.StringVar(&startDate, "start", "", "Keep orders dated on or after this day (YYYY-MM-DD)")
	f.StringVar(&endDate, "end", "", "Keep orders dated on or before this day (YYYY-MM-DD)")

	f.StringVar(&viewName, "view", "summary", "Listing to print: summary, orders or skus")
	f.IntVar(&page, "page", 1, "Page of the listing to print")
	f.StringVar(&detailOrder, "detail", "", "Print every scenario of this order number")
	f.StringVar(&exportPath, "export", "", "Write the filtered result to an .xlsx or .csv file (or a directory)")
	f.BoolVar(&explain, "explain", false, "List skipped rows and SKU suggestions")

	calculateCmd.MarkFlagRequired("orders")
	calculateCmd.MarkFlagRequired("costs")
	calculateCmd.MarkFlagsMutuallyExclusive("multiplier", "custom")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runCalculate(cmd *cobra.Command) error {
	view, err := report.ParseView(viewName)
	if err != nil {
		return err
	}

	params := calculationParams(cmd)
	filter, err := buildFilter()
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cmd.Context(), pipeline.Options{
		OrdersPath: ordersPath,
		CostsPath:  costsPath,
		Config:     appConfig,
		Params:     params,
		Filter:     filter,
		ExportPath: exportPath,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	calc := res.Calculation
	out := report.NewRenderer(cmd.OutOrStdout(), appConfig.Output.PageSize)

	if detailOrder != "" {
		order, err := calc.Order(detailOrder)
		if err != nil {
			return err
		}
		return out.Detail(order, calc.Selected)
	}

	if err := out.Render(calc, filter, view, page); err != nil {
		return err
	}

	if explain {
		if err := out.Drops(calc); err != nil {
			return err
		}
		costSKUs := engine.BuildCostIndex(res.Costs.Records).SKUs()
		if err := out.Suggestions(diagnostics.SuggestSKUs(calc.UnmatchedSKUs(), costSKUs)); err != nil {
			return err
		}
	} else if len(calc.Dropped) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d linha(s) ignorada(s); use --explain para detalhes.\n", len(calc.Dropped))
	}

	if res.ExportFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exportado para %s\n", res.ExportFile)
	}

	return nil
}

// calculationParams merges the configured parameters with the flags the
// user actually set.
func calculationParams(cmd *cobra.Command) engine.Params {
	params := appConfig.Params()
	flags := cmd.Flags()

	if flags.Changed("tax") {
		params.SimplesTax = tax
	}
	if flags.Changed("discount") {
		params.PaymentDiscount = discount
	}
	if flags.Changed("multiplier") {
		params.Mode = engine.ModeStandard
		params.SelectedMultiplier = multiplier
	}
	if flags.Changed("custom") {
		params.Mode = engine.ModeCustom
		params.CustomMultiplier = custom
	}

	return params
}

func buildFilter() (engine.Filter, error) {
	filter := engine.Filter{OrderSubstring: orderFilter}

	if startDate != "" {
		t, err := engine.ParseDate(startDate)
		if err != nil {
			return filter, fmt.Errorf("invalid --start date %q: expected YYYY-MM-DD", startDate)
		}
		filter.Start = t
	}
	if endDate != "" {
		t, err := engine.ParseDate(endDate)
		if err != nil {
			return filter, fmt.Errorf("invalid --end date %q: expected YYYY-MM-DD", endDate)
		}
		filter.End = t
	}

	return filter, filter.Validate()
}

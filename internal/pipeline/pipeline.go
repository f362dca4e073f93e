// =============================================================================
// Points Calculator - Pipeline Module
// =============================================================================
//
// This module orchestrates one calculation run, from the two uploaded files
// to the computed result and its optional export.
//
// PIPELINE:
//   1. Load the order export and the cost export
//   2. Validate both datasets
//   3. Compute line items, orders, scenarios and the summary
//   4. Export the filtered result (optional)
//   5. Write the run summary (optional)
//
// The engine itself is pure. Every log line and file written during a run
// comes from this module.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/points-calculator/internal/config"
	"github.com/ginjaninja78/points-calculator/internal/engine"
	"github.com/ginjaninja78/points-calculator/internal/exporter"
	"github.com/ginjaninja78/points-calculator/internal/ingest"
	"github.com/ginjaninja78/points-calculator/internal/report"
	"github.com/ginjaninja78/points-calculator/internal/validation"
	"github.com/ginjaninja78/points-calculator/pkg/utils"
)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options configures a run.
type Options struct {
	OrdersPath string
	CostsPath  string

	// Config supplies input decoding and output settings. Nil means defaults.
	Config *config.Config

	// Params are the calculation parameters, already merged with flags.
	Params engine.Params

	Filter engine.Filter

	// ExportPath is the .xlsx or .csv file to write. A path ending in a
	// separator, or an existing directory, gets a generated file name.
	// Empty disables the export.
	ExportPath string

	Logger zerolog.Logger
}

// Result represents the outcome of one run.
type Result struct {
	RunID string

	Orders *ingest.Dataset
	Costs  *ingest.Dataset

	OrderValidation *validation.Result
	CostValidation  *validation.Result

	Calculation *engine.Result

	// ExportFile is empty when nothing was exported.
	ExportFile string

	// SummaryFile is empty unless the run summary was written.
	SummaryFile string

	Stats Stats
}

// Stats contains statistics about the run.
type Stats struct {
	OrderRows int
	CostRows  int

	// LineItems is the number of order rows that joined a usable cost.
	LineItems int

	Orders int

	Dropped map[engine.DropReason]int

	ValidationWarnings int

	ProcessingTime time.Duration
}

// Inputs are the loaded and validated datasets of a run.
type Inputs struct {
	Orders *ingest.Dataset
	Costs  *ingest.Dataset

	OrderValidation *validation.Result
	CostValidation  *validation.Result
}

// Issues returns the validation issues of both datasets, orders first.
func (in *Inputs) Issues() []*validation.Issue {
	var issues []*validation.Issue
	issues = append(issues, in.OrderValidation.Issues...)
	return append(issues, in.CostValidation.Issues...)
}

// Err returns the first fatal validation error, or nil.
func (in *Inputs) Err() error {
	if err := in.OrderValidation.Err(); err != nil {
		return err
	}
	return in.CostValidation.Err()
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the calculation pipeline.
func Run(ctx context.Context, opts Options) (*Result, error) {
	startTime := time.Now()
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger

	result := &Result{RunID: uuid.New().String()}
	log = log.With().Str("run_id", result.RunID).Logger()

	// =========================================================================
	// STEP 1 AND 2: LOAD AND VALIDATE
	// =========================================================================

	inputs, err := Prepare(ctx, opts.OrdersPath, opts.CostsPath, cfg.Input, log)
	if err != nil {
		return nil, err
	}
	result.Orders = inputs.Orders
	result.Costs = inputs.Costs
	result.OrderValidation = inputs.OrderValidation
	result.CostValidation = inputs.CostValidation
	result.Stats.OrderRows = len(inputs.Orders.Records)
	result.Stats.CostRows = len(inputs.Costs.Records)
	result.Stats.ValidationWarnings = inputs.OrderValidation.WarningCount + inputs.CostValidation.WarningCount

	for _, issue := range inputs.Issues() {
		if issue.Severity == validation.SeverityWarning {
			log.Warn().Str("dataset", string(issue.Dataset)).Int("row", issue.Row).
				Str("field", string(issue.Field)).Msg(issue.Message)
		}
	}
	if err := inputs.Err(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 3: COMPUTE
	// =========================================================================

	calc, err := engine.Compute(engine.Request{
		Orders: inputs.Orders.Records,
		Costs:  inputs.Costs.Records,
		Params: opts.Params,
		Filter: opts.Filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute: %w", err)
	}
	result.Calculation = calc
	result.Stats.LineItems = len(calc.Items)
	result.Stats.Orders = len(calc.Orders)
	result.Stats.Dropped = calc.DropCounts()

	event := log.Info().
		Int("line_items", len(calc.Items)).
		Int("orders", len(calc.Orders)).
		Int("filtered_orders", len(calc.Filtered)).
		Float64("multiplier", calc.Selected)
	for reason, n := range result.Stats.Dropped {
		event = event.Int("dropped_"+string(reason), n)
	}
	event.Msg("Computed results")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: EXPORT
	// =========================================================================

	if opts.ExportPath != "" {
		path := resolveExportPath(opts.ExportPath, cfg.Output)
		if err := exporter.Export(path, calc, calc.Selected, cfg.Input.Encoding); err != nil {
			return nil, fmt.Errorf("failed to export: %w", err)
		}
		result.ExportFile = path
		log.Info().Str("file", path).Msg("Wrote export")
	}

	result.Stats.ProcessingTime = time.Since(startTime)

	// =========================================================================
	// STEP 5: RUN SUMMARY
	// =========================================================================

	if cfg.Output.WriteSummary {
		dir := cfg.Output.OutputDir
		if result.ExportFile != "" {
			dir = filepath.Dir(result.ExportFile)
		}
		summaryPath, err := utils.WriteSummaryLog(result.summary(startTime, opts.Params), dir)
		if err != nil {
			// The calculation itself succeeded.
			log.Warn().Err(err).Msg("Failed to write run summary")
		} else {
			result.SummaryFile = summaryPath
			log.Debug().Str("file", summaryPath).Msg("Wrote run summary")
		}
	}

	return result, nil
}

// Prepare loads and validates both datasets. Validation errors are left in
// the returned Inputs for the caller to act on; only load failures and
// empty datasets are returned as errors.
func Prepare(ctx context.Context, ordersPath, costsPath string, settings config.InputConfig, log zerolog.Logger) (*Inputs, error) {
	if ordersPath == "" || costsPath == "" {
		return nil, engine.ErrMissingDataset
	}

	orders, err := load(ctx, ordersPath, settings, log)
	if err != nil {
		return nil, err
	}
	costs, err := load(ctx, costsPath, settings, log)
	if err != nil {
		return nil, err
	}

	if len(orders.Records) == 0 || len(costs.Records) == 0 {
		return nil, fmt.Errorf("%w (orders: %d rows, costs: %d rows)",
			engine.ErrMissingDataset, len(orders.Records), len(costs.Records))
	}

	inputs := &Inputs{
		Orders:          orders,
		Costs:           costs,
		OrderValidation: validation.ValidateOrders(orders.Records),
		CostValidation:  validation.ValidateCosts(costs.Records),
	}
	log.Debug().
		Int("order_issues", len(inputs.OrderValidation.Issues)).
		Int("cost_issues", len(inputs.CostValidation.Issues)).
		Msg("Validated datasets")

	return inputs, nil
}

func load(ctx context.Context, path string, settings config.InputConfig, log zerolog.Logger) (*ingest.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := ingest.Load(path, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	event := log.Info().
		Str("file", filepath.Base(path)).
		Str("format", string(ds.Format)).
		Int("rows", len(ds.Records)).
		Int("columns", len(ds.Headers))
	if ds.Sheet != "" {
		event = event.Str("sheet", ds.Sheet)
	}
	if ds.Delimiter != 0 {
		event = event.Str("delimiter", string(ds.Delimiter))
	}
	event.Msg("Loaded dataset")

	return ds, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveExportPath turns a directory into a generated file name inside it.
// A bare file name is placed in the configured output directory.
func resolveExportPath(path string, out config.OutputConfig) string {
	isDir := strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator))
	if !isDir {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			isDir = true
		}
	}
	if isDir {
		return filepath.Join(path, utils.GenerateOutputFileName(out.FileNameFormat, map[string]string{"type": "calculo"}))
	}
	if filepath.Dir(path) == "." && !strings.HasPrefix(path, ".") {
		return filepath.Join(out.OutputDir, path)
	}
	return path
}

func (r *Result) summary(start time.Time, params engine.Params) utils.RunSummary {
	dropped := make(map[string]int, len(r.Stats.Dropped))
	for reason, n := range r.Stats.Dropped {
		dropped[string(reason)] = n
	}

	return utils.RunSummary{
		RunID:              r.RunID,
		StartTime:          start,
		EndTime:            start.Add(r.Stats.ProcessingTime),
		OrdersFile:         r.Orders.Source,
		CostsFile:          r.Costs.Source,
		ExportFile:         r.ExportFile,
		OrderRows:          r.Stats.OrderRows,
		CostRows:           r.Stats.CostRows,
		LineItems:          r.Stats.LineItems,
		Orders:             r.Stats.Orders,
		Dropped:            dropped,
		ValidationWarnings: r.Stats.ValidationWarnings,
		Parameters: [][2]string{
			{"Mode", string(params.Mode)},
			{"Multiplier", report.Multiplier(params.Selected())},
			{"Simples Tax", report.Percent(params.SimplesTax)},
			{"Payment Fee", report.Percent(params.PaymentDiscount)},
		},
	}
}

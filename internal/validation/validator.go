// =============================================================================
// Points Calculator - Dataset Validation
// =============================================================================
//
// This module checks an uploaded order export or cost export before any
// calculation runs. It answers two questions:
//   1. Can every field the calculator needs be found under one of its
//      accepted labels?
//   2. Are there rows that will silently be ignored or merged?
//
// ERROR HANDLING:
//   - Issues are collected, not returned one by one
//   - "error" issues mean the calculation cannot produce meaningful results
//   - "warning" issues mean results are produced but some input is unused
//     or defaulted
//
// =============================================================================

package validation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/points-calculator/internal/fields"
	"github.com/ginjaninja78/points-calculator/internal/types"
)

// ErrInvalidDataset is returned by callers that refuse to compute on a
// dataset with error issues.
var ErrInvalidDataset = errors.New("invalid dataset")

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Severity of an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a single validation finding.
type Issue struct {
	Severity Severity

	// Dataset is the dataset the issue was found in.
	Dataset types.Dataset

	// Field is the canonical field concerned, if any.
	Field fields.Field

	// Row is the 1-based data row, or 0 for dataset-level issues.
	Row int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(string(i.Severity)), i.Dataset)
	if i.Row > 0 {
		fmt.Fprintf(&b, " row %d", i.Row)
	}
	if i.Field != "" {
		fmt.Fprintf(&b, ", field '%s'", i.Field)
	}
	fmt.Fprintf(&b, ": %s", i.Message)
	return b.String()
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the results of validating one dataset.
type Result struct {
	Dataset types.Dataset

	// Issues contains all issues, errors first in discovery order.
	Issues []*Issue

	// Resolved maps each canonical field to the label it was found under.
	Resolved map[fields.Field]string

	ErrorCount   int
	WarningCount int

	// RowsValidated is the number of records inspected.
	RowsValidated int
}

// IsValid is true if there are no error issues.
func (r *Result) IsValid() bool {
	return r.ErrorCount == 0
}

// Err returns ErrInvalidDataset wrapped with the first error issue, or nil.
func (r *Result) Err() error {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return fmt.Errorf("%w: %s", ErrInvalidDataset, issue.Error())
		}
	}
	return nil
}

func (r *Result) add(severity Severity, field fields.Field, row int, format string, args ...any) {
	r.Issues = append(r.Issues, &Issue{
		Severity: severity,
		Dataset:  r.Dataset,
		Field:    field,
		Row:      row,
		Message:  fmt.Sprintf(format, args...),
	})
	if severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// DATASET RULES
// =============================================================================

// columnRule describes what happens when a field has no column.
type columnRule struct {
	field    fields.Field
	severity Severity
	effect   string
}

var orderRules = []columnRule{
	{fields.Order, SeverityError, "items cannot be grouped into orders"},
	{fields.ReferenceCode, SeverityError, "items cannot be matched to costs"},
	{fields.SKUSellingPrice, SeverityError, "every item has no sale value and is dropped"},
	{fields.QuantitySKU, SeverityWarning, "every item counts as quantity 1"},
	{fields.ShippingValue, SeverityWarning, "shipping is treated as charged to the customer"},
	{fields.ShippingListPrice, SeverityWarning, "free shipping costs nothing"},
	{fields.SKUTotalPrice, SeverityWarning, "SKU total price is 0"},
	{fields.TotalValue, SeverityWarning, "order real value and average ticket are 0"},
	{fields.CreationDate, SeverityWarning, "date filters exclude every order"},
	{fields.SKUName, SeverityWarning, "product names are blank"},
}

var costRules = []columnRule{
	{fields.SKU, SeverityError, "costs cannot be matched to items"},
	{fields.CustoProduto, SeverityError, "every cost is 0 and every item is dropped"},
}

// =============================================================================
// VALIDATORS
// =============================================================================

// ValidateOrders checks an order export.
func ValidateOrders(records []types.RawRecord) *Result {
	r := validateColumns(types.DatasetOrders, records, orderRules)
	if len(records) == 0 {
		return r
	}

	if _, ok := r.Resolved[fields.Order]; ok {
		for i, record := range records {
			if fields.Text(record, fields.Order) == "" {
				r.add(SeverityWarning, fields.Order, i+1, "no order number, the item is grouped under a blank order")
			}
		}
	}

	return r
}

// ValidateCosts checks a cost export.
func ValidateCosts(records []types.RawRecord) *Result {
	r := validateColumns(types.DatasetCosts, records, costRules)
	if len(records) == 0 {
		return r
	}

	if _, ok := r.Resolved[fields.SKU]; ok {
		firstRow := make(map[string]int, len(records))
		for i, record := range records {
			sku := fields.Text(record, fields.SKU)
			if sku == "" {
				r.add(SeverityWarning, fields.SKU, i+1, "no SKU, the cost is ignored")
				continue
			}
			if first, dup := firstRow[sku]; dup {
				r.add(SeverityWarning, fields.SKU, i+1, "SKU %q repeats row %d, the first cost is used", sku, first)
				continue
			}
			firstRow[sku] = i + 1
		}
	}

	return r
}

func validateColumns(dataset types.Dataset, records []types.RawRecord, rules []columnRule) *Result {
	r := &Result{
		Dataset:       dataset,
		Resolved:      make(map[fields.Field]string),
		RowsValidated: len(records),
	}

	if len(records) == 0 {
		r.add(SeverityError, "", 0, "dataset has no rows")
		return r
	}

	columns := types.Columns(records)
	for _, rule := range rules {
		label, ok := fields.HasColumn(columns, rule.field)
		if ok {
			r.Resolved[rule.field] = label
			continue
		}
		r.add(rule.severity, rule.field, 0, "no column named %s: %s",
			strings.Join(quoteAll(fields.Aliases(rule.field)), ", "), rule.effect)
	}

	return r
}

func quoteAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = fmt.Sprintf("%q", l)
	}
	return out
}

// =============================================================================
// ISSUE FORMATTING
// =============================================================================

// FormatIssues formats issues for display or logging.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation found %d issue(s):\n\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}

// WriteIssueLog writes issues to a log file, replacing any existing file.
func WriteIssueLog(issues []*Issue, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create issue log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Validation log - %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatIssues(issues))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write issue log: %w", err)
	}
	return file.Close()
}

// =============================================================================
// Points Calculator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (producers)
//   - fields, validation, engine (consumers)
//
// =============================================================================

package types

import "sort"

// =============================================================================
// RAW RECORDS
// =============================================================================

// RawRecord is one data row of an uploaded dataset, keyed by column label.
//
// Values are strings, native numbers (float64, int, int64) or nil. Labels are
// trimmed of surrounding whitespace by the decoder that produced the record;
// nothing downstream normalizes them further.
//
// A RawRecord is never mutated after it has been decoded.
type RawRecord map[string]any

// Dataset identifies which of the two uploads a record set came from.
type Dataset string

const (
	// DatasetOrders is the VTEX order/line-item export.
	DatasetOrders Dataset = "orders"

	// DatasetCosts is the product-cost export.
	DatasetCosts Dataset = "costs"
)

// Columns returns the distinct column labels seen across records, sorted.
// Records decoded from the same file share a label set, so in practice this
// is the header row.
func Columns(records []RawRecord) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, record := range records {
		for label := range record {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}
	sort.Strings(labels)
	return labels
}

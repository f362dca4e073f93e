package engine

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/points-calculator/internal/fields"
	"github.com/ginjaninja78/points-calculator/internal/types"
)

var (
	// ErrMissingDataset is returned when either upload is empty.
	ErrMissingDataset = errors.New("both the order export and the cost export must be loaded")

	// ErrInvalidParameters wraps every parameter or filter rejection.
	ErrInvalidParameters = errors.New("invalid calculation parameters")
)

// Request carries everything one recalculation needs. The engine keeps no
// state between requests.
type Request struct {
	Orders []types.RawRecord
	Costs  []types.RawRecord
	Params Params
	Filter Filter
}

// Result is the complete output of one recalculation.
type Result struct {
	// Items are the surviving line items in source row order.
	Items []LineItem

	// Orders are all order summaries, in order of first appearance.
	Orders []OrderSummary

	// Filtered are the orders matching the request filter (all orders when
	// the filter is inactive).
	Filtered []OrderSummary

	// Summary covers the filtered scope when the filter is active.
	Summary Summary

	// Selected is the multiplier the summary was projected with.
	Selected float64

	// Multipliers are the scenarios evaluated for every item and order.
	Multipliers []float64

	// Dropped lists the order rows that produced no line item.
	Dropped []Drop

	// CostSKUs is the number of distinct SKUs in the cost export.
	CostSKUs int
}

// Compute runs the full join-and-aggregate pass for req.
func Compute(req Request) (*Result, error) {
	if len(req.Orders) == 0 || len(req.Costs) == 0 {
		return nil, ErrMissingDataset
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	calc := NewCalculator(req.Params)
	costs := BuildCostIndex(req.Costs)

	result := &Result{
		Selected:    req.Params.Selected(),
		Multipliers: req.Params.Multipliers(),
		CostSKUs:    costs.Len(),
	}

	for i, record := range req.Orders {
		item, reason, ok := calc.LineItem(record, i+1, costs)
		if !ok {
			result.Dropped = append(result.Dropped, Drop{
				SourceRow:   i + 1,
				OrderNumber: fields.Text(record, fields.Order),
				SKU:         fields.Text(record, fields.ReferenceCode),
				Reason:      reason,
			})
			continue
		}
		result.Items = append(result.Items, item)
	}

	result.Orders = Aggregate(result.Items, calc)
	result.Filtered = FilterOrders(result.Orders, req.Filter)
	result.Summary = Project(result.Items, result.Orders, req.Filter, result.Selected)

	return result, nil
}

// DropCounts tallies dropped rows per reason.
func (r *Result) DropCounts() map[DropReason]int {
	counts := make(map[DropReason]int)
	for _, d := range r.Dropped {
		counts[d.Reason]++
	}
	return counts
}

// UnmatchedSKUs returns the distinct SKUs of rows dropped for lack of a cost
// record, in order of first appearance. Rows without a SKU are left out.
func (r *Result) UnmatchedSKUs() []string {
	seen := make(map[string]bool)
	var skus []string
	for _, d := range r.Dropped {
		if d.Reason != DropMissingCost || d.SKU == "" || seen[d.SKU] {
			continue
		}
		seen[d.SKU] = true
		skus = append(skus, d.SKU)
	}
	return skus
}

// FilteredItems returns the line items belonging to the filtered orders,
// in source row order.
func (r *Result) FilteredItems() []LineItem {
	if len(r.Filtered) == len(r.Orders) {
		return r.Items
	}
	allowed := make(map[string]bool, len(r.Filtered))
	for _, o := range r.Filtered {
		allowed[o.OrderNumber] = true
	}
	items := make([]LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		if allowed[item.OrderNumber] {
			items = append(items, item)
		}
	}
	return items
}

// Order returns the summary for an order number.
func (r *Result) Order(number string) (OrderSummary, error) {
	for _, o := range r.Orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return OrderSummary{}, fmt.Errorf("order %q not found", number)
}

// =============================================================================
// Points Calculator - Calculation Engine Types
// =============================================================================
//
// The engine joins the order export with the cost export, computes per line
// item and per order profitability under one or more points-multiplier
// scenarios, and projects filtered totals for display.
//
// DATA FLOW:
//   RawRecord (orders) --+
//                        +--> LineItem --> OrderSummary --> Filter --> Summary
//   RawRecord (costs) ---+ (CostIndex)
//
// Every call to Compute starts from the raw records; nothing is cached or
// carried over between calls.
//
// =============================================================================

package engine

import "math"

// =============================================================================
// CONSTANTS
// =============================================================================

// PointUnitCost is the currency cost of one loyalty point.
const PointUnitCost = 0.0449

// Parameter defaults.
const (
	DefaultSimplesTax      = 8.08
	DefaultPaymentDiscount = 7.0
	DefaultMultiplier      = 3.0
)

// StandardMultipliers is the fixed scenario set evaluated in standard mode.
var StandardMultipliers = []float64{3, 6, 8, 10}

// =============================================================================
// SCENARIO CALCULATION
// =============================================================================

// Calculation holds the figures of one multiplier scenario for a line item
// or an order.
type Calculation struct {
	Multiplier     float64
	TotalPoints    float64
	PointsCost     float64
	GrossProfit    float64
	TaxAmount      float64
	DiscountAmount float64
	ShippingCost   float64
	NetProfit      float64

	// ProfitMargin is a percentage of sales. NaN when sales are zero.
	ProfitMargin float64
}

// calculate evaluates the scenario formulas for one multiplier.
//
//	totalPoints = sales × multiplier
//	pointsCost  = totalPoints × PointUnitCost
//	tax         = sales × taxRate / 100
//	discount    = sales × discountRate / 100
//	netProfit   = gross − pointsCost − tax − discount − shipping
//	margin      = netProfit / sales × 100
func calculate(multiplier, sales, gross, shipping, taxRate, discountRate float64) Calculation {
	points := sales * multiplier
	pointsCost := points * PointUnitCost
	tax := sales * taxRate / 100
	discount := sales * discountRate / 100
	net := gross - pointsCost - tax - discount - shipping

	margin := math.NaN()
	if sales != 0 {
		margin = net / sales * 100
	}

	return Calculation{
		Multiplier:     multiplier,
		TotalPoints:    points,
		PointsCost:     pointsCost,
		GrossProfit:    gross,
		TaxAmount:      tax,
		DiscountAmount: discount,
		ShippingCost:   shipping,
		NetProfit:      net,
		ProfitMargin:   margin,
	}
}

// selectScenario returns the calculation for multiplier, or the first one
// when no scenario uses that multiplier.
func selectScenario(scenarios []Calculation, multiplier float64) Calculation {
	for _, c := range scenarios {
		if c.Multiplier == multiplier {
			return c
		}
	}
	if len(scenarios) == 0 {
		return Calculation{}
	}
	return scenarios[0]
}

// =============================================================================
// LINE ITEMS AND ORDERS
// =============================================================================

// LineItem is one order row that matched a cost record and passed the
// validity gate (sale and cost both positive).
type LineItem struct {
	OrderNumber string
	SKU         string
	ProductName string
	Quantity    float64

	UnitSaleValue float64
	SaleValue     float64
	UnitCostValue float64
	CostValue     float64

	// ShippingValue is what the customer paid for shipping on the order.
	ShippingValue     float64
	ShippingListPrice float64

	// ShippingCost is the list price standing in for waived shipping: it is
	// ShippingListPrice when ShippingValue is exactly zero, otherwise zero.
	ShippingCost float64

	SKUTotalPrice float64

	// OrderDate is the calendar date (YYYY-MM-DD) of the order, or "".
	OrderDate string

	// OrderRealValue is the order total declared by the export. It only
	// feeds the average ticket; profit math never uses it.
	OrderRealValue float64

	// SourceRow is the 1-based data row of the order export.
	SourceRow int

	Scenarios []Calculation
}

// Scenario returns the calculation for multiplier, falling back to the
// first scenario.
func (li LineItem) Scenario(multiplier float64) Calculation {
	return selectScenario(li.Scenarios, multiplier)
}

// OrderSummary groups the line items sharing an order number.
type OrderSummary struct {
	OrderNumber string
	OrderDate   string

	// Items are in source row order.
	Items []LineItem

	TotalSales        float64
	TotalCosts        float64
	TotalQuantity     float64
	TotalShippingCost float64
	TotalSKUPrice     float64

	// OrderRealValue is taken from the last item folded into the order.
	OrderRealValue float64

	// Scenarios are computed from the order totals, not summed from items.
	Scenarios []Calculation
}

// Scenario returns the calculation for multiplier, falling back to the
// first scenario.
func (o OrderSummary) Scenario(multiplier float64) Calculation {
	return selectScenario(o.Scenarios, multiplier)
}

// =============================================================================
// DROPPED ROWS
// =============================================================================

// DropReason explains why an order row produced no line item.
type DropReason string

const (
	DropMissingCost      DropReason = "missing_cost"
	DropNegativeQuantity DropReason = "negative_quantity"
	DropNonPositiveSale  DropReason = "non_positive_sale"
	DropNonPositiveCost  DropReason = "non_positive_cost"
)

// Drop records an order row excluded from the results.
type Drop struct {
	SourceRow   int
	OrderNumber string
	SKU         string
	Reason      DropReason
}

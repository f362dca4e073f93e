package engine

import (
	"github.com/ginjaninja78/points-calculator/internal/fields"
	"github.com/ginjaninja78/points-calculator/internal/types"
)

// Calculator evaluates scenarios for line items and orders under one set of
// parameters. Standard and custom modes share the same formulas and differ
// only in the multiplier list.
type Calculator struct {
	multipliers  []float64
	taxRate      float64
	discountRate float64
}

// NewCalculator builds a Calculator for p. p should already be validated.
func NewCalculator(p Params) *Calculator {
	return &Calculator{
		multipliers:  p.Multipliers(),
		taxRate:      p.SimplesTax,
		discountRate: p.PaymentDiscount,
	}
}

// Scenarios evaluates every multiplier for the given sales base.
func (c *Calculator) Scenarios(sales, grossProfit, shippingCost float64) []Calculation {
	out := make([]Calculation, len(c.multipliers))
	for i, m := range c.multipliers {
		out[i] = calculate(m, sales, grossProfit, shippingCost, c.taxRate, c.discountRate)
	}
	return out
}

// LineItem builds the line item for one order row. row is the 1-based data
// row used for diagnostics.
//
// ok is false, with the reason set, when the row's SKU has no cost record,
// when its quantity is negative or when the line sale or line cost is not
// positive.
func (c *Calculator) LineItem(record types.RawRecord, row int, costs *CostIndex) (item LineItem, reason DropReason, ok bool) {
	orderNumber := fields.Text(record, fields.Order)
	sku := fields.Text(record, fields.ReferenceCode)

	shippingValue := fields.Amount(record, fields.ShippingValue)
	shippingListPrice := fields.Amount(record, fields.ShippingListPrice)
	shippingCost := 0.0
	if shippingValue == 0 {
		shippingCost = shippingListPrice
	}

	unitSale := fields.Amount(record, fields.SKUSellingPrice)
	quantity := fields.AmountOr(record, fields.QuantitySKU, 1)

	costRecord, found := costs.Lookup(sku)
	if !found {
		return LineItem{}, DropMissingCost, false
	}
	unitCost := fields.Amount(costRecord, fields.CustoProduto)
	if quantity < 0 {
		return LineItem{}, DropNegativeQuantity, false
	}

	saleValue := unitSale * quantity
	costValue := unitCost * quantity
	if saleValue <= 0 {
		return LineItem{}, DropNonPositiveSale, false
	}
	if costValue <= 0 {
		return LineItem{}, DropNonPositiveCost, false
	}

	creation, _ := fields.Resolve(record, fields.CreationDate)

	item = LineItem{
		OrderNumber:       orderNumber,
		SKU:               sku,
		ProductName:       fields.Text(record, fields.SKUName),
		Quantity:          quantity,
		UnitSaleValue:     unitSale,
		SaleValue:         saleValue,
		UnitCostValue:     unitCost,
		CostValue:         costValue,
		ShippingValue:     shippingValue,
		ShippingListPrice: shippingListPrice,
		ShippingCost:      shippingCost,
		SKUTotalPrice:     fields.Amount(record, fields.SKUTotalPrice),
		OrderDate:         fields.DatePart(creation),
		OrderRealValue:    fields.Amount(record, fields.TotalValue),
		SourceRow:         row,
	}
	item.Scenarios = c.Scenarios(saleValue, (unitSale-unitCost)*quantity, shippingCost)

	return item, "", true
}

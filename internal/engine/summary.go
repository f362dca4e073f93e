package engine

// Summary holds the grand totals shown above the order and SKU views.
type Summary struct {
	TotalSales        float64
	TotalCosts        float64
	TotalPointsCost   float64
	TotalNetProfit    float64
	TotalPoints       float64
	TotalShippingCost float64
	TotalSKUPrice     float64

	// TotalRealValue sums the declared value of each distinct order once.
	TotalRealValue float64

	// TotalOrders counts distinct order numbers in scope.
	TotalOrders int

	// TotalLineItems counts line items in scope. Exports label it "SKUs",
	// but the same SKU on two orders counts twice.
	TotalLineItems int
}

// AverageTicket is TotalRealValue per order, or 0 with no orders.
func (s Summary) AverageTicket() float64 {
	if s.TotalOrders == 0 {
		return 0
	}
	return s.TotalRealValue / float64(s.TotalOrders)
}

// Project computes the summary over items, using the selected multiplier's
// scenario of each item (or its first scenario when none matches).
//
// With an active filter only items whose order passes the filter count.
// The declared order value comes from the order summary when orders
// contains it, otherwise from the order's first item in scope.
func Project(items []LineItem, orders []OrderSummary, f Filter, selected float64) Summary {
	byNumber := OrdersByNumber(orders)

	var allowed map[string]bool
	if f.Active() {
		allowed = make(map[string]bool)
		for _, o := range FilterOrders(orders, f) {
			allowed[o.OrderNumber] = true
		}
	}

	var s Summary
	seen := make(map[string]bool)
	for _, item := range items {
		if allowed != nil && !allowed[item.OrderNumber] {
			continue
		}

		calc := item.Scenario(selected)
		s.TotalSales += item.SaleValue
		s.TotalCosts += item.CostValue
		s.TotalPointsCost += calc.PointsCost
		s.TotalNetProfit += calc.NetProfit
		s.TotalPoints += calc.TotalPoints
		s.TotalShippingCost += calc.ShippingCost
		s.TotalSKUPrice += item.SKUTotalPrice
		s.TotalLineItems++

		if seen[item.OrderNumber] {
			continue
		}
		seen[item.OrderNumber] = true
		s.TotalOrders++
		if o, ok := byNumber[item.OrderNumber]; ok {
			s.TotalRealValue += o.OrderRealValue
		} else {
			s.TotalRealValue += item.OrderRealValue
		}
	}

	return s
}

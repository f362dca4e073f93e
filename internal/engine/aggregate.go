package engine

// Aggregate folds line items into one OrderSummary per order number.
//
// Orders are returned in the order their first item appears; items keep
// source order within an order. The order date is the first item's, the
// order real value the last item's. Totals are plain sums and the scenarios
// are recomputed from those totals.
func Aggregate(items []LineItem, c *Calculator) []OrderSummary {
	index := make(map[string]int)
	var orders []OrderSummary

	for _, item := range items {
		i, seen := index[item.OrderNumber]
		if !seen {
			i = len(orders)
			index[item.OrderNumber] = i
			orders = append(orders, OrderSummary{
				OrderNumber: item.OrderNumber,
				OrderDate:   item.OrderDate,
			})
		}

		o := &orders[i]
		o.Items = append(o.Items, item)
		o.TotalSales += item.SaleValue
		o.TotalCosts += item.CostValue
		o.TotalQuantity += item.Quantity
		o.TotalShippingCost += item.ShippingCost
		o.TotalSKUPrice += item.SKUTotalPrice
		o.OrderRealValue = item.OrderRealValue
	}

	for i := range orders {
		o := &orders[i]
		o.Scenarios = c.Scenarios(o.TotalSales, o.TotalSales-o.TotalCosts, o.TotalShippingCost)
	}

	return orders
}

// OrdersByNumber indexes orders by order number.
func OrdersByNumber(orders []OrderSummary) map[string]*OrderSummary {
	m := make(map[string]*OrderSummary, len(orders))
	for i := range orders {
		m[orders[i].OrderNumber] = &orders[i]
	}
	return m
}

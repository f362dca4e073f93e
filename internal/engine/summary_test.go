package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/points-calculator/internal/types"
)

func summaryFixture(t *testing.T) *Result {
	t.Helper()

	rows := []types.RawRecord{
		orderRow("1001", "A", "100", "1"),
		orderRow("1001", "B", "50", "2"),
		orderRow("2001", "A", "100", "1"),
		orderRow("1002", "B", "50", "1"),
	}
	dates := []string{"2024-01-05T09:00:00", "2024-01-05T09:00:00", "2024-02-10T12:00:00", "2024-03-01T08:30:00"}
	totals := []string{"220,00", "220,00", "105,00", "55,00"}
	for i := range rows {
		rows[i]["Creation Date"] = dates[i]
		rows[i]["Total Value"] = totals[i]
		rows[i]["SKU Total Price"] = "1,00"
	}

	res, err := Compute(Request{
		Orders: rows,
		Costs:  []types.RawRecord{costRow("A", "60"), costRow("B", "30")},
		Params: scenarioParams(),
	})
	require.NoError(t, err)
	return res
}

func TestProjectUnfiltered(t *testing.T) {
	res := summaryFixture(t)
	s := res.Summary

	assert.InDelta(t, 100+100+100+50, s.TotalSales, 1e-9)
	assert.InDelta(t, 60+60+60+30, s.TotalCosts, 1e-9)
	assert.InDelta(t, 350*3, s.TotalPoints, 1e-9)
	assert.InDelta(t, 350*3*PointUnitCost, s.TotalPointsCost, 1e-9)
	assert.InDelta(t, 4, s.TotalSKUPrice, 1e-9)
	assert.InDelta(t, 220+105+55, s.TotalRealValue, 1e-9)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 4, s.TotalLineItems)
	assert.InDelta(t, 380.0/3, s.AverageTicket(), 1e-9)

	var net float64
	for _, item := range res.Items {
		net += item.Scenario(3).NetProfit
	}
	assert.InDelta(t, net, s.TotalNetProfit, 1e-9)
}

func TestProjectFiltered(t *testing.T) {
	res := summaryFixture(t)

	s := Project(res.Items, res.Orders, Filter{OrderSubstring: "100"}, 3)
	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, 3, s.TotalLineItems)
	assert.InDelta(t, 250, s.TotalSales, 1e-9)
	assert.InDelta(t, 220+55, s.TotalRealValue, 1e-9)

	s = Project(res.Items, res.Orders, Filter{Start: mustDate(t, "2024-02-01"), End: mustDate(t, "2024-02-28")}, 3)
	assert.Equal(t, 1, s.TotalOrders)
	assert.Equal(t, 1, s.TotalLineItems)
	assert.InDelta(t, 105, s.TotalRealValue, 1e-9)

	s = Project(res.Items, res.Orders, Filter{OrderSubstring: "nope"}, 3)
	assert.Equal(t, Summary{}, s)
	assert.Equal(t, 0.0, s.AverageTicket())
}

func TestProjectFallsBackToFirstScenario(t *testing.T) {
	res := summaryFixture(t)

	missing := Project(res.Items, res.Orders, Filter{}, 7)
	first := Project(res.Items, res.Orders, Filter{}, StandardMultipliers[0])
	assert.Equal(t, first, missing)
}

func TestProjectWithoutOrdersUsesItemRealValue(t *testing.T) {
	res := summaryFixture(t)

	s := Project(res.Items, nil, Filter{}, 3)
	assert.InDelta(t, 220+105+55, s.TotalRealValue, 1e-9)
	assert.Equal(t, 3, s.TotalOrders)
}

func TestResultFilteredItems(t *testing.T) {
	res := summaryFixture(t)
	assert.Len(t, res.FilteredItems(), 4)

	res.Filtered = FilterOrders(res.Orders, Filter{OrderSubstring: "2001"})
	items := res.FilteredItems()
	require.Len(t, items, 1)
	assert.Equal(t, "2001", items[0].OrderNumber)
}

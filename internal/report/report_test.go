package report

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/points-calculator/internal/diagnostics"
	"github.com/ginjaninja78/points-calculator/internal/engine"
	"github.com/ginjaninja78/points-calculator/internal/types"
)

func TestNumberFormats(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   string
	}{
		{1234.56, 2, "1.234,56"},
		{1234567.891, 2, "1.234.567,89"},
		{0.125, 2, "0,13"},
		{-1234.5, 2, "-1.234,50"},
		{-0.001, 2, "0,00"},
		{999, 0, "999"},
		{1000, 0, "1.000"},
		{math.NaN(), 2, "n/d"},
		{math.Inf(1), 2, "n/d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Number(tt.v, tt.places), "%v", tt.v)
	}
}

func TestMoneyPercentPoints(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", Money(1234.56))
	assert.Equal(t, "-R$ 26,94", Money(-26.94))
	assert.Equal(t, "R$ 0,00", Money(0))
	assert.Equal(t, "11,53%", Percent(11.53))
	assert.Equal(t, "n/d", Percent(math.NaN()))
	assert.Equal(t, "1.050", Points(1050))
	assert.Equal(t, "450,50", Points(450.5))
	assert.Equal(t, "3x", Multiplier(3))
	assert.Equal(t, "4,5x", Multiplier(4.5))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "05/01/2024", Date("2024-01-05"))
	assert.Equal(t, "", Date(""))
	assert.Equal(t, "05/01/2024 10:00", Date("05/01/2024 10:00"))
}

func TestDateRange(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "de 01/02/2024 até 28/02/2024", DateRange(engine.Filter{Start: start, End: end}))
	assert.Equal(t, "a partir de 01/02/2024", DateRange(engine.Filter{Start: start}))
	assert.Equal(t, "até 28/02/2024", DateRange(engine.Filter{End: end}))
	assert.Equal(t, "", DateRange(engine.Filter{OrderSubstring: "1"}))
}

func TestPaginate(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Pages: 3, Start: 0, End: 10, Total: 25}, Paginate(25, 1, 10))
	assert.Equal(t, Page{Number: 3, Pages: 3, Start: 20, End: 25, Total: 25}, Paginate(25, 3, 10))
	assert.Equal(t, Page{Number: 3, Pages: 3, Start: 20, End: 25, Total: 25}, Paginate(25, 9, 10))
	assert.Equal(t, Page{Number: 1, Pages: 3, Start: 0, End: 10, Total: 25}, Paginate(25, 0, 10))
	assert.Equal(t, Page{Number: 1, Pages: 1, Start: 0, End: 0, Total: 0}, Paginate(0, 2, 10))
	assert.Equal(t, Page{Number: 1, Pages: 1, Start: 0, End: 25, Total: 25}, Paginate(25, 2, 0))
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]View{"": ViewSummary, "Orders": ViewOrders, "pedidos": ViewOrders, "skus": ViewSKUs, "itens": ViewSKUs} {
		got, err := ParseView(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseView("chart")
	assert.Error(t, err)
}

func sampleResult(t *testing.T) *engine.Result {
	t.Helper()

	var orders []types.RawRecord
	for i := 0; i < 12; i++ {
		orders = append(orders, types.RawRecord{
			"Order":             "ORD-" + string(rune('A'+i)),
			"Reference Code":    "A",
			"SKU Selling Price": "100",
			"Total Value":       "110",
			"Creation Date":     "2024-01-05T10:00:00Z",
		})
	}
	orders = append(orders, types.RawRecord{"Order": "ORD-X", "Reference Code": "ZZ", "SKU Selling Price": "10"})

	res, err := engine.Compute(engine.Request{
		Orders: orders,
		Costs:  []types.RawRecord{{"SKU": "A", "CUSTO PRODUTO": "60"}},
		Params: engine.DefaultParams(),
	})
	require.NoError(t, err)
	return res
}

func TestRenderSummary(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf, 10).Render(res, engine.Filter{}, ViewSummary, 1))

	out := buf.String()
	assert.Contains(t, out, "Resumo - multiplicador 3x")
	assert.Contains(t, out, "R$ 1.200,00")
	assert.Contains(t, out, "Ticket médio")
	assert.Contains(t, out, "R$ 110,00")
	assert.NotContains(t, out, "Página")
}

func TestRenderOrdersPaginates(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf, 10).Render(res, engine.Filter{}, ViewOrders, 2))

	out := buf.String()
	assert.Contains(t, out, "Página 2 de 2 (11-12 de 12 pedidos)")
	assert.Contains(t, out, "ORD-K")
	assert.Contains(t, out, "ORD-L")
	assert.NotContains(t, out, "ORD-A ")
	assert.Contains(t, out, "05/01/2024")
}

func TestRenderSKUsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, 10).SKUs(nil, 3, 1))
	assert.Contains(t, buf.String(), "Nenhum registro encontrado.")
}

func TestRenderDropsAndSuggestions(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	r := NewRenderer(&buf, 10)

	require.NoError(t, r.Drops(res))
	require.NoError(t, r.Suggestions(diagnostics.SuggestSKUs(res.UnmatchedSKUs(), []string{"A"})))

	out := buf.String()
	assert.Contains(t, out, "1 linha(s) ignorada(s)")
	assert.Contains(t, out, "1 sem custo cadastrado")
	assert.Contains(t, out, "ZZ")
}

func TestRenderDropsNegativeQuantity(t *testing.T) {
	res := &engine.Result{Dropped: []engine.Drop{
		{SourceRow: 1, OrderNumber: "1", SKU: "A", Reason: engine.DropNegativeQuantity},
	}}
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, 10).Drops(res))
	assert.Contains(t, buf.String(), "1 com quantidade negativa")
}

func TestRenderDetail(t *testing.T) {
	res := sampleResult(t)
	o, err := res.Order("ORD-B")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, 10).Detail(o, 6))

	out := buf.String()
	assert.Contains(t, out, "Pedido ORD-B - 05/01/2024")
	assert.Contains(t, out, "Valor real R$ 110,00")
	assert.Contains(t, out, "6x*")
	assert.NotContains(t, out, "3x*")
	assert.Contains(t, out, "10x")
	assert.Contains(t, out, "1.000")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "Cami...", truncate("Camiseta Azul", 7))
}

package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/points-calculator/internal/diagnostics"
	"github.com/ginjaninja78/points-calculator/internal/engine"
)

// View selects what Render prints below the summary cards.
type View string

const (
	ViewSummary View = "summary"
	ViewOrders  View = "orders"
	ViewSKUs    View = "skus"
)

// ParseView maps a command-line value to a View.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewSummary:
		return ViewSummary, nil
	case ViewOrders, "pedidos":
		return ViewOrders, nil
	case ViewSKUs, "sku", "items", "itens":
		return ViewSKUs, nil
	}
	return "", fmt.Errorf("unknown view %q (expected summary, orders or skus)", s)
}

// Renderer writes calculation results as plain-text tables.
type Renderer struct {
	w        io.Writer
	pageSize int
}

// NewRenderer returns a Renderer paginating listings by pageSize rows.
func NewRenderer(w io.Writer, pageSize int) *Renderer {
	return &Renderer{w: w, pageSize: pageSize}
}

// Render prints the summary cards and, for the orders and SKUs views, the
// requested page of the filtered listing.
func (r *Renderer) Render(res *engine.Result, filter engine.Filter, view View, page int) error {
	if err := r.Summary(res.Summary, res.Selected, filter); err != nil {
		return err
	}

	switch view {
	case ViewOrders:
		return r.Orders(res.Filtered, res.Selected, page)
	case ViewSKUs:
		return r.SKUs(res.FilteredItems(), res.Selected, page)
	}
	return nil
}

// Summary prints the headline figures.
func (r *Renderer) Summary(s engine.Summary, selected float64, filter engine.Filter) error {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)

	title := "Resumo - multiplicador " + Multiplier(selected)
	if rng := DateRange(filter); rng != "" {
		title += " - período " + rng
	}
	if filter.OrderSubstring != "" {
		title += fmt.Sprintf(" - pedido contém %q", filter.OrderSubstring)
	}
	fmt.Fprintln(tw, title)
	fmt.Fprintln(tw, strings.Repeat("=", len([]rune(title))))

	rows := [][2]string{
		{"Vendas", Money(s.TotalSales)},
		{"Custos", Money(s.TotalCosts)},
		{"Custo dos pontos", Money(s.TotalPointsCost)},
		{"Frete", Money(s.TotalShippingCost)},
		{"Pontos", Points(s.TotalPoints)},
		{"Lucro líquido", Money(s.TotalNetProfit)},
		{"Ticket médio", Money(s.AverageTicket())},
		{"Valor real", Money(s.TotalRealValue)},
		{"Preço total SKU", Money(s.TotalSKUPrice)},
		{"Pedidos", fmt.Sprint(s.TotalOrders)},
		{"Itens", fmt.Sprint(s.TotalLineItems)},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	fmt.Fprintln(tw)

	return tw.Flush()
}

// Orders prints one page of orders with the selected scenario.
func (r *Renderer) Orders(orders []engine.OrderSummary, selected float64, page int) error {
	p := Paginate(len(orders), page, r.pageSize)
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "Pedido\tData\tItens\tVendas\tCustos\tFrete\tPontos\tCusto pontos\tLucro líquido\tMargem\t")
	for _, o := range orders[p.Start:p.End] {
		calc := o.Scenario(selected)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			o.OrderNumber,
			Date(o.OrderDate),
			len(o.Items),
			Money(o.TotalSales),
			Money(o.TotalCosts),
			Money(o.TotalShippingCost),
			Points(calc.TotalPoints),
			Money(calc.PointsCost),
			Money(calc.NetProfit),
			Percent(calc.ProfitMargin),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	return r.footer(p, "pedidos")
}

// SKUs prints one page of line items with the selected scenario.
func (r *Renderer) SKUs(items []engine.LineItem, selected float64, page int) error {
	p := Paginate(len(items), page, r.pageSize)
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintln(tw, "Pedido\tSKU\tProduto\tQtd\tVenda\tCusto\tPontos\tCusto pontos\tLucro líquido\tMargem\t")
	for _, item := range items[p.Start:p.End] {
		calc := item.Scenario(selected)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			item.OrderNumber,
			item.SKU,
			truncate(item.ProductName, 32),
			Points(item.Quantity),
			Money(item.SaleValue),
			Money(item.CostValue),
			Points(calc.TotalPoints),
			Money(calc.PointsCost),
			Money(calc.NetProfit),
			Percent(calc.ProfitMargin),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	return r.footer(p, "itens")
}

// Detail prints one order with its items and every evaluated scenario. The
// selected scenario's multiplier is suffixed with an asterisk.
func (r *Renderer) Detail(o engine.OrderSummary, selected float64) error {
	fmt.Fprintf(r.w, "Pedido %s", o.OrderNumber)
	if o.OrderDate != "" {
		fmt.Fprintf(r.w, " - %s", Date(o.OrderDate))
	}
	fmt.Fprintf(r.w, "\nVendas %s | Custos %s | Frete %s | Valor real %s\n\n",
		Money(o.TotalSales), Money(o.TotalCosts), Money(o.TotalShippingCost), Money(o.OrderRealValue))

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SKU\tProduto\tQtd\tVenda unit.\tCusto unit.\tVenda\tCusto\t")
	for _, item := range o.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			item.SKU,
			truncate(item.ProductName, 32),
			Points(item.Quantity),
			Money(item.UnitSaleValue),
			Money(item.UnitCostValue),
			Money(item.SaleValue),
			Money(item.CostValue),
		)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Multiplicador\tPontos\tCusto pontos\tLucro bruto\tImposto\tDesconto\tLucro líquido\tMargem\t")
	chosen := o.Scenario(selected).Multiplier
	for _, calc := range o.Scenarios {
		label := Multiplier(calc.Multiplier)
		if calc.Multiplier == chosen {
			label += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			label,
			Points(calc.TotalPoints),
			Money(calc.PointsCost),
			Money(calc.GrossProfit),
			Money(calc.TaxAmount),
			Money(calc.DiscountAmount),
			Money(calc.NetProfit),
			Percent(calc.ProfitMargin),
		)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

// Drops prints how many order rows were left out and why.
func (r *Renderer) Drops(res *engine.Result) error {
	if len(res.Dropped) == 0 {
		return nil
	}

	counts := res.DropCounts()
	labels := []struct {
		reason engine.DropReason
		text   string
	}{
		{engine.DropMissingCost, "sem custo cadastrado"},
		{engine.DropNegativeQuantity, "com quantidade negativa"},
		{engine.DropNonPositiveSale, "sem valor de venda"},
		{engine.DropNonPositiveCost, "com custo zerado"},
	}

	fmt.Fprintf(r.w, "%d linha(s) ignorada(s):\n", len(res.Dropped))
	for _, l := range labels {
		if n := counts[l.reason]; n > 0 {
			fmt.Fprintf(r.w, "  %d %s\n", n, l.text)
		}
	}
	_, err := fmt.Fprintln(r.w)
	return err
}

// Suggestions prints the closest cost SKU for each unmatched SKU.
func (r *Renderer) Suggestions(suggestions []diagnostics.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU sem custo\tMais parecido no arquivo de custos\t")
	for _, s := range suggestions {
		closest := s.Closest
		switch {
		case closest == "":
			closest = "-"
		case s.SameIgnoringFormat:
			closest += " (mesmo código, formato diferente)"
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", s.SKU, closest)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}

func (r *Renderer) footer(p Page, noun string) error {
	if p.Total == 0 {
		_, err := fmt.Fprintf(r.w, "Nenhum registro encontrado.\n")
		return err
	}
	_, err := fmt.Fprintf(r.w, "Página %d de %d (%d-%d de %d %s)\n",
		p.Number, p.Pages, p.Start+1, p.End, p.Total, noun)
	return err
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

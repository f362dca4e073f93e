// =============================================================================
// Points Calculator - Export Module
// =============================================================================
//
// This module writes calculation results to files the commercial team opens
// in Excel.
//
// XLSX WORKBOOK:
//   Resumo    headline figures for the selected multiplier
//   Pedidos   one row per order, selected scenario
//   SKUs      one row per line item, selected scenario
//   Cenarios  every evaluated scenario of every order
//
// CSV FILE:
//   The SKUs view, ';' separated with ',' decimals so that Excel in a
//   Brazilian locale opens it without an import wizard.
//
// Only the orders and items that passed the filter are exported. Money
// values are rounded to two decimals.
//
// =============================================================================

package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/points-calculator/internal/engine"
)

// Sheet names of the exported workbook.
const (
	SheetSummary   = "Resumo"
	SheetOrders    = "Pedidos"
	SheetItems     = "SKUs"
	SheetScenarios = "Cenarios"
)

var (
	orderHeader = []any{
		"Pedido", "Data", "Itens", "Quantidade", "Vendas", "Custos", "Frete",
		"Preço total SKU", "Valor real", "Multiplicador", "Pontos",
		"Custo pontos", "Lucro bruto", "Imposto", "Desconto", "Lucro líquido", "Margem %",
	}
	itemHeader = []any{
		"Pedido", "Data", "SKU", "Produto", "Quantidade", "Venda unitária",
		"Venda", "Custo unitário", "Custo", "Frete", "Multiplicador", "Pontos",
		"Custo pontos", "Lucro bruto", "Imposto", "Desconto", "Lucro líquido", "Margem %",
	}
	scenarioHeader = []any{
		"Pedido", "Multiplicador", "Pontos", "Custo pontos", "Lucro bruto",
		"Imposto", "Desconto", "Frete", "Lucro líquido", "Margem %",
	}
)

// =============================================================================
// DISPATCH
// =============================================================================

// Export writes res to path, choosing the format from the extension.
// charset applies to CSV output only.
func Export(path string, res *engine.Result, selected float64, charset string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return WriteXLSX(path, res, selected)
	case ".csv":
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer file.Close()
		if err := WriteCSV(file, res, selected, charset); err != nil {
			return err
		}
		return file.Close()
	default:
		return fmt.Errorf("unsupported export format %q (expected .xlsx or .csv)", filepath.Ext(path))
	}
}

// =============================================================================
// XLSX
// =============================================================================

// WriteXLSX writes the four-sheet workbook to path.
func WriteXLSX(path string, res *engine.Result, selected float64) error {
	f, err := buildWorkbook(res, selected)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(res *engine.Result, selected float64) (*excelize.File, error) {
	f := excelize.NewFile()
	fail := func(err error) (*excelize.File, error) {
		f.Close()
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fail(err)
	}
	for _, name := range []string{SheetOrders, SheetItems, SheetScenarios} {
		if _, err := f.NewSheet(name); err != nil {
			return fail(err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fail(err)
	}

	w := &sheetWriter{f: f, headerStyle: headerStyle}

	w.sheet(SheetSummary, []any{"Indicador", "Valor"}, summaryRows(res.Summary, selected))
	w.sheet(SheetOrders, orderHeader, orderRows(res.Filtered, selected))
	w.sheet(SheetItems, itemHeader, itemRows(res.FilteredItems(), selected))
	w.sheet(SheetScenarios, scenarioHeader, scenarioRows(res.Filtered))

	if w.err != nil {
		return fail(w.err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// sheetWriter writes header and rows, keeping the first error.
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) sheet(name string, header []any, rows [][]any) {
	if w.err != nil {
		return
	}

	w.row(name, 1, header)
	for i, row := range rows {
		w.row(name, i+2, row)
	}
	if w.err != nil {
		return
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetRowStyle(name, 1, 1, w.headerStyle); err != nil {
		w.err = err
		return
	}
	if err := w.f.SetColWidth(name, "A", last, 16); err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *sheetWriter) row(name string, n int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(name, cell, &values)
}

// =============================================================================
// ROWS
// =============================================================================

func summaryRows(s engine.Summary, selected float64) [][]any {
	return [][]any{
		{"Multiplicador", selected},
		{"Vendas", round2(s.TotalSales)},
		{"Custos", round2(s.TotalCosts)},
		{"Custo dos pontos", round2(s.TotalPointsCost)},
		{"Frete", round2(s.TotalShippingCost)},
		{"Pontos", round2(s.TotalPoints)},
		{"Lucro líquido", round2(s.TotalNetProfit)},
		{"Ticket médio", round2(s.AverageTicket())},
		{"Valor real", round2(s.TotalRealValue)},
		{"Preço total SKU", round2(s.TotalSKUPrice)},
		{"Pedidos", s.TotalOrders},
		{"Itens", s.TotalLineItems},
	}
}

func orderRows(orders []engine.OrderSummary, selected float64) [][]any {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		row := []any{
			o.OrderNumber, o.OrderDate, len(o.Items), round2(o.TotalQuantity),
			round2(o.TotalSales), round2(o.TotalCosts), round2(o.TotalShippingCost),
			round2(o.TotalSKUPrice), round2(o.OrderRealValue),
		}
		rows = append(rows, append(row, calculationCells(o.Scenario(selected))...))
	}
	return rows
}

func itemRows(items []engine.LineItem, selected float64) [][]any {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		row := []any{
			item.OrderNumber, item.OrderDate, item.SKU, item.ProductName,
			round2(item.Quantity), round2(item.UnitSaleValue), round2(item.SaleValue),
			round2(item.UnitCostValue), round2(item.CostValue), round2(item.ShippingCost),
		}
		rows = append(rows, append(row, calculationCells(item.Scenario(selected))...))
	}
	return rows
}

func scenarioRows(orders []engine.OrderSummary) [][]any {
	var rows [][]any
	for _, o := range orders {
		for _, calc := range o.Scenarios {
			rows = append(rows, []any{
				o.OrderNumber, calc.Multiplier, round2(calc.TotalPoints),
				round2(calc.PointsCost), round2(calc.GrossProfit), round2(calc.TaxAmount),
				round2(calc.DiscountAmount), round2(calc.ShippingCost),
				round2(calc.NetProfit), round2(calc.ProfitMargin),
			})
		}
	}
	return rows
}

func calculationCells(calc engine.Calculation) []any {
	return []any{
		calc.Multiplier, round2(calc.TotalPoints), round2(calc.PointsCost),
		round2(calc.GrossProfit), round2(calc.TaxAmount), round2(calc.DiscountAmount),
		round2(calc.NetProfit), round2(calc.ProfitMargin),
	}
}

// round2 rounds half away from zero. Undefined values become empty cells.
func round2(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// =============================================================================
// CSV
// =============================================================================

// WriteCSV writes the SKUs view to w. charset may be "UTF-8" (default) or
// "Windows-1252" for older Excel versions.
func WriteCSV(w io.Writer, res *engine.Result, selected float64, charset string) error {
	switch strings.ToUpper(strings.TrimSpace(charset)) {
	case "", "UTF-8", "UTF8":
	case "WINDOWS-1252", "CP1252":
		tw := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		defer tw.Close()
		w = tw
	case "ISO-8859-1", "LATIN1":
		tw := transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
		defer tw.Close()
		w = tw
	default:
		return fmt.Errorf("unsupported encoding %q", charset)
	}

	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := make([]string, len(itemHeader))
	for i, h := range itemHeader {
		header[i] = h.(string)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	for _, row := range itemRows(res.FilteredItems(), selected) {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = csvCell(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strings.Replace(decimal.NewFromFloat(x).String(), ".", ",", 1)
	default:
		return fmt.Sprint(x)
	}
}

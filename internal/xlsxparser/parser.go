// =============================================================================
// Points Calculator - Spreadsheet Parser
// =============================================================================
//
// This module is responsible for reading order and cost exports saved as
// spreadsheets. Both the Office Open XML format (.xlsx) and the legacy BIFF
// format (.xls) are supported.
//
// SHEET STRUCTURE:
//   The first non-empty row of the sheet is the header row. Every later row
//   becomes a types.RawRecord keyed by header.
//
//   | Order  | Reference Code | SKU Selling Price | Quantity_SKU | ... |
//   |--------|----------------|-------------------|--------------|-----|
//   | 1001   | A              | 100               | 1            |     |
//
// CELL VALUES:
//   - XLSX numeric cells are returned as float64 with full precision, so
//     dates arrive as spreadsheet serial numbers.
//   - Every other XLSX cell, and every XLS cell, is returned as text.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/points-calculator/internal/types"
)

// =============================================================================
// SHEET DATA STRUCTURE
// =============================================================================

// SheetData represents one parsed worksheet.
type SheetData struct {
	// SourceFile is the path to the workbook, empty for readers.
	SourceFile string

	// SheetName is the name of the worksheet that was read.
	SheetName string

	// Headers contains the cleaned header row, in column order.
	Headers []string

	// Records contains the data rows keyed by header.
	Records []types.RawRecord

	// RowCount is the number of data rows (excluding the header).
	RowCount int
}

// =============================================================================
// XLSX
// =============================================================================

// Parse reads a worksheet from an XLSX workbook.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - sheet: The worksheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - A pointer to the SheetData struct.
//   - An error if the workbook or sheet cannot be read.
func Parse(path, sheet string) (*SheetData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(file, sheet)
	if err != nil {
		return nil, err
	}
	data.SourceFile = path
	return data, nil
}

// ParseReader reads a worksheet from XLSX content.
func ParseReader(r io.Reader, sheet string) (*SheetData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := pickSheet(f.GetSheetList(), sheet)
	if err != nil {
		return nil, err
	}

	// Raw values skip number formats: "1.234,56" style display strings
	// would otherwise reach the calculator.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	cellValue := func(rowIndex, colIndex int, raw string) any {
		cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+1)
		if err != nil {
			return raw
		}
		cellType, err := f.GetCellType(sheetName, cell)
		if err != nil {
			return raw
		}
		switch cellType {
		case excelize.CellTypeNumber, excelize.CellTypeUnset:
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				return v
			}
		}
		return raw
	}

	headers, records := buildRecords(rows, cellValue)
	return &SheetData{
		SheetName: sheetName,
		Headers:   headers,
		Records:   records,
		RowCount:  len(records),
	}, nil
}

// =============================================================================
// XLS
// =============================================================================

// ParseXLS reads a worksheet from a legacy XLS workbook.
func ParseXLS(path, sheet string) (*SheetData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	data, err := ParseXLSReader(bytes.NewReader(raw), sheet)
	if err != nil {
		return nil, err
	}
	data.SourceFile = path
	return data, nil
}

// ParseXLSReader reads a worksheet from XLS content.
func ParseXLSReader(r io.ReadSeeker, sheet string) (*SheetData, error) {
	workbook, err := xls.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheets := workbook.GetSheets()
	names := make([]string, len(sheets))
	for i := range sheets {
		names[i] = sheets[i].GetName()
	}

	sheetName, err := pickSheet(names, sheet)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i := range sheets {
		if names[i] != sheetName {
			continue
		}
		for _, row := range sheets[i].GetRows() {
			var cells []string
			for _, col := range row.GetCols() {
				cells = append(cells, col.GetString())
			}
			rows = append(rows, cells)
		}
		break
	}

	headers, records := buildRecords(rows, func(_, _ int, raw string) any { return raw })
	return &SheetData{
		SheetName: sheetName,
		Headers:   headers,
		Records:   records,
		RowCount:  len(records),
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// pickSheet returns the requested sheet, or the first one when none is
// requested. Names are matched case-insensitively.
func pickSheet(names []string, want string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if want == "" {
		return names[0], nil
	}
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(want)) {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (available: %s)", want, strings.Join(names, ", "))
}

// buildRecords turns sheet rows into records. value converts a raw cell at
// the given zero-based coordinates into the value stored in the record.
func buildRecords(rows [][]string, value func(rowIndex, colIndex int, raw string) any) ([]string, []types.RawRecord) {
	start := 0
	for start < len(rows) && isRowEmpty(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, []types.RawRecord{}
	}

	headers := cleanHeaders(rows[start])
	records := make([]types.RawRecord, 0, len(rows)-start-1)

	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		record := make(types.RawRecord, len(headers))
		for colIndex, header := range headers {
			if colIndex >= len(row) {
				break
			}
			raw := strings.TrimSpace(row[colIndex])
			if raw == "" {
				continue
			}
			record[header] = value(i, colIndex, raw)
		}
		records = append(records, record)
	}

	return headers, records
}

// cleanHeaders trims header cells, names empty ones after their column and
// suffixes repeated names.
func cleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))

	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		for base, n := h, seen[h]; seen[h] > 0; {
			n++
			seen[base] = n
			h = fmt.Sprintf("%s_%d", base, n)
		}
		seen[h]++
		headers[i] = h
	}

	return headers
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

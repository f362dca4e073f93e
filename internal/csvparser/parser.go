// =============================================================================
// Points Calculator - CSV Parser Module
// =============================================================================
//
// This module is responsible for parsing CSV exports of the order report and
// of the product cost sheet. Exports reach us from different tools, so the
// parser has to cope with:
//   - Different delimiters (comma, semicolon, tab)
//   - Different encodings (UTF-8 with or without BOM, Latin-1, Windows-1252)
//   - Quoted fields and stray quotes
//   - Blank lines between records
//
// The first non-empty row is the header row. Every later row becomes a
// types.RawRecord keyed by header. Values are kept as text; turning them into
// numbers is the calculator's job.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/points-calculator/internal/config"
	"github.com/ginjaninja78/points-calculator/internal/types"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed CSV export.
type CSVData struct {
	// Headers contains the cleaned column headers, in file order.
	Headers []string

	// Records contains the data rows keyed by header.
	Records []types.RawRecord

	// SourceFile is the path to the source file, empty for readers.
	SourceFile string

	// Delimiter is the delimiter the file was split on.
	Delimiter rune

	// Encoding is the encoding the bytes were decoded from.
	Encoding string

	// RowCount is the number of data rows (excluding the header).
	RowCount int

	// ColumnCount is the number of columns in the header.
	ColumnCount int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The input settings (candidate delimiters and encoding).
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.InputConfig) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath
	return data, nil
}

// ParseReader parses CSV content from r.
//
// PARSING PROCESS:
//   1. Decode the bytes into UTF-8
//   2. Pick the delimiter that splits the header into the most columns
//   3. Read every row, tolerating ragged rows and lazy quotes
//   4. Clean the header row and convert each data row into a RawRecord
func ParseReader(r io.Reader, settings config.InputConfig) (*CSVData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	text, encoding, err := decode(raw, settings.Encoding)
	if err != nil {
		return nil, err
	}

	candidates, err := delimiterCandidates(settings.CSVDelimiters)
	if err != nil {
		return nil, err
	}
	delimiter := GuessDelimiter(text, candidates)

	csvReader := csv.NewReader(strings.NewReader(text))
	configureReader(csvReader, delimiter)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	// Blank lines are already skipped by encoding/csv; rows of empty cells
	// are not.
	start := 0
	for start < len(allRows) && isRowEmpty(allRows[start]) {
		start++
	}
	if start == len(allRows) {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[start])
	records := extractRecords(allRows[start+1:], headers)

	return &CSVData{
		Headers:     headers,
		Records:     records,
		Delimiter:   delimiter,
		Encoding:    encoding,
		RowCount:    len(records),
		ColumnCount: len(headers),
	}, nil
}

// configureReader configures the CSV reader for loosely formatted exports.
func configureReader(reader *csv.Reader, delimiter rune) {
	reader.Comma = delimiter

	// Allow a variable number of fields per row. Spreadsheet tools often
	// drop trailing empty cells.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// =============================================================================
// ENCODING
// =============================================================================

// decode converts raw bytes into UTF-8 text.
//
// UTF-8 input is accepted with or without a byte order mark. When UTF-8 is
// configured but the bytes are not valid UTF-8 the file is assumed to come
// from Excel on Windows and is decoded as Windows-1252.
func decode(raw []byte, encoding string) (string, string, error) {
	var decoder transform.Transformer
	name := strings.ToUpper(strings.TrimSpace(encoding))

	switch name {
	case "", "UTF-8", "UTF8":
		name = "UTF-8"
		if !utf8.Valid(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))) {
			name = "WINDOWS-1252"
			decoder = charmap.Windows1252.NewDecoder()
		} else {
			decoder = unicode.UTF8BOM.NewDecoder()
		}
	case "ISO-8859-1", "LATIN1":
		decoder = charmap.ISO8859_1.NewDecoder()
	case "WINDOWS-1252", "CP1252":
		decoder = charmap.Windows1252.NewDecoder()
	default:
		return "", "", fmt.Errorf("unsupported encoding %q", encoding)
	}

	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode %s input: %w", name, err)
	}
	return string(out), name, nil
}

// =============================================================================
// DELIMITER DETECTION
// =============================================================================

// GuessDelimiter picks the candidate that splits the header row into the
// most fields. Ties go to the earlier candidate; with no candidates a comma
// is used.
func GuessDelimiter(text string, candidates []rune) rune {
	if len(candidates) == 0 {
		return ','
	}

	header := firstLine(text)
	best, bestCount := candidates[0], 0

	for _, c := range candidates {
		r := csv.NewReader(strings.NewReader(header))
		configureReader(r, c)
		fields, err := r.Read()
		if err != nil {
			continue
		}
		if len(fields) > bestCount {
			best, bestCount = c, len(fields)
		}
	}

	return best
}

// firstLine returns the first line that has any content.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func delimiterCandidates(configured []string) ([]rune, error) {
	out := make([]rune, 0, len(configured))
	for _, d := range configured {
		r, ok := config.DelimiterRune(d)
		if !ok {
			return nil, fmt.Errorf("invalid csv delimiter %q", d)
		}
		out = append(out, r)
	}
	return out, nil
}

// =============================================================================
// HEADERS AND ROWS
// =============================================================================

// cleanHeaders trims header values, names empty headers after their
// position and suffixes repeated headers so no column is lost.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		header = uniqueHeader(header, seen)

		cleaned[i] = header
	}

	return cleaned
}

// uniqueHeader returns header, or header suffixed with the next free
// counter when that name is already taken, and records the result in seen.
// The counter keeps climbing past names that appear literally in the file,
// so "A, A, A_2" becomes "A, A_2, A_2_2".
func uniqueHeader(header string, seen map[string]int) string {
	label := header
	for n := seen[header]; seen[label] > 0; {
		n++
		label = fmt.Sprintf("%s_%d", header, n)
		seen[header] = n
	}
	if label == header {
		seen[header]++
	} else {
		seen[label] = 1
	}
	return label
}

// extractRecords converts data rows into records. Fully empty rows are
// skipped. Cells beyond the header are ignored and missing trailing cells
// are left out of the record.
func extractRecords(rows [][]string, headers []string) []types.RawRecord {
	records := make([]types.RawRecord, 0, len(rows))

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		record := make(types.RawRecord, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				record[header] = strings.TrimSpace(row[colIndex])
			}
		}

		records = append(records, record)
	}

	return records
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

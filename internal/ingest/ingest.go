// =============================================================================
// Points Calculator - Dataset Loader
// =============================================================================
//
// This module turns an uploaded file into a list of raw records. The parser
// is chosen from the file extension:
//
//   .csv        -> csvparser (delimiter and encoding handling)
//   .xlsx       -> xlsxparser (first or configured sheet)
//   .xls        -> xlsxparser legacy BIFF reader
//
// Any other extension is rejected with ErrUnsupportedFormat.
//
// =============================================================================

package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/points-calculator/internal/config"
	"github.com/ginjaninja78/points-calculator/internal/csvparser"
	"github.com/ginjaninja78/points-calculator/internal/types"
	"github.com/ginjaninja78/points-calculator/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for files that are not CSV, XLSX or XLS.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format identifies how a file was decoded.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// Dataset is a decoded upload.
type Dataset struct {
	Source  string
	Format  Format
	Headers []string
	Records []types.RawRecord

	// Sheet is set for spreadsheets.
	Sheet string

	// Delimiter and Encoding are set for CSV files.
	Delimiter rune
	Encoding  string
}

// Columns returns the headers of the dataset.
func (d *Dataset) Columns() []string {
	if len(d.Headers) > 0 {
		return d.Headers
	}
	return types.Columns(d.Records)
}

// DetectFormat maps a file name to its format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w: %s (expected .xlsx, .xls or .csv)", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Load decodes the file at path into a Dataset.
func Load(path string, settings config.InputConfig) (*Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		data, err := csvparser.Parse(path, settings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return &Dataset{
			Source:    path,
			Format:    format,
			Headers:   data.Headers,
			Records:   data.Records,
			Delimiter: data.Delimiter,
			Encoding:  data.Encoding,
		}, nil

	default:
		parse := xlsxparser.Parse
		if format == FormatXLS {
			parse = xlsxparser.ParseXLS
		}
		data, err := parse(path, settings.Sheet)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return &Dataset{
			Source:  path,
			Format:  format,
			Headers: data.Headers,
			Records: data.Records,
			Sheet:   data.SheetName,
		}, nil
	}
}

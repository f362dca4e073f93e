package fields

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseAmount converts a raw cell into a number using Brazilian conventions.
//
//   - nil or blank         -> 0
//   - native number        -> returned unchanged
//   - "1.234,56"           -> 1234.56 ('.' thousands, ',' decimal)
//   - "12,5"               -> 12.5
//   - "1234.56" or "1234"  -> parsed as-is
//
// Anything that still fails to parse yields 0. ParseAmount never fails.
func ParseAmount(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseAmountString(v)
	default:
		return 0
	}
}

func parseAmountString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// DatePart reduces a timestamp-like cell to its calendar date.
//
// Strings keep everything before the first 'T' or space
// ("2024-01-05T10:22:00Z" and "2024-01-05 10:22" -> "2024-01-05"). Numeric cells, and strings holding nothing but a number,
// are spreadsheet serial dates. Anything else yields "".
func DatePart(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(v)
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialDate(serial)
		}
		if i := strings.IndexAny(s, "T "); i >= 0 {
			s = s[:i]
		}
		return s
	case time.Time:
		return v.Format(time.DateOnly)
	case float64:
		return serialDate(v)
	case int:
		return serialDate(float64(v))
	case int64:
		return serialDate(float64(v))
	default:
		return ""
	}
}

func serialDate(serial float64) string {
	if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return ""
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// =============================================================================
// Points Calculator - Report Formatting
// =============================================================================
//
// Figures are shown the way Brazilian users read them:
//   money     R$ 1.234,56
//   percent   11,53%
//   dates     05/01/2024
//
// Rounding is half away from zero on the decimal value, so 0.125 shows as
// 0,13 regardless of how the float was stored.
//
// =============================================================================

package report

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/points-calculator/internal/engine"
)

const notAvailable = "n/d"

// Number formats v with the given decimal places, '.' grouping and ','
// decimals.
func Number(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}

	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.SplitN(d.StringFixed(places), ".", 2)
	intPart := parts[0]

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if len(parts) == 2 {
		b.WriteByte(',')
		b.WriteString(parts[1])
	}
	return b.String()
}

// Money formats v as Brazilian reais.
func Money(v float64) string {
	s := Number(v, 2)
	if s == notAvailable {
		return s
	}
	if strings.HasPrefix(s, "-") {
		return "-R$ " + s[1:]
	}
	return "R$ " + s
}

// Percent formats a margin that is already a percentage.
func Percent(v float64) string {
	s := Number(v, 2)
	if s == notAvailable {
		return s
	}
	return s + "%"
}

// Points formats a points total, with decimals only when it has any.
func Points(v float64) string {
	if v == math.Trunc(v) {
		return Number(v, 0)
	}
	return Number(v, 2)
}

// Multiplier formats a multiplier as "3x" or "4,5x".
func Multiplier(m float64) string {
	if m == math.Trunc(m) {
		return Number(m, 0) + "x"
	}
	return strings.TrimRight(strings.TrimRight(Number(m, 2), "0"), ",") + "x"
}

// Date turns "2024-01-05" into "05/01/2024". Anything else is returned as is.
func Date(iso string) string {
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// DateRange describes the date bounds of f, or "" when it has none.
func DateRange(f engine.Filter) string {
	start, end := !f.Start.IsZero(), !f.End.IsZero()
	switch {
	case start && end:
		return "de " + f.Start.Format("02/01/2006") + " até " + f.End.Format("02/01/2006")
	case start:
		return "a partir de " + f.Start.Format("02/01/2006")
	case end:
		return "até " + f.End.Format("02/01/2006")
	default:
		return ""
	}
}

// Page describes one page of a paginated listing.
type Page struct {
	// Number is the 1-based page number after clamping.
	Number int
	Pages  int
	Start  int
	End    int
	Total  int
}

// Paginate slices total rows into pages of size and clamps page into range.
// A non-positive size puts every row on one page.
func Paginate(total, page, size int) Page {
	if size <= 0 {
		size = total
	}
	pages := 1
	if total > 0 && size > 0 {
		pages = (total + size - 1) / size
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return Page{Number: page, Pages: pages, Start: start, End: end, Total: total}
}

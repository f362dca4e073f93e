package engine

import (
	"fmt"
	"strings"
	"time"
)

// Filter restricts the order set. Zero values disable each predicate;
// active predicates are combined with AND.
type Filter struct {
	// OrderSubstring matches order numbers case-insensitively.
	OrderSubstring string

	// Start and End bound the order date, both inclusive.
	Start time.Time
	End   time.Time
}

// HasDateRange reports whether either date bound is set.
func (f Filter) HasDateRange() bool {
	return !f.Start.IsZero() || !f.End.IsZero()
}

// Active reports whether any predicate is set.
func (f Filter) Active() bool {
	return f.OrderSubstring != "" || f.HasDateRange()
}

// Validate rejects an inverted date range.
func (f Filter) Validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && calendarDay(f.End).Before(calendarDay(f.Start)) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidParameters, f.End.Format(time.DateOnly), f.Start.Format(time.DateOnly))
	}
	return nil
}

// Match reports whether o satisfies every active predicate. With a date
// bound active, an order without a parseable date never matches. Bounds
// are compared by calendar day in their own location, so the time of day
// and zone they carry do not matter.
func (f Filter) Match(o OrderSummary) bool {
	if f.OrderSubstring != "" &&
		!strings.Contains(strings.ToLower(o.OrderNumber), strings.ToLower(f.OrderSubstring)) {
		return false
	}

	if !f.HasDateRange() {
		return true
	}
	date, err := ParseDate(o.OrderDate)
	if err != nil {
		return false
	}
	if !f.Start.IsZero() && date.Before(calendarDay(f.Start)) {
		return false
	}
	if !f.End.IsZero() && date.After(calendarDay(f.End)) {
		return false
	}
	return true
}

// calendarDay maps t to UTC midnight of the date it shows in its own
// location, the form ParseDate produces.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FilterOrders returns the orders matching f, preserving order. An inactive
// filter returns orders unchanged.
func FilterOrders(orders []OrderSummary, f Filter) []OrderSummary {
	if !f.Active() {
		return orders
	}
	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return time.Parse(time.DateOnly, s)
}

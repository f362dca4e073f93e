// Package diagnostics explains why order rows found no cost.
package diagnostics

import (
	"strings"

	"github.com/schollz/closestmatch"
)

// Suggestion pairs a SKU missing from the cost file with the cost-file SKU
// that looks most like it.
type Suggestion struct {
	SKU string

	// Closest is empty when the cost file has no SKUs.
	Closest string

	// SameIgnoringFormat is set when the two differ only by case,
	// surrounding spaces or leading zeros.
	SameIgnoringFormat bool
}

// SuggestSKUs proposes a cost-file SKU for each unmatched SKU, in input
// order.
func SuggestSKUs(unmatched, costSKUs []string) []Suggestion {
	if len(unmatched) == 0 {
		return nil
	}

	byKey := make(map[string]string, len(costSKUs))
	for _, sku := range costSKUs {
		if _, ok := byKey[formatKey(sku)]; !ok {
			byKey[formatKey(sku)] = sku
		}
	}

	var cm *closestmatch.ClosestMatch
	if len(costSKUs) > 0 {
		cm = closestmatch.New(costSKUs, []int{2, 3, 4})
	}

	out := make([]Suggestion, 0, len(unmatched))
	for _, sku := range unmatched {
		s := Suggestion{SKU: sku}
		if match, ok := byKey[formatKey(sku)]; ok {
			s.Closest = match
			s.SameIgnoringFormat = true
		} else if cm != nil {
			s.Closest = cm.Closest(sku)
		}
		out = append(out, s)
	}
	return out
}

func formatKey(sku string) string {
	key := strings.ToUpper(strings.TrimSpace(sku))
	if trimmed := strings.TrimLeft(key, "0"); trimmed != "" {
		key = trimmed
	}
	return key
}

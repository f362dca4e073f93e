package engine

import (
	"github.com/ginjaninja78/points-calculator/internal/fields"
	"github.com/ginjaninja78/points-calculator/internal/types"
)

// CostIndex maps a product SKU to its cost record.
//
// Keys are the exact string form of the resolved SKU field. The first record
// for a SKU wins; later duplicates are ignored. Records without a SKU are
// skipped.
type CostIndex struct {
	bySKU map[string]types.RawRecord
	skus  []string
}

// BuildCostIndex indexes the cost export once per dataset.
func BuildCostIndex(records []types.RawRecord) *CostIndex {
	ix := &CostIndex{bySKU: make(map[string]types.RawRecord, len(records))}
	for _, record := range records {
		sku := fields.Text(record, fields.SKU)
		if sku == "" {
			continue
		}
		if _, exists := ix.bySKU[sku]; exists {
			continue
		}
		ix.bySKU[sku] = record
		ix.skus = append(ix.skus, sku)
	}
	return ix
}

// Lookup returns the cost record for sku.
func (ix *CostIndex) Lookup(sku string) (types.RawRecord, bool) {
	if ix == nil || sku == "" {
		return nil, false
	}
	record, ok := ix.bySKU[sku]
	return record, ok
}

// Len returns the number of distinct SKUs indexed.
func (ix *CostIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.skus)
}

// SKUs returns the indexed SKUs in the order they were first seen.
func (ix *CostIndex) SKUs() []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.skus...)
}

// =============================================================================
// Points Calculator - Field Resolver
// =============================================================================
//
// Spreadsheet exports name the same logical column in several ways depending
// on who exported them and with which tool ("Reference Code",
// "reference code", "ReferenceCode"). This module maps every logical field
// to the ordered list of labels it may appear under and resolves a record
// against that list.
//
// ADDING A FIELD:
//   Add a constant and one row to the aliases table. No other code changes.
//
// =============================================================================

package fields

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/points-calculator/internal/types"
)

// =============================================================================
// CANONICAL FIELDS
// =============================================================================

// Field is the canonical name of a logical column.
type Field string

// Order export fields.
const (
	Order             Field = "Order"
	ReferenceCode     Field = "ReferenceCode"
	ShippingValue     Field = "ShippingValue"
	ShippingListPrice Field = "ShippingListPrice"
	SKUTotalPrice     Field = "SKUTotalPrice"
	TotalValue        Field = "TotalValue"
	SKUSellingPrice   Field = "SKUSellingPrice"
	QuantitySKU       Field = "QuantitySKU"
	SKUName           Field = "SKUName"
	CreationDate      Field = "CreationDate"
)

// Cost export fields.
const (
	SKU          Field = "SKU"
	CustoProduto Field = "CustoProduto"
)

// aliases lists, per field, the raw labels accepted for it in lookup order.
var aliases = map[Field][]string{
	Order:             {"Order", "order"},
	ReferenceCode:     {"Reference Code", "reference code", "ReferenceCode"},
	ShippingValue:     {"Shipping Value", "shipping value", "ShippingValue"},
	ShippingListPrice: {"Shipping List Price", "shipping list price", "ShippingListPrice"},
	SKUTotalPrice:     {"SKU Total Price", "sku total price", "SKUTotalPrice"},
	TotalValue:        {"Total Value", "total value", "TotalValue", "Payment Value", "payment value", "PaymentValue"},
	SKUSellingPrice:   {"SKU Selling Price", "sku selling price", "SKUSellingPrice"},
	QuantitySKU:       {"Quantity_SKU", "quantity_sku", "QuantitySKU"},
	SKUName:           {"SKU Name", "sku name", "SKUName"},
	CreationDate:      {"Creation Date", "creation date", "CreationDate"},
	SKU:               {"SKU", "sku"},
	CustoProduto:      {"CUSTO PRODUTO", "custo produto", "CustoProduto"},
}

// OrderFields are the fields read from the order export, in display order.
var OrderFields = []Field{
	Order, ReferenceCode, SKUName, QuantitySKU, SKUSellingPrice, SKUTotalPrice,
	ShippingValue, ShippingListPrice, TotalValue, CreationDate,
}

// CostFields are the fields read from the cost export.
var CostFields = []Field{SKU, CustoProduto}

// Aliases returns a copy of the labels accepted for f.
// It panics on a field missing from the alias table.
func Aliases(f Field) []string {
	return append([]string(nil), mustAliases(f)...)
}

func mustAliases(f Field) []string {
	labels, ok := aliases[f]
	if !ok {
		panic(fmt.Sprintf("fields: unknown canonical field %q", string(f)))
	}
	return labels
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve returns the value of f in record, trying each accepted label in
// order and returning the first one that is present. A label is present when
// the key exists and its value is neither nil nor a blank string; a numeric
// zero or the string "0" is present. The value is returned without coercion.
//
// Resolve does not trim record keys; decoders do that once on load.
// An unknown field is a programming error and panics.
func Resolve(record types.RawRecord, f Field) (any, bool) {
	for _, label := range mustAliases(f) {
		value, ok := record[label]
		if ok && !isBlank(value) {
			return value, true
		}
	}
	return nil, false
}

// Label returns the raw column label under which f was found in record.
func Label(record types.RawRecord, f Field) (string, bool) {
	for _, label := range mustAliases(f) {
		if value, ok := record[label]; ok && !isBlank(value) {
			return label, true
		}
	}
	return "", false
}

// HasColumn reports whether any accepted label of f is one of columns.
func HasColumn(columns []string, f Field) (string, bool) {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	for _, label := range mustAliases(f) {
		if set[label] {
			return label, true
		}
	}
	return "", false
}

// Text resolves f and returns its string form. Strings are returned exactly
// as stored; numbers are formatted without trailing zeros. Absent fields
// yield "".
func Text(record types.RawRecord, f Field) string {
	value, ok := Resolve(record, f)
	if !ok {
		return ""
	}
	return toText(value)
}

// Amount resolves f and parses it with ParseAmount. Absent fields yield 0.
func Amount(record types.RawRecord, f Field) float64 {
	value, _ := Resolve(record, f)
	return ParseAmount(value)
}

// AmountOr is Amount with a caller-supplied value for an absent field.
// A present field that fails to parse still yields 0.
func AmountOr(record types.RawRecord, f Field, fallback float64) float64 {
	value, ok := Resolve(record, f)
	if !ok {
		return fallback
	}
	return ParseAmount(value)
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

func toText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

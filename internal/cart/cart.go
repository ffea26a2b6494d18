// Package cart holds the ordered line items of a shopping session and the
// service that persists one cart per signed-in user.
package cart

import (
	"github.com/angelmondragon/deliverydash-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// LineItem is a product snapshot with a quantity, the finalized selection and the
// unit price captured when it was added. The price is never recomputed.
type LineItem struct {
	Product   types.Product   `json:"product"`
	Quantity  int             `json:"quantity"`
	Selection types.Selection `json:"customizations"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal is unit price times quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// MaxQuantity bounds a single line so its subtotal fits the order columns.
const MaxQuantity = 99

// Cart is an ordered list of line items. It is a plain value owned by a single
// request and is not safe for concurrent use.
type Cart struct {
	items    []LineItem
	reporter pricing.StaleReporter
}

// New returns an empty cart. reporter may be nil.
func New(reporter pricing.StaleReporter) *Cart {
	return &Cart{reporter: reporter}
}

// FromItems restores a cart from persisted line items.
func FromItems(items []LineItem, reporter pricing.StaleReporter) *Cart {
	c := New(reporter)
	c.items = append(c.items, items...)
	return c
}

// AddItem prices the selection against product and appends a new line. Equal
// products with equal selections are not merged.
func (c *Cart) AddItem(product types.Product, quantity int, selection types.Selection) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]any{"quantity": quantity})
	}
	if quantity > MaxQuantity {
		return LineItem{}, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be at most %d", MaxQuantity).
			WithDetails(map[string]any{"quantity": quantity, "max": MaxQuantity})
	}
	item := LineItem{
		Product:   product,
		Quantity:  quantity,
		Selection: selection.Clone(),
		UnitPrice: pricing.ComputeUnitPriceReporting(product, selection, c.reporter),
	}
	if item.Selection == nil {
		item.Selection = types.Selection{}
	}
	c.items = append(c.items, item)
	return item, nil
}

// RemoveItem deletes the line at index, shifting later lines down.
func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.items) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "cart item index %d out of range", index).
			WithDetails(map[string]any{"index": index, "len": len(c.items)})
	}
	c.items = append(c.items[:index:index], c.items[index+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.items = nil
}

// Total is the sum of unit price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	for i, item := range c.items {
		item.Selection = item.Selection.Clone()
		out[i] = item
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// DescribeSelection lists the resolvable options of item against its own product snapshot.
func (c *Cart) DescribeSelection(item LineItem) []pricing.SelectedOptionView {
	return pricing.DescribeSelectionReporting(item.Product, item.Selection, c.reporter)
}

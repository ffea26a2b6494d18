package cart

import (
	"github.com/angelmondragon/deliverydash-backend/internal/pricing"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput is a request to add a customized product.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Selection types.Selection
}

// View is the API projection of a cart.
type View struct {
	Items     []ItemView      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

type ItemView struct {
	Index          int                          `json:"index"`
	ProductID      uuid.UUID                    `json:"product_id"`
	ProductName    string                       `json:"product_name"`
	ImageURL       string                       `json:"image_url"`
	Quantity       int                          `json:"quantity"`
	UnitPrice      decimal.Decimal              `json:"unit_price"`
	Subtotal       decimal.Decimal              `json:"subtotal"`
	Customizations types.Selection              `json:"customizations"`
	Options        []pricing.SelectedOptionView `json:"options"`
}

func newView(c *Cart) *View {
	items := c.Items()
	view := &View{Items: make([]ItemView, 0, len(items)), Total: c.Total()}
	for i, item := range items {
		view.ItemCount += item.Quantity
		view.Items = append(view.Items, ItemView{
			Index:          i,
			ProductID:      item.Product.ID,
			ProductName:    item.Product.Name,
			ImageURL:       item.Product.ImageURL,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Subtotal:       item.Subtotal(),
			Customizations: item.Selection,
			Options:        c.DescribeSelection(item),
		})
	}
	return view
}

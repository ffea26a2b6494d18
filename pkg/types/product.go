package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the read-only catalog view used for customization and pricing.
type Product struct {
	ID                  uuid.UUID            `json:"id"`
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	BasePrice           decimal.Decimal      `json:"base_price"`
	ImageURL            string               `json:"image_url"`
	Category            string               `json:"category"`
	CustomizationGroups []CustomizationGroup `json:"customizations"`
}

// CustomizationGroup is a named set of options such as "Size" or "Toppings".
// Multiple groups behave like checkboxes; the rest like radio buttons.
type CustomizationGroup struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	Required      bool                  `json:"required"`
	Multiple      bool                  `json:"multiple"`
	MaxSelections *int                  `json:"max_selections,omitempty"`
	Options       []CustomizationOption `json:"options"`
}

type CustomizationOption struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Group returns the group with the given id.
func (p Product) Group(id uuid.UUID) (CustomizationGroup, bool) {
	for _, g := range p.CustomizationGroups {
		if g.ID == id {
			return g, true
		}
	}
	return CustomizationGroup{}, false
}

// Option returns the option with the given id within the group.
func (g CustomizationGroup) Option(id uuid.UUID) (CustomizationOption, bool) {
	for _, o := range g.Options {
		if o.ID == id {
			return o, true
		}
	}
	return CustomizationOption{}, false
}

package catalog

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput is the full admin payload for creating or replacing a product.
type ProductInput struct {
	Name        string
	Description string
	BasePrice   decimal.Decimal
	ImageURL    string
	Category    string
	Groups      []GroupInput
}

// GroupInput may carry the id of an existing group so carts referencing it stay valid.
type GroupInput struct {
	ID            *uuid.UUID
	Name          string
	Required      bool
	Multiple      bool
	MaxSelections *int
	Options       []OptionInput
}

type OptionInput struct {
	ID    *uuid.UUID
	Name  string
	Price decimal.Decimal
}

func (in ProductInput) normalize() ProductInput {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Description = strings.TrimSpace(in.Description)
	out.ImageURL = strings.TrimSpace(in.ImageURL)
	out.Category = strings.TrimSpace(in.Category)
	out.Groups = make([]GroupInput, len(in.Groups))
	for i, g := range in.Groups {
		g.Name = strings.TrimSpace(g.Name)
		opts := make([]OptionInput, len(g.Options))
		for j, o := range g.Options {
			o.Name = strings.TrimSpace(o.Name)
			opts[j] = o
		}
		g.Options = opts
		out.Groups[i] = g
	}
	return out
}

func (in ProductInput) validate() error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "is required"
	}
	if in.BasePrice.IsNegative() {
		fields["base_price"] = "must be >= 0"
	}
	for i, g := range in.Groups {
		prefix := fmt.Sprintf("customizations[%d]", i)
		if g.Name == "" {
			fields[prefix+".name"] = "is required"
		}
		if g.MaxSelections != nil && *g.MaxSelections < 1 {
			fields[prefix+".max_selections"] = "must be >= 1"
		}
		for j, o := range g.Options {
			optPrefix := fmt.Sprintf("%s.options[%d]", prefix, j)
			if o.Name == "" {
				fields[optPrefix+".name"] = "is required"
			}
			if o.Price.IsNegative() {
				fields[optPrefix+".price"] = "must be >= 0"
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(map[string]any{"fields": fields})
}

func (in ProductInput) toModel(id uuid.UUID) *models.Product {
	return &models.Product{
		ID:                  id,
		Name:                in.Name,
		Description:         in.Description,
		BasePrice:           in.BasePrice,
		ImageURL:            in.ImageURL,
		Category:            in.Category,
		CustomizationGroups: groupsToModels(in.Groups),
	}
}

func groupsToModels(groups []GroupInput) []models.CustomizationGroup {
	out := make([]models.CustomizationGroup, 0, len(groups))
	for i, g := range groups {
		group := models.CustomizationGroup{
			Name:          g.Name,
			Required:      g.Required,
			Multiple:      g.Multiple,
			MaxSelections: g.MaxSelections,
			Position:      i,
		}
		if g.ID != nil {
			group.ID = *g.ID
		}
		for j, o := range g.Options {
			option := models.CustomizationOption{Name: o.Name, Price: o.Price, Position: j}
			if o.ID != nil {
				option.ID = *o.ID
			}
			group.Options = append(group.Options, option)
		}
		out = append(out, group)
	}
	return out
}

// ToProduct maps a loaded model to the catalog value used by the cart and selector.
func ToProduct(m models.Product) types.Product {
	p := types.Product{
		ID:                  m.ID,
		Name:                m.Name,
		Description:         m.Description,
		BasePrice:           m.BasePrice,
		ImageURL:            m.ImageURL,
		Category:            m.Category,
		CustomizationGroups: make([]types.CustomizationGroup, 0, len(m.CustomizationGroups)),
	}
	for _, g := range m.CustomizationGroups {
		group := types.CustomizationGroup{
			ID:            g.ID,
			Name:          g.Name,
			Required:      g.Required,
			Multiple:      g.Multiple,
			MaxSelections: g.MaxSelections,
			Options:       make([]types.CustomizationOption, 0, len(g.Options)),
		}
		for _, o := range g.Options {
			group.Options = append(group.Options, types.CustomizationOption{ID: o.ID, Name: o.Name, Price: o.Price})
		}
		p.CustomizationGroups = append(p.CustomizationGroups, group)
	}
	return p
}

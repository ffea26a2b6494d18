// Package customizer tracks the customization choices made for one product
// before it is added to the cart.
package customizer

import (
	"strings"

	"github.com/angelmondragon/deliverydash-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Selector owns the in-progress selection for a single product instance.
// It is not safe for concurrent use.
type Selector struct {
	product   types.Product
	selection types.Selection
}

func New(product types.Product) *Selector {
	return &Selector{product: product}
}

// FromSelection rebuilds a selector from a client supplied selection. Option ids
// are de-duplicated and single-choice groups keep only their last option; entries
// and ids that do not resolve are kept as-is.
func FromSelection(product types.Product, selection types.Selection) *Selector {
	s := New(product)
	for _, entry := range selection {
		idx := s.entryIndex(entry.GroupID)
		for _, optionID := range entry.OptionIDs {
			if s.isMultiple(entry.GroupID) {
				if !containsID(s.selection[idx].OptionIDs, optionID) {
					s.selection[idx].OptionIDs = append(s.selection[idx].OptionIDs, optionID)
				}
				continue
			}
			s.selection[idx].OptionIDs = []uuid.UUID{optionID}
		}
	}
	return s
}

// Select applies a click on an option. Single-choice groups replace the current
// option, multiple-choice groups toggle it.
func (s *Selector) Select(groupID, optionID uuid.UUID) {
	idx := s.entryIndex(groupID)
	entry := &s.selection[idx]

	if !s.isMultiple(groupID) {
		entry.OptionIDs = []uuid.UUID{optionID}
		return
	}

	for i, id := range entry.OptionIDs {
		if id == optionID {
			entry.OptionIDs = append(entry.OptionIDs[:i:i], entry.OptionIDs[i+1:]...)
			return
		}
	}
	entry.OptionIDs = append(entry.OptionIDs, optionID)
}

func (s *Selector) IsSelected(groupID, optionID uuid.UUID) bool {
	idx := s.selection.Index(groupID)
	if idx < 0 {
		return false
	}
	return containsID(s.selection[idx].OptionIDs, optionID)
}

// Validate fails with a validation error naming every required group of product
// that was never touched. A group whose options were all toggled off still counts.
func (s *Selector) Validate(product types.Product) error {
	return ValidateSelection(product, s.selection)
}

// Selection returns a copy of the current selection.
func (s *Selector) Selection() types.Selection {
	out := s.selection.Clone()
	if out == nil {
		return types.Selection{}
	}
	return out
}

func (s *Selector) Reset() {
	s.selection = nil
}

// Preview is the unit price the current selection would be added at.
func (s *Selector) Preview(product types.Product) decimal.Decimal {
	return pricing.ComputeUnitPrice(product, s.selection)
}

// ValidateSelection applies the required-group check to an arbitrary selection.
func ValidateSelection(product types.Product, selection types.Selection) error {
	missing := []string{}
	missingIDs := []string{}
	for _, group := range product.CustomizationGroups {
		if group.Required && selection.Index(group.ID) < 0 {
			missing = append(missing, group.Name)
			missingIDs = append(missingIDs, group.ID.String())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "please select: "+strings.Join(missing, ", ")).
		WithDetails(map[string]any{
			"missing_groups":    missing,
			"missing_group_ids": missingIDs,
		})
}

func (s *Selector) entryIndex(groupID uuid.UUID) int {
	if idx := s.selection.Index(groupID); idx >= 0 {
		return idx
	}
	s.selection = append(s.selection, types.SelectedCustomization{GroupID: groupID, OptionIDs: []uuid.UUID{}})
	return len(s.selection) - 1
}

// isMultiple treats groups unknown to the product as single-choice.
func (s *Selector) isMultiple(groupID uuid.UUID) bool {
	group, ok := s.product.Group(groupID)
	return ok && group.Multiple
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// Package pricing computes unit prices and display rows for a product and a
// customization selection.
package pricing

import (
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaleRef is a selected (group, option) pair that does not resolve against the product.
type StaleRef struct {
	ProductID uuid.UUID
	GroupID   uuid.UUID
	OptionID  uuid.UUID
}

// StaleReporter is told about every pair that was skipped.
type StaleReporter interface {
	ReportStale(ref StaleRef)
}

// ReporterFunc adapts a function to StaleReporter.
type ReporterFunc func(ref StaleRef)

func (f ReporterFunc) ReportStale(ref StaleRef) {
	f(ref)
}

// SelectedOptionView is one row of the human readable selection summary.
type SelectedOptionView struct {
	Group      string          `json:"group"`
	Option     string          `json:"option"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// ComputeUnitPrice returns the base price plus the delta of every resolvable
// selected option. Unresolvable pairs contribute nothing.
func ComputeUnitPrice(product types.Product, selection types.Selection) decimal.Decimal {
	return ComputeUnitPriceReporting(product, selection, nil)
}

// ComputeUnitPriceReporting is ComputeUnitPrice that also reports skipped pairs.
func ComputeUnitPriceReporting(product types.Product, selection types.Selection, reporter StaleReporter) decimal.Decimal {
	price := product.BasePrice
	resolve(product, selection, reporter, func(_ types.CustomizationGroup, opt types.CustomizationOption) {
		price = price.Add(opt.Price)
	})
	return price
}

// DescribeSelection lists the resolvable pairs in selection order.
func DescribeSelection(product types.Product, selection types.Selection) []SelectedOptionView {
	return DescribeSelectionReporting(product, selection, nil)
}

func DescribeSelectionReporting(product types.Product, selection types.Selection, reporter StaleReporter) []SelectedOptionView {
	views := []SelectedOptionView{}
	resolve(product, selection, reporter, func(group types.CustomizationGroup, opt types.CustomizationOption) {
		views = append(views, SelectedOptionView{Group: group.Name, Option: opt.Name, PriceDelta: opt.Price})
	})
	return views
}

func resolve(product types.Product, selection types.Selection, reporter StaleReporter, visit func(types.CustomizationGroup, types.CustomizationOption)) {
	for _, entry := range selection {
		group, groupOK := product.Group(entry.GroupID)
		for _, optionID := range entry.OptionIDs {
			if groupOK {
				if opt, ok := group.Option(optionID); ok {
					visit(group, opt)
					continue
				}
			}
			if reporter != nil {
				reporter.ReportStale(StaleRef{ProductID: product.ID, GroupID: entry.GroupID, OptionID: optionID})
			}
		}
	}
}

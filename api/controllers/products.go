package controllers

import (
	"net/http"

	"github.com/angelmondragon/deliverydash-backend/api/responses"
	"github.com/angelmondragon/deliverydash-backend/api/validators"
	"github.com/angelmondragon/deliverydash-backend/internal/catalog"
	"github.com/angelmondragon/deliverydash-backend/internal/customizer"
	"github.com/angelmondragon/deliverydash-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/angelmondragon/deliverydash-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		list, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type toggleRequest struct {
	GroupID  uuid.UUID `json:"group_id" validate:"required"`
	OptionID uuid.UUID `json:"option_id" validate:"required"`
}

// quoteRequest seeds the selector with customizations and then applies toggles
// in order, the same way a customer clicks through the options.
type quoteRequest struct {
	Customizations types.Selection `json:"customizations"`
	Toggles        []toggleRequest `json:"toggles" validate:"omitempty,dive"`
}

type quoteResponse struct {
	ProductID      uuid.UUID                    `json:"product_id"`
	Customizations types.Selection              `json:"customizations"`
	UnitPrice      decimal.Decimal              `json:"unit_price"`
	Options        []pricing.SelectedOptionView `json:"options"`
	Complete       bool                         `json:"complete"`
	MissingGroups  []string                     `json:"missing_groups"`
}

// QuoteProduct previews the unit price of a customization without touching the cart.
func QuoteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sel := customizer.FromSelection(*product, body.Customizations)
		for _, toggle := range body.Toggles {
			sel.Select(toggle.GroupID, toggle.OptionID)
		}

		selection := sel.Selection()
		resp := quoteResponse{
			ProductID:      product.ID,
			Customizations: selection,
			UnitPrice:      sel.Preview(*product),
			Options:        pricing.DescribeSelection(*product, selection),
			Complete:       true,
			MissingGroups:  []string{},
		}
		if verr := sel.Validate(*product); verr != nil {
			resp.Complete = false
			resp.MissingGroups = missingGroups(verr)
		}

		responses.WriteSuccess(w, resp)
	}
}

func missingGroups(err error) []string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return []string{}
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return []string{}
	}
	names, ok := details["missing_groups"].([]string)
	if !ok {
		return []string{}
	}
	return names
}

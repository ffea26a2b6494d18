package controllers

import (
	"net/http"

	"github.com/angelmondragon/deliverydash-backend/api/responses"
	"github.com/angelmondragon/deliverydash-backend/api/validators"
	"github.com/angelmondragon/deliverydash-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description"`
	BasePrice      decimal.Decimal `json:"base_price"`
	ImageURL       string          `json:"image_url"`
	Category       string          `json:"category"`
	Customizations []groupRequest  `json:"customizations" validate:"omitempty,dive"`
}

type groupRequest struct {
	ID            *uuid.UUID      `json:"id"`
	Name          string          `json:"name" validate:"required"`
	Required      bool            `json:"required"`
	Multiple      bool            `json:"multiple"`
	MaxSelections *int            `json:"max_selections"`
	Options       []optionRequest `json:"options" validate:"omitempty,dive"`
}

type optionRequest struct {
	ID    *uuid.UUID      `json:"id"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

func (p productRequest) toInput() catalog.ProductInput {
	in := catalog.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Groups:      make([]catalog.GroupInput, 0, len(p.Customizations)),
	}
	for _, g := range p.Customizations {
		group := catalog.GroupInput{
			ID:            g.ID,
			Name:          g.Name,
			Required:      g.Required,
			Multiple:      g.Multiple,
			MaxSelections: g.MaxSelections,
			Options:       make([]catalog.OptionInput, 0, len(g.Options)),
		}
		for _, o := range g.Options {
			group.Options = append(group.Options, catalog.OptionInput{ID: o.ID, Name: o.Name, Price: o.Price})
		}
		in.Groups = append(in.Groups, group)
	}
	return in
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct replaces the product, including every customization group.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

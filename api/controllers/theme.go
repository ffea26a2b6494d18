package controllers

import (
	"net/http"

	"github.com/angelmondragon/deliverydash-backend/api/responses"
	"github.com/angelmondragon/deliverydash-backend/api/validators"
	"github.com/angelmondragon/deliverydash-backend/internal/theme"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/angelmondragon/deliverydash-backend/pkg/logger"
)

// GetTheme serves the storefront theme, falling back to the defaults.
func GetTheme(svc theme.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "theme service unavailable"))
			return
		}

		result, err := svc.GetTheme(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type themeRequest struct {
	LogoURL        string `json:"logo" validate:"required"`
	PrimaryColor   string `json:"primary_color" validate:"required"`
	SecondaryColor string `json:"secondary_color" validate:"required"`
	AccentColor    string `json:"accent_color" validate:"required"`
}

func AdminSaveTheme(svc theme.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "theme service unavailable"))
			return
		}

		var body themeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SaveTheme(r.Context(), theme.Theme{
			LogoURL:        body.LogoURL,
			PrimaryColor:   body.PrimaryColor,
			SecondaryColor: body.SecondaryColor,
			AccentColor:    body.AccentColor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

package theme

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/angelmondragon/deliverydash-backend/pkg/db"
	"github.com/angelmondragon/deliverydash-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultPrimaryColor   = "#f97316"
	DefaultSecondaryColor = "#ffffff"
	DefaultAccentColor    = "#000000"
)

// Theme is the storefront branding. hexcolor also admits #rgb and #rrggbbaa,
// so len=7 pins colors to #RRGGBB.
type Theme struct {
	LogoURL        string `json:"logo" validate:"required,http_url"`
	PrimaryColor   string `json:"primary_color" validate:"hexcolor,len=7"`
	SecondaryColor string `json:"secondary_color" validate:"hexcolor,len=7"`
	AccentColor    string `json:"accent_color" validate:"hexcolor,len=7"`
}

var themeValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

// Default is served until an admin saves a theme.
func Default() Theme {
	return Theme{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		AccentColor:    DefaultAccentColor,
	}
}

type Service interface {
	GetTheme(ctx context.Context) (*Theme, error)
	SaveTheme(ctx context.Context, theme Theme) (*Theme, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("theme repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetTheme(ctx context.Context) (*Theme, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			t := Default()
			return &t, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load theme")
	}
	return &Theme{
		LogoURL:        row.LogoURL,
		PrimaryColor:   row.PrimaryColor,
		SecondaryColor: row.SecondaryColor,
		AccentColor:    row.AccentColor,
	}, nil
}

func (s *service) SaveTheme(ctx context.Context, theme Theme) (*Theme, error) {
	theme = Theme{
		LogoURL:        strings.TrimSpace(theme.LogoURL),
		PrimaryColor:   strings.TrimSpace(theme.PrimaryColor),
		SecondaryColor: strings.TrimSpace(theme.SecondaryColor),
		AccentColor:    strings.TrimSpace(theme.AccentColor),
	}
	if err := validate(theme); err != nil {
		return nil, err
	}

	row := &models.Theme{
		LogoURL:        theme.LogoURL,
		PrimaryColor:   theme.PrimaryColor,
		SecondaryColor: theme.SecondaryColor,
		AccentColor:    theme.AccentColor,
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save theme")
	}
	return &theme, nil
}

func validate(t Theme) error {
	err := themeValidator.Struct(t)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate theme")
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		if fe.Field() == "logo" {
			fields[fe.Field()] = "must be an http(s) URL"
			continue
		}
		fields[fe.Field()] = "must be a #RRGGBB color"
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid theme").WithDetails(map[string]any{"fields": fields})
}

package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/deliverydash-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithParam(name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIntParam(t *testing.T) {
	got, err := ParseIntParam(requestWithParam("index", " 3 "), "index")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = ParseIntParam(requestWithParam("index", "0"), "index")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	for _, raw := range []string{"-1", "abc", ""} {
		_, err := ParseIntParam(requestWithParam("index", raw), "index")
		require.Error(t, err, raw)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		assert.Equal(t, map[string]any{"field": "index"}, appErr.Details())
	}
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	_, err := ParseQueryInt(req, "limit", 20, 1, 100)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := ParseQueryInt(req, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, got)
}

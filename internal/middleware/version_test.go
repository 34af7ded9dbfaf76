package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runVersioned(t *testing.T, path string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewVersionMiddleware().APIVersionResolver()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, rec, handler(c)
}

func TestAPIVersionResolver_DefaultsWhenPathHasNoVersion(t *testing.T) {
	c, rec, err := runVersioned(t, "/warehouses")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", c.Get("api_version"))
}

func TestAPIVersionResolver_AcceptsSupportedVersion(t *testing.T) {
	c, rec, err := runVersioned(t, "/v1/warehouses")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", c.Get("api_version"))
}

func TestAPIVersionResolver_RejectsUnknownVersion(t *testing.T) {
	_, rec, err := runVersioned(t, "/v9/warehouses")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIVersionResolver_VersionLikePathIsNotAVersion(t *testing.T) {
	// /variants starts with /v but is a resource path, not a version prefix.
	c, rec, err := runVersioned(t, "/variants")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", c.Get("api_version"))
}

func TestVersionHeader_StampsResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/warehouses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewVersionMiddleware().VersionHeader("v1")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
}

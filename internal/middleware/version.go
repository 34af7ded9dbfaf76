package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// VersionMiddleware pins requests to a supported API version. Only v1 exists
// today; unknown /vN prefixes are rejected before routing.
type VersionMiddleware struct {
	supported      []string
	defaultVersion string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supported:      []string{"v1"},
		defaultVersion: "v1",
	}
}

// APIVersionResolver stores the requested version on the context, falling
// back to the default when the path carries no version prefix.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := versionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if !vm.isSupported(version) {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error":              "Unsupported API version",
					"supported_versions": strings.Join(vm.supported, ", "),
				})
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// VersionHeader stamps responses with the version that served them.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			return next(c)
		}
	}
}

func (vm *VersionMiddleware) isSupported(version string) bool {
	for _, v := range vm.supported {
		if v == version {
			return true
		}
	}
	return false
}

// versionFromPath matches a leading /vN segment. Paths like /variants fall
// through because the segment is not all digits after the v.
func versionFromPath(path string) string {
	if len(path) < 3 || path[0] != '/' || path[1] != 'v' {
		return ""
	}
	rest := path[2:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return ""
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return "v" + rest
}

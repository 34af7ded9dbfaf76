package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"fashionwms/internal/common"
)

// WarehouseScope restricts which warehouses a request may see. The gateway in
// front of this service resolves the caller's brand membership and forwards
// the allow-list in X-Warehouse-Scope as comma-separated UUIDs; requests
// without the header are unrestricted.
func WarehouseScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get("X-Warehouse-Scope"))
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, ",")
			ids := make([]uuid.UUID, 0, len(parts))
			for _, part := range parts {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := uuid.Parse(part)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "Invalid warehouse scope header")
				}
				ids = append(ids, id)
			}

			ctx := common.WithWarehouseScope(c.Request().Context(), ids)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fashionwms/internal/common"
	"fashionwms/internal/services"
)

// WarehouseHandlers handles HTTP requests for brands and warehouses
type WarehouseHandlers struct {
	warehouseService services.WarehouseService
}

func NewWarehouseHandlers(warehouseService services.WarehouseService) *WarehouseHandlers {
	return &WarehouseHandlers{warehouseService: warehouseService}
}

// CreateBrand handles POST /brands
func (h *WarehouseHandlers) CreateBrand(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	brand, err := h.warehouseService.CreateBrand(ctx, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Brand created successfully",
		"brand":   brand,
	})
}

// ListBrands handles GET /brands
func (h *WarehouseHandlers) ListBrands(c echo.Context) error {
	ctx := c.Request().Context()

	brands, err := h.warehouseService.ListBrands(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"brands": brands})
}

// CreateWarehouse handles POST /warehouses
func (h *WarehouseHandlers) CreateWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		BrandID   string `json:"brand_id"`
		Name      string `json:"name"`
		Address   string `json:"address"`
		IsCentral bool   `json:"is_central"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	brandID, err := common.ValidateUUID(req.BrandID, "brand ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	warehouse, err := h.warehouseService.Create(ctx, brandID, req.Name, req.Address, req.IsCentral)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Warehouse created successfully",
		"warehouse": warehouse,
	})
}

// GetWarehouse handles GET /warehouses/:id
func (h *WarehouseHandlers) GetWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	warehouse, err := h.warehouseService.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"warehouse": warehouse})
}

// ListWarehouses handles GET /warehouses
func (h *WarehouseHandlers) ListWarehouses(c echo.Context) error {
	ctx := c.Request().Context()

	warehouses, err := h.warehouseService.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"warehouses": warehouses})
}

// UpdateWarehouse handles PUT /warehouses/:id
func (h *WarehouseHandlers) UpdateWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	warehouse, err := h.warehouseService.Update(ctx, id, req.Name, req.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Warehouse updated",
		"warehouse": warehouse,
	})
}

// DeleteWarehouse handles DELETE /warehouses/:id
func (h *WarehouseHandlers) DeleteWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.warehouseService.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Warehouse deleted",
	})
}

// WarehouseSummary handles GET /warehouses/:id/summary
func (h *WarehouseHandlers) WarehouseSummary(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary, err := h.warehouseService.Summary(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

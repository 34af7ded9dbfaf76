package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fashionwms/internal/common"
	"fashionwms/internal/services"
)

// InventoryHandlers handles HTTP requests for stock levels and movements
type InventoryHandlers struct {
	inventoryService services.InventoryService
}

func NewInventoryHandlers(inventoryService services.InventoryService) *InventoryHandlers {
	return &InventoryHandlers{inventoryService: inventoryService}
}

// Transfer handles POST /inventory/transfers
func (h *InventoryHandlers) Transfer(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		FromWarehouseID string `json:"from_warehouse_id"`
		ToWarehouseID   string `json:"to_warehouse_id"`
		Items           []struct {
			VariantID string `json:"variant_id"`
			Quantity  string `json:"quantity"`
		} `json:"items"`
		Note string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	fromID, err := common.ValidateUUID(req.FromWarehouseID, "source warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	toID, err := common.ValidateUUID(req.ToWarehouseID, "destination warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items := make([]services.TransferItem, 0, len(req.Items))
	for _, in := range req.Items {
		variantID, err := common.ValidateUUID(in.VariantID, "variant ID")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		quantity, err := decimal.NewFromString(in.Quantity)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid quantity")
		}
		items = append(items, services.TransferItem{VariantID: variantID, Quantity: quantity})
	}

	if err := h.inventoryService.Transfer(ctx, services.TransferParams{
		FromWarehouseID: fromID,
		ToWarehouseID:   toID,
		Items:           items,
		Note:            req.Note,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Transfer completed successfully",
	})
}

// OnHand handles GET /inventory/warehouses/:warehouse_id/variants/:variant_id
func (h *InventoryHandlers) OnHand(c echo.Context) error {
	ctx := c.Request().Context()

	warehouseID, err := common.ValidateUUID(c.Param("warehouse_id"), "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	variantID, err := common.ValidateUUID(c.Param("variant_id"), "variant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	qty, err := h.inventoryService.OnHand(ctx, warehouseID, variantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"warehouse_id":     warehouseID,
		"variant_id":       variantID,
		"quantity_on_hand": qty,
	})
}

// TotalOnHand handles GET /inventory/variants/:variant_id/total
func (h *InventoryHandlers) TotalOnHand(c echo.Context) error {
	ctx := c.Request().Context()

	variantID, err := common.ValidateUUID(c.Param("variant_id"), "variant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	qty, err := h.inventoryService.TotalOnHand(ctx, variantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"variant_id":       variantID,
		"quantity_on_hand": qty,
	})
}

// History handles GET /inventory/warehouses/:warehouse_id/variants/:variant_id/history
func (h *InventoryHandlers) History(c echo.Context) error {
	ctx := c.Request().Context()

	warehouseID, err := common.ValidateUUID(c.Param("warehouse_id"), "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	variantID, err := common.ValidateUUID(c.Param("variant_id"), "variant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	limit, offset := pagination(c)

	transactions, err := h.inventoryService.History(ctx, warehouseID, variantID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"limit":        limit,
		"offset":       offset,
	})
}

// ListByWarehouse handles GET /inventory/warehouses/:warehouse_id
func (h *InventoryHandlers) ListByWarehouse(c echo.Context) error {
	ctx := c.Request().Context()

	warehouseID, err := common.ValidateUUID(c.Param("warehouse_id"), "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stocks, err := h.inventoryService.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stocks": stocks})
}

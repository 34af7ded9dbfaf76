package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fashionwms/internal/common"
	"fashionwms/internal/services"
)

// PurchaseHandlers handles HTTP requests for purchase orders and suppliers
type PurchaseHandlers struct {
	purchaseService services.PurchaseService
}

func NewPurchaseHandlers(purchaseService services.PurchaseService) *PurchaseHandlers {
	return &PurchaseHandlers{purchaseService: purchaseService}
}

type purchaseLineRequest struct {
	VariantID string          `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchase handles POST /purchases
func (h *PurchaseHandlers) CreatePurchase(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code        string                  `json:"po_code"`
		WarehouseID string                  `json:"warehouse_id"`
		SupplierID  *string                 `json:"supplier_id"`
		NewSupplier *services.SupplierInput `json:"new_supplier"`
		OrderDate   string                  `json:"order_date"`
		Lines       []purchaseLineRequest   `json:"lines"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	warehouseID, err := common.ValidateUUID(req.WarehouseID, "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var supplierID *uuid.UUID
	if req.SupplierID != nil && *req.SupplierID != "" {
		id, err := common.ValidateUUID(*req.SupplierID, "supplier ID")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		supplierID = &id
	}
	lines, err := parsePurchaseLines(req.Lines)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	params := services.PurchaseParams{
		Code:        req.Code,
		WarehouseID: warehouseID,
		SupplierID:  supplierID,
		NewSupplier: req.NewSupplier,
		Lines:       lines,
	}
	if parsed, err := common.ParseDate(req.OrderDate, "order date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	} else if parsed != nil {
		params.OrderDate = *parsed
	}

	details, err := h.purchaseService.Create(ctx, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Purchase order created successfully",
		"purchase": details,
	})
}

// GetPurchase handles GET /purchases/:id
func (h *PurchaseHandlers) GetPurchase(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "purchase order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	details, err := h.purchaseService.Get(ctx, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// ListPurchases handles GET /purchases
func (h *PurchaseHandlers) ListPurchases(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := pagination(c)

	orders, err := h.purchaseService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"purchases": orders,
		"limit":     limit,
		"offset":    offset,
	})
}

// UpdatePurchase handles PUT /purchases/:id
func (h *PurchaseHandlers) UpdatePurchase(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "purchase order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		OrderDate *string               `json:"order_date"`
		Lines     []purchaseLineRequest `json:"lines"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	lines, err := parsePurchaseLines(req.Lines)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var orderDate *time.Time
	if req.OrderDate != nil {
		orderDate, err = common.ParseDate(*req.OrderDate, "order date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	details, err := h.purchaseService.Update(ctx, orderID, orderDate, lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Purchase order updated",
		"purchase": details,
	})
}

// DeletePurchase handles DELETE /purchases/:id
func (h *PurchaseHandlers) DeletePurchase(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "purchase order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.purchaseService.Delete(ctx, orderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Purchase order deleted",
	})
}

// CreateSupplier handles POST /suppliers
func (h *PurchaseHandlers) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.SupplierInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	supplier, err := h.purchaseService.CreateSupplier(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Supplier created successfully",
		"supplier": supplier,
	})
}

// GetSupplier handles GET /suppliers/:id
func (h *PurchaseHandlers) GetSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "supplier ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	supplier, err := h.purchaseService.GetSupplier(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"supplier": supplier})
}

// ListSuppliers handles GET /suppliers
func (h *PurchaseHandlers) ListSuppliers(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := pagination(c)

	suppliers, err := h.purchaseService.ListSuppliers(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"limit":     limit,
		"offset":    offset,
	})
}

func parsePurchaseLines(in []purchaseLineRequest) ([]services.PurchaseLineInput, error) {
	lines := make([]services.PurchaseLineInput, 0, len(in))
	for _, l := range in {
		variantID, err := common.ValidateUUID(l.VariantID, "variant ID")
		if err != nil {
			return nil, err
		}
		lines = append(lines, services.PurchaseLineInput{
			VariantID: variantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return lines, nil
}

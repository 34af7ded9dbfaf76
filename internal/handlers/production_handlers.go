package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fashionwms/internal/common"
	"fashionwms/internal/models"
	"fashionwms/internal/services"
)

// ProductionHandlers handles HTTP requests for recipes and production orders
type ProductionHandlers struct {
	productionService services.ProductionService
}

func NewProductionHandlers(productionService services.ProductionService) *ProductionHandlers {
	return &ProductionHandlers{productionService: productionService}
}

type recipeLineRequest struct {
	MaterialVariantID string          `json:"material_variant_id"`
	QtyPerUnit        decimal.Decimal `json:"quantity_needed"`
}

type materialRequest struct {
	MaterialVariantID string          `json:"material_variant_id"`
	TotalQty          decimal.Decimal `json:"total_quantity"`
}

type sizeRequest struct {
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
}

// CreateRecipe handles POST /production/recipes
func (h *ProductionHandlers) CreateRecipe(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		OutputVariantID string              `json:"output_variant_id"`
		Name            string              `json:"name"`
		Lines           []recipeLineRequest `json:"lines"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	outputVariantID, err := common.ValidateUUID(req.OutputVariantID, "output variant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lines := make([]models.BOMLine, 0, len(req.Lines))
	for _, in := range req.Lines {
		materialID, err := common.ValidateUUID(in.MaterialVariantID, "material variant ID")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		lines = append(lines, models.BOMLine{MaterialVariantID: materialID, QtyPerUnit: in.QtyPerUnit})
	}

	if err := h.productionService.CreateRecipe(ctx, outputVariantID, req.Name, lines); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Recipe saved successfully",
	})
}

// GetRecipe handles GET /production/recipes/:variant_id
func (h *ProductionHandlers) GetRecipe(c echo.Context) error {
	ctx := c.Request().Context()

	variantID, err := common.ValidateUUID(c.Param("variant_id"), "variant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recipe, lines, err := h.productionService.GetRecipe(ctx, variantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"recipe": recipe,
		"lines":  lines,
	})
}

// CreateOrder handles POST /production/orders
func (h *ProductionHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code            string                `json:"code"`
		WarehouseID     string                `json:"warehouse_id"`
		OutputVariantID string                `json:"output_variant_id"`
		Sizes           []sizeRequest         `json:"sizes"`
		PlannedQty      int                   `json:"quantity_planned"`
		Materials       []materialRequest     `json:"materials"`
		RecipeName      string                `json:"recipe_name"`
		Fees            models.CostComponents `json:"fees"`
		StartDate       string                `json:"start_date"`
		DueDate         string                `json:"due_date"`
		ImageURLs       []string              `json:"images"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	warehouseID, err := common.ValidateUUID(req.WarehouseID, "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	outputVariantID, err := common.ValidateUUID(req.OutputVariantID, "output variant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	materials, err := parseMaterials(req.Materials)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	startDate, dueDate, err := parseOrderDates(req.StartDate, req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	details, err := h.productionService.Create(ctx, services.CreateOrderParams{
		Code:            req.Code,
		WarehouseID:     warehouseID,
		OutputVariantID: outputVariantID,
		Sizes:           parseSizes(req.Sizes),
		PlannedQty:      req.PlannedQty,
		Materials:       materials,
		RecipeName:      req.RecipeName,
		Fees:            req.Fees,
		StartDate:       startDate,
		DueDate:         dueDate,
		ImageURLs:       req.ImageURLs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Production order created successfully",
		"order":   details,
	})
}

// CreateQuickOrder handles POST /production/orders/quick
func (h *ProductionHandlers) CreateQuickOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code        string                `json:"code"`
		WarehouseID string                `json:"warehouse_id"`
		ProductName string                `json:"product_name"`
		VariantName string                `json:"variant_name"`
		SKU         string                `json:"sku"`
		BaseUnit    string                `json:"base_unit"`
		Sizes       []sizeRequest         `json:"sizes"`
		Materials   []materialRequest     `json:"materials"`
		RecipeName  string                `json:"recipe_name"`
		Fees        models.CostComponents `json:"fees"`
		StartDate   string                `json:"start_date"`
		DueDate     string                `json:"due_date"`
		ImageURLs   []string              `json:"images"`
		AutoStart   bool                  `json:"auto_start"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	warehouseID, err := common.ValidateUUID(req.WarehouseID, "warehouse ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	materials, err := parseMaterials(req.Materials)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	startDate, dueDate, err := parseOrderDates(req.StartDate, req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	details, err := h.productionService.CreateQuick(ctx, services.QuickOrderParams{
		Code:        req.Code,
		WarehouseID: warehouseID,
		ProductName: req.ProductName,
		VariantName: req.VariantName,
		SKU:         req.SKU,
		BaseUnit:    req.BaseUnit,
		Sizes:       parseSizes(req.Sizes),
		Materials:   materials,
		RecipeName:  req.RecipeName,
		Fees:        req.Fees,
		StartDate:   startDate,
		DueDate:     dueDate,
		ImageURLs:   req.ImageURLs,
		AutoStart:   req.AutoStart,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Production order created successfully",
		"order":   details,
	})
}

// ListOrders handles GET /production/orders
func (h *ProductionHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := pagination(c)

	orders, err := h.productionService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// GetOrder handles GET /production/orders/:id
func (h *ProductionHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	details, err := h.productionService.GetDetails(ctx, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// StartOrder handles POST /production/orders/:id/start
func (h *ProductionHandlers) StartOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.productionService.Start(ctx, orderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Production started",
	})
}

// ReceiveOrder handles POST /production/orders/:id/receive
func (h *ProductionHandlers) ReceiveOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		Items []struct {
			SizeItemID string `json:"size_item_id"`
			Quantity   int    `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	items := make([]services.ReceiveItem, 0, len(req.Items))
	for _, in := range req.Items {
		sizeItemID, err := common.ValidateUUID(in.SizeItemID, "size item ID")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		items = append(items, services.ReceiveItem{SizeItemID: sizeItemID, Quantity: in.Quantity})
	}

	if err := h.productionService.Receive(ctx, orderID, items); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Goods receipt posted",
	})
}

// FinishOrder handles POST /production/orders/:id/finish
func (h *ProductionHandlers) FinishOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.productionService.ForceFinish(ctx, orderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Production order completed",
	})
}

// UpdateOrder handles PUT /production/orders/:id
func (h *ProductionHandlers) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		Fees      *models.CostComponents `json:"fees"`
		StartDate *string                `json:"start_date"`
		DueDate   *string                `json:"due_date"`
		SizeEdits []struct {
			SizeItemID string `json:"size_item_id"`
			Planned    int    `json:"quantity_planned"`
		} `json:"size_edits"`
		MaterialEdits []materialRequest `json:"material_edits"`
		NewSKU        *string           `json:"sku"`
		ImageURLs     *[]string         `json:"images"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	params := services.UpdateOrderParams{
		Fees:      req.Fees,
		NewSKU:    req.NewSKU,
		ImageURLs: req.ImageURLs,
	}
	if req.StartDate != nil {
		parsed, err := common.ParseDate(*req.StartDate, "start date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		params.StartDate = parsed
	}
	if req.DueDate != nil {
		parsed, err := common.ParseDate(*req.DueDate, "due date")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		params.DueDate = parsed
	}
	for _, in := range req.SizeEdits {
		sizeItemID, err := common.ValidateUUID(in.SizeItemID, "size item ID")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		params.SizeEdits = append(params.SizeEdits, services.SizeEdit{SizeItemID: sizeItemID, Planned: in.Planned})
	}
	for _, in := range req.MaterialEdits {
		materialID, err := common.ValidateUUID(in.MaterialVariantID, "material variant ID")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		params.MaterialEdits = append(params.MaterialEdits, services.MaterialEdit{
			MaterialVariantID: materialID,
			TotalQty:          in.TotalQty,
		})
	}

	if err := h.productionService.Update(ctx, orderID, params); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Production order updated",
	})
}

// DeleteOrder handles DELETE /production/orders/:id
func (h *ProductionHandlers) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.productionService.Delete(ctx, orderID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Production order deleted",
	})
}

// RevertReceiveLog handles DELETE /production/receive-logs/:id
func (h *ProductionHandlers) RevertReceiveLog(c echo.Context) error {
	ctx := c.Request().Context()

	logID, err := common.ValidateUUID(c.Param("id"), "receive log ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.productionService.RevertReceiveLog(ctx, logID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Goods receipt reverted",
	})
}

// ReceiveHistory handles GET /production/orders/:id/receive-logs
func (h *ProductionHandlers) ReceiveHistory(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	logs, err := h.productionService.ReceiveHistory(ctx, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"receive_logs": logs})
}

// Reservations handles GET /production/orders/:id/reservations
func (h *ProductionHandlers) Reservations(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reservations, err := h.productionService.Reservations(ctx, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reservations": reservations})
}

// PrintData handles GET /production/orders/:id/print
func (h *ProductionHandlers) PrintData(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data, err := h.productionService.PrintData(ctx, orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

// SetStepDone handles PATCH /production/orders/:id/steps/:step_id
func (h *ProductionHandlers) SetStepDone(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	stepID, err := common.ValidateUUID(c.Param("step_id"), "step ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		Done bool `json:"done"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.productionService.SetStepDone(ctx, orderID, stepID, req.Done); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Progress step updated",
	})
}

func parseSizes(in []sizeRequest) []services.SizeInput {
	sizes := make([]services.SizeInput, 0, len(in))
	for _, s := range in {
		sizes = append(sizes, services.SizeInput{Label: s.Label, Quantity: s.Quantity})
	}
	return sizes
}

func parseMaterials(in []materialRequest) ([]models.MaterialRequirement, error) {
	materials := make([]models.MaterialRequirement, 0, len(in))
	for _, m := range in {
		materialID, err := common.ValidateUUID(m.MaterialVariantID, "material variant ID")
		if err != nil {
			return nil, err
		}
		materials = append(materials, models.MaterialRequirement{
			MaterialVariantID: materialID,
			TotalQty:          m.TotalQty,
		})
	}
	return materials, nil
}

func parseOrderDates(start, due string) (time.Time, time.Time, error) {
	startDate := time.Now()
	if parsed, err := common.ParseDate(start, "start date"); err != nil {
		return time.Time{}, time.Time{}, err
	} else if parsed != nil {
		startDate = *parsed
	}
	dueDate := startDate
	if parsed, err := common.ParseDate(due, "due date"); err != nil {
		return time.Time{}, time.Time{}, err
	} else if parsed != nil {
		dueDate = *parsed
	}
	return startDate, dueDate, nil
}

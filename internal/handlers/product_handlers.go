package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fashionwms/internal/common"
	"fashionwms/internal/models"
	"fashionwms/internal/services"
)

// ProductHandlers handles HTTP requests for the variant registry
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateVariant handles POST /variants
func (h *ProductHandlers) CreateVariant(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		ProductName string `json:"product_name"`
		ProductType string `json:"product_type"`
		BaseUnit    string `json:"base_unit"`
		VariantName string `json:"variant_name"`
		SKU         string `json:"sku"`
		Attributes  string `json:"attributes"`
		UnitCost    string `json:"unit_cost"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	unitCost := decimal.Zero
	if strings.TrimSpace(req.UnitCost) != "" {
		parsed, err := decimal.NewFromString(req.UnitCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid unit cost")
		}
		unitCost = parsed
	}

	variant, err := h.productService.CreateVariant(ctx, services.VariantInput{
		ProductName: req.ProductName,
		ProductType: models.ProductType(req.ProductType),
		BaseUnit:    req.BaseUnit,
		VariantName: req.VariantName,
		SKU:         req.SKU,
		Attributes:  req.Attributes,
		UnitCost:    unitCost,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Variant created successfully",
		"variant": variant,
	})
}

// GetVariant handles GET /variants/:id
func (h *ProductHandlers) GetVariant(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "variant ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	variant, err := h.productService.GetVariant(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"variant": variant})
}

// GetVariantBySKU handles GET /variants/sku/:sku
func (h *ProductHandlers) GetVariantBySKU(c echo.Context) error {
	ctx := c.Request().Context()

	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "SKU is required")
	}

	variant, err := h.productService.GetVariantBySKU(ctx, sku)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"variant": variant})
}

// ListVariants handles GET /variants
func (h *ProductHandlers) ListVariants(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := pagination(c)

	var productType *models.ProductType
	if t := c.QueryParam("type"); t != "" {
		if t != string(models.ProductTypeMaterial) && t != string(models.ProductTypeFinishedGood) {
			return echo.NewHTTPError(http.StatusBadRequest, "type must be material or finished_good")
		}
		pt := models.ProductType(t)
		productType = &pt
	}

	variants, err := h.productService.List(ctx, productType, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"variants": variants,
		"limit":    limit,
		"offset":   offset,
	})
}

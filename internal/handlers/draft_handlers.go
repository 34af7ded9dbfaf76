package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fashionwms/internal/common"
	"fashionwms/internal/services"
)

// DraftHandlers handles HTTP requests for sample design drafts
type DraftHandlers struct {
	draftService services.DraftService
}

func NewDraftHandlers(draftService services.DraftService) *DraftHandlers {
	return &DraftHandlers{draftService: draftService}
}

// CreateDraft handles POST /drafts
func (h *DraftHandlers) CreateDraft(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.DraftInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	draft, err := h.draftService.Create(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Draft created successfully",
		"draft":   draft,
	})
}

// GetDraft handles GET /drafts/:id
func (h *DraftHandlers) GetDraft(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "draft ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	draft, err := h.draftService.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"draft": draft})
}

// ListDrafts handles GET /drafts
func (h *DraftHandlers) ListDrafts(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := pagination(c)

	drafts, err := h.draftService.List(ctx, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"drafts": drafts,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateDraft handles PUT /drafts/:id
func (h *DraftHandlers) UpdateDraft(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "draft ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req services.DraftInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	draft, err := h.draftService.Update(ctx, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Draft updated",
		"draft":   draft,
	})
}

// DeleteDraft handles DELETE /drafts/:id
func (h *DraftHandlers) DeleteDraft(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "draft ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.draftService.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Draft deleted",
	})
}

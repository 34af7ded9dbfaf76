package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fashionwms/internal/apperrors"
	"fashionwms/internal/common"
)

// respondError translates a typed business error into the standard error
// envelope. Unknown errors stay opaque 500s.
func respondError(c echo.Context, err error) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return c.JSON(http.StatusInternalServerError, common.CreateErrorResponse("internal_error", "internal server error", nil))
	}

	var details map[string]string
	if appErr.Resource != "" {
		details = map[string]string{"resource": appErr.Resource}
	}
	return c.JSON(statusFor(appErr.Kind), common.CreateErrorResponse(appErr.Kind.String(), appErr.Message, details))
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindInvalidBatchSize:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindDuplicateCode,
		apperrors.KindInsufficientStock,
		apperrors.KindCannotRevert,
		apperrors.KindCannotDelete,
		apperrors.KindInvalidStateTransition:
		return http.StatusConflict
	case apperrors.KindRecipeMissing:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// pagination parses limit/offset query params with sane defaults.
func pagination(c echo.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v := c.QueryParam("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

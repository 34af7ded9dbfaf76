package common

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	// WarehouseScopeKey carries the warehouse allow-list for the request.
	// A nil value means unrestricted access.
	WarehouseScopeKey contextKey = "warehouse_scope"
)

// WithWarehouseScope returns a context restricted to the given warehouse IDs.
func WithWarehouseScope(ctx context.Context, warehouseIDs []uuid.UUID) context.Context {
	return context.WithValue(ctx, WarehouseScopeKey, warehouseIDs)
}

// WarehouseScope reads the warehouse allow-list from the context.
// The second return is false when the request is unrestricted.
func WarehouseScope(ctx context.Context) ([]uuid.UUID, bool) {
	ids, ok := ctx.Value(WarehouseScopeKey).([]uuid.UUID)
	if !ok || ids == nil {
		return nil, false
	}
	return ids, true
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID: %v", fieldName, err)
	}
	return id, nil
}

// ParseDate parses an optional YYYY-MM-DD date string.
func ParseDate(dateStr, fieldName string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	return &date, nil
}

package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies a business error so handlers can map it to a response
// without inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicateCode
	KindRecipeMissing
	KindInsufficientStock
	KindInvalidBatchSize
	KindCannotRevert
	KindCannotDelete
	KindInvalidStateTransition
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindDuplicateCode:
		return "duplicate_code"
	case KindRecipeMissing:
		return "recipe_missing"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindInvalidBatchSize:
		return "invalid_batch_size"
	case KindCannotRevert:
		return "cannot_revert"
	case KindCannotDelete:
		return "cannot_delete"
	case KindInvalidStateTransition:
		return "invalid_state_transition"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every core operation. Resource names
// the offending entity (SKU, order code, warehouse) when known.
type Error struct {
	Kind     Kind
	Resource string
	Message  string
}

func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is match on the Kind alone, so callers can compare against
// a bare &Error{Kind: ...} sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Resource == "" || t.Resource == e.Resource)
}

func New(kind Kind, resource, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Resource: resource, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, "", format, args...)
}

func NotFound(resource string) *Error {
	return New(KindNotFound, resource, "not found")
}

func DuplicateCode(code string) *Error {
	return New(KindDuplicateCode, code, "code already in use")
}

func RecipeMissing(sku string) *Error {
	return New(KindRecipeMissing, sku, "no recipe defined for output variant")
}

// InsufficientStock names the short resource and the exact shortfall, which
// callers surface to the user verbatim.
func InsufficientStock(resource string, needed, available decimal.Decimal) *Error {
	return New(KindInsufficientStock, resource,
		"need %s, have %s", needed.String(), available.String())
}

func InvalidBatchSize(batch int) *Error {
	return New(KindInvalidBatchSize, "", "batch quantity must be positive, got %d", batch)
}

func CannotRevert(resource string, logged, available decimal.Decimal) *Error {
	return New(KindCannotRevert, resource,
		"reversing %s would drive stock negative, only %s on hand", logged.String(), available.String())
}

func CannotDelete(resource string, reversing, available decimal.Decimal) *Error {
	return New(KindCannotDelete, resource,
		"reversing %s would drive stock negative, only %s on hand", reversing.String(), available.String())
}

func InvalidStateTransition(resource, from, to string) *Error {
	return New(KindInvalidStateTransition, resource, "cannot move from %s to %s", from, to)
}

// KindOf extracts the Kind from any error chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

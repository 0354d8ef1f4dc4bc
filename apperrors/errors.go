// Package apperrors defines the closed set of business error variants the
// order core can produce. Callers classify by Kind or Code, never by message
// text.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable error category.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindNotFound             Kind = "not_found"
	KindForbidden            Kind = "forbidden"
	KindInvalidTransition    Kind = "invalid_transition"
	KindInvalidState         Kind = "invalid_state"
	KindConflict             Kind = "conflict"
	KindRestaurantClosed     Kind = "restaurant_closed"
	KindItemUnavailable      Kind = "item_unavailable"
	KindForeignRestaurant    Kind = "foreign_restaurant"
	KindDelivererUnavailable Kind = "deliverer_unavailable"
	KindEmptyCart            Kind = "empty_cart"
	KindTransient            Kind = "transient"
)

// Error is a tagged business error. Kind drives classification, Code is the
// stable wire-level identifier, Resource/ResourceID point at the offending
// entity when there is one.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Resource   string
	ResourceID string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// From extracts an *Error from err's chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := From(err)
	return ok && appErr.Kind == kind
}

// Validation builds a malformed-input error with the stable VALIDATION_ERROR
// code. Use ValidationCode when a more specific code applies.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

// ValidationCode builds a validation error with a caller-chosen code.
func ValidationCode(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NotFound builds an absent-resource error; code is derived from the resource
// name, e.g. ORDER_NOT_FOUND.
func NotFound(resource, id string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Code:       upperSnake(resource) + "_NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		Resource:   resource,
		ResourceID: id,
	}
}

// Forbidden builds an ownership-violation error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

// EmptyCart rejects a checkout with no line items.
func EmptyCart() *Error {
	return &Error{Kind: KindEmptyCart, Code: "EMPTY_CART", Message: "cart must contain at least one item"}
}

// RestaurantClosed rejects checkout against a restaurant that is not open.
func RestaurantClosed(id string) *Error {
	return &Error{
		Kind:       KindRestaurantClosed,
		Code:       "RESTAURANT_CLOSED",
		Message:    "restaurant is not accepting orders",
		Resource:   "restaurant",
		ResourceID: id,
	}
}

// ItemUnavailable rejects a cart line whose menu item is not available.
func ItemUnavailable(id string) *Error {
	return &Error{
		Kind:       KindItemUnavailable,
		Code:       "ITEM_UNAVAILABLE",
		Message:    "menu item is not available",
		Resource:   "menu item",
		ResourceID: id,
	}
}

// ForeignRestaurant rejects a cart line belonging to a different restaurant
// than the cart's.
func ForeignRestaurant(id string) *Error {
	return &Error{
		Kind:       KindForeignRestaurant,
		Code:       "FOREIGN_RESTAURANT_ITEM",
		Message:    "menu item belongs to a different restaurant",
		Resource:   "menu item",
		ResourceID: id,
	}
}

// DelivererUnavailable rejects assignment of a deliverer who is not in the
// available pool.
func DelivererUnavailable(id string) *Error {
	return &Error{
		Kind:       KindDelivererUnavailable,
		Code:       "DELIVERER_UNAVAILABLE",
		Message:    "deliverer is not available",
		Resource:   "deliverer",
		ResourceID: id,
	}
}

// InvalidTransition rejects a status change not present in the transition
// table; the message carries both statuses for diagnostics.
func InvalidTransition(current, requested string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Code:    "INVALID_TRANSITION",
		Message: fmt.Sprintf("cannot transition order from %q to %q", current, requested),
	}
}

// InvalidState rejects an operation that is not legal from the order's
// current status.
func InvalidState(current string) *Error {
	return &Error{
		Kind:    KindInvalidState,
		Code:    "INVALID_ORDER_STATE",
		Message: fmt.Sprintf("operation not permitted while order is %q", current),
	}
}

// Conflict reports a lost-update race detected by a compare-and-set write.
// Retryable by the caller.
func Conflict(resource, id string) *Error {
	return &Error{
		Kind:       KindConflict,
		Code:       "CONCURRENT_MODIFICATION",
		Message:    fmt.Sprintf("%s was modified concurrently, retry the request", resource),
		Resource:   resource,
		ResourceID: id,
	}
}

// Transient wraps an infrastructure failure (store unavailable, timeout).
// This is the only class an infrastructure wrapper may retry automatically.
func Transient(err error) *Error {
	return &Error{
		Kind:    KindTransient,
		Code:    "TRANSIENT_FAILURE",
		Message: "temporary failure, retry later",
		Err:     err,
	}
}

// HTTPStatus maps an error to the response status for the HTTP binding.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	appErr, ok := From(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict, KindDelivererUnavailable:
		return http.StatusConflict
	case KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func upperSnake(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-('a'-'A'))
		case c == ' ' || c == '-':
			out = append(out, '_')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

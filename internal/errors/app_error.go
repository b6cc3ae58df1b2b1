package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeDuplicateEntry    = "DUPLICATE_ENTRY"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeThirdPartyError   = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeResourceExhausted = "RESOURCE_EXHAUSTED"

	// checkout
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeCartNotActive    = "CART_NOT_ACTIVE"
	ErrCodeItemNotFound     = "ITEM_NOT_FOUND"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodePaymentDeclined  = "PAYMENT_DECLINED"
	ErrCodeInvalidStatusHop = "INVALID_STATUS_TRANSITION"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func DuplicateEntryError(message string) *AppError {
	return NewAppError(ErrCodeDuplicateEntry, message, http.StatusConflict)
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrCodeConflict, message, http.StatusConflict)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusBadGateway)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

func ResourceExhaustedError(message string) *AppError {
	return NewAppError(ErrCodeResourceExhausted, message, http.StatusTooManyRequests)
}

func InvalidQuantityError() *AppError {
	return NewAppError(ErrCodeInvalidQuantity, "Quantity must be a positive integer", http.StatusBadRequest)
}

func EmptyCartError() *AppError {
	return NewAppError(ErrCodeEmptyCart, "Cart is empty", http.StatusBadRequest)
}

func CartNotActiveError() *AppError {
	return NewAppError(ErrCodeCartNotActive, "Cart is no longer active", http.StatusConflict)
}

func ItemNotFoundError() *AppError {
	return NewAppError(ErrCodeItemNotFound, "Cart item not found", http.StatusNotFound)
}

func OrderNotFoundError() *AppError {
	return NewAppError(ErrCodeOrderNotFound, "Order not found", http.StatusNotFound)
}

func PaymentDeclinedError(reason string) *AppError {
	return NewAppError(ErrCodePaymentDeclined, "Payment declined", http.StatusPaymentRequired).WithDetail(reason)
}

func InvalidStatusTransitionError(from, to string) *AppError {
	return NewAppError(ErrCodeInvalidStatusHop, "Order status transition not allowed", http.StatusConflict).
		WithDetail(fmt.Sprintf("%s -> %s", from, to))
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// AddValidationError builds a single-field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}

package errors

import (
	"errors"
	"fmt"
)

// MarketError represents base marketplace error
type MarketError struct {
	Code    string
	Message string
	Cause   error
}

func (e *MarketError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *MarketError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeValidation        = "VALIDATION"
	ErrCodeLedgerInvariant   = "LEDGER_INVARIANT"
	ErrCodeMessaging         = "MESSAGING"
)

// NewProductNotFoundError creates product not found error
func NewProductNotFoundError(productID string) *MarketError {
	return &MarketError{
		Code:    ErrCodeProductNotFound,
		Message: "Product not found",
		Cause:   fmt.Errorf("unknown product id %s", productID),
	}
}

// NewInsufficientStockError creates insufficient stock error
func NewInsufficientStockError(productID string, requested, available uint32) *MarketError {
	return &MarketError{
		Code:    ErrCodeInsufficientStock,
		Message: "Insufficient stock",
		Cause:   fmt.Errorf("product %s: requested %d, available %d", productID, requested, available),
	}
}

// NewValidationError creates validation error
func NewValidationError(message string, cause error) *MarketError {
	return &MarketError{
		Code:    ErrCodeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewLedgerInvariantError creates ledger invariant violation error
func NewLedgerInvariantError(message string, cause error) *MarketError {
	return &MarketError{
		Code:    ErrCodeLedgerInvariant,
		Message: message,
		Cause:   cause,
	}
}

// NewMessagingError creates messaging error
func NewMessagingError(message string, cause error) *MarketError {
	return &MarketError{
		Code:    ErrCodeMessaging,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the marketplace error code carried by err, or the empty
// string when err is not a MarketError.
func CodeOf(err error) string {
	var merr *MarketError
	if errors.As(err, &merr) {
		return merr.Code
	}
	return ""
}

// MessageOf returns the human-readable message carried by err, falling back
// to err.Error() for plain errors.
func MessageOf(err error) string {
	var merr *MarketError
	if errors.As(err, &merr) {
		return merr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

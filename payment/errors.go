package payment

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig marks a driver that cannot be resolved or built from configuration.
	ErrInvalidConfig = errors.New("invalid payment configuration")
	// ErrPurchaseFailed matches every *PurchaseFailedError.
	ErrPurchaseFailed = errors.New("purchase failed")
	// ErrInvalidPayment matches every *InvalidPaymentError.
	ErrInvalidPayment = errors.New("invalid payment")
)

// PurchaseFailedError is returned when a provider rejects a purchase request.
type PurchaseFailedError struct {
	Message string
	Code    int
	Body    []byte
}

func (e *PurchaseFailedError) Error() string {
	return fmt.Sprintf("purchase failed: %s (code %d)", e.Message, e.Code)
}

func (e *PurchaseFailedError) Is(target error) bool { return target == ErrPurchaseFailed }

// InvalidPaymentError is returned when a provider refuses to verify a payment.
type InvalidPaymentError struct {
	Message string
	Code    int
	Body    []byte
}

func (e *InvalidPaymentError) Error() string {
	return fmt.Sprintf("invalid payment: %s (code %d)", e.Message, e.Code)
}

func (e *InvalidPaymentError) Is(target error) bool { return target == ErrInvalidPayment }

package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a submit attempt with nothing to purchase.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrConcurrentSubmission rejects a second submit while a placement is
	// already in flight for the session.
	ErrConcurrentSubmission = errors.New("an order placement is already in progress")

	// ErrNotAwaitingPayment rejects a confirm or cancel when no online
	// payment is pending.
	ErrNotAwaitingPayment = errors.New("no payment is awaiting confirmation")
)

// ValidationError marks a missing or blank required shipping field. The
// workflow returns to Idle with no side effects.
type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// PersistenceError wraps a failed order write. The cart and shipping data are
// preserved so the shopper can retry without re-entering anything.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "order could not be saved: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PaymentError wraps a failure while opening or verifying an online payment.
type PaymentError struct {
	Err error
}

func (e *PaymentError) Error() string {
	return "payment failed: " + e.Err.Error()
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

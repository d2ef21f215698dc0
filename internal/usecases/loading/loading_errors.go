package loading

import (
	"errors"
	"fmt"
)

// Failure causes the loader can report
var (
	ErrReadFailed       = errors.New("failed to read from the transaction source")
	ErrNoProducts       = errors.New("products table is empty")
	ErrNoClients        = errors.New("clients table is empty")
	ErrNoSales          = errors.New("sales table is empty")
	ErrJoinIntegrity    = errors.New("sale references a missing product or client")
	ErrInvalidDate      = errors.New("sale date is not a parseable calendar date")
	ErrInvalidAmount    = errors.New("amount is not a valid non-negative decimal")
	ErrInvalidUnitPrice = errors.New("unit price is not a valid non-negative decimal")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrMissingField     = errors.New("required text field is empty")
)

// SourceError wraps any failure while obtaining or normalizing the joined
// transaction rows. One bad row invalidates the whole load.
type SourceError struct {
	Err     error // base cause
	SaleID  int64 // offending sale, when applicable
	Details string
}

func (e *SourceError) Error() string {
	if e.SaleID != 0 {
		return fmt.Sprintf("source error on sale %d: %s: %s", e.SaleID, e.Err.Error(), e.Details)
	}
	if e.Details != "" {
		return fmt.Sprintf("source error: %s: %s", e.Err.Error(), e.Details)
	}
	return fmt.Sprintf("source error: %s", e.Err.Error())
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func NewSourceError(err error, details string) *SourceError {
	return &SourceError{
		Err:     err,
		Details: details,
	}
}

func NewSourceErrorForSale(err error, saleID int64, details string) *SourceError {
	return &SourceError{
		Err:     err,
		SaleID:  saleID,
		Details: details,
	}
}

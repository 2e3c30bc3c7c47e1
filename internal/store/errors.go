package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates the request failed shape or range checks.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates no item exists with the requested id.
	ErrNotFound = errors.New("item not found")
	// ErrInsufficientStock indicates a sale asked for more units than are available.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports an oversell attempt.
type InsufficientStockError struct {
	ID        int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: item %d has %d units, %d requested", ErrInsufficientStock, e.ID, e.Available, e.Requested)
}

// Is lets errors.Is match ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(id int) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPatch    = errors.New("invalid order update payload")
)

// InsufficientStockError reports the line that could not be fulfilled.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, requested: %d", e.ProductName, e.Available, e.Requested)
}

package product

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrInUse    = errors.New("product is still referenced")
)

// DuplicateNameError is returned when adding a product whose name is taken.
type DuplicateNameError struct {
	Name       string
	ExistingID int64
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("product %q already exists", e.Name)
}

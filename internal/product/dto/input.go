package dto

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidNumber is returned when price or quantity cannot be parsed.
var ErrInvalidNumber = errors.New("Invalid price or quantity format. Please enter valid numbers.")

// ProductForm is the raw add/edit product form.
type ProductForm struct {
	Name        string `form:"name"`
	Category    string `form:"category"`
	Price       string `form:"price"`
	Quantity    string `form:"quantity"`
	Description string `form:"description"`
}

type ProductInput struct {
	Name        string          `validate:"required"`
	Category    string          `validate:"required"`
	Price       decimal.Decimal `validate:"gte=0"`
	Quantity    int             `validate:"gte=0"`
	Description string
}

// Parse trims the text fields and converts price and quantity.
func (f ProductForm) Parse() (*ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil {
		return nil, ErrInvalidNumber
	}
	qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil {
		return nil, ErrInvalidNumber
	}

	return &ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Category:    strings.TrimSpace(f.Category),
		Price:       price,
		Quantity:    qty,
		Description: strings.TrimSpace(f.Description),
	}, nil
}

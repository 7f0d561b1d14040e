package dto

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidLine   = errors.New("Invalid product or quantity. Please enter valid numbers.")
	ErrInvalidAmount = errors.New("Invalid amount format. Please enter a valid number.")
	ErrInvalidDate   = errors.New("Invalid order date.")
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts the datetime-local, date and RFC 3339 forms.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

type OrderLine struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gt=0"`
}

type CreateOrderInput struct {
	CustomerName    string      `json:"customer_name" validate:"required"`
	CustomerEmail   string      `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string      `json:"customer_phone"`
	ShippingAddress string      `json:"shipping_address"`
	Notes           string      `json:"notes"`
	Status          string      `json:"status"`
	TrackingNumber  string      `json:"tracking_number"`
	OrderDate       time.Time   `json:"order_date"`
	Lines           []OrderLine `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderForm is the create order form. The line fields repeat, one
// value per row.
type CreateOrderForm struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Notes           string
	Status          string
	TrackingNumber  string
	OrderDate       string
	ProductIDs      []string
	Quantities      []string
}

// Parse skips rows without a product and rejects unparsable numbers.
func (f CreateOrderForm) Parse() (*CreateOrderInput, error) {
	input := &CreateOrderInput{
		CustomerName:    strings.TrimSpace(f.CustomerName),
		CustomerEmail:   strings.TrimSpace(f.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(f.CustomerPhone),
		ShippingAddress: strings.TrimSpace(f.ShippingAddress),
		Notes:           strings.TrimSpace(f.Notes),
		Status:          strings.TrimSpace(f.Status),
		TrackingNumber:  strings.TrimSpace(f.TrackingNumber),
	}

	if strings.TrimSpace(f.OrderDate) != "" {
		t, err := ParseDate(f.OrderDate)
		if err != nil {
			return nil, err
		}
		input.OrderDate = t
	}

	for i, rawID := range f.ProductIDs {
		rawID = strings.TrimSpace(rawID)
		if rawID == "" {
			continue
		}
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, ErrInvalidLine
		}
		if i >= len(f.Quantities) {
			return nil, ErrInvalidLine
		}
		qty, err := strconv.Atoi(strings.TrimSpace(f.Quantities[i]))
		if err != nil {
			return nil, ErrInvalidLine
		}
		input.Lines = append(input.Lines, OrderLine{ProductID: id, Quantity: qty})
	}
	return input, nil
}

// EditOrderInput holds every editable order field.
type EditOrderInput struct {
	CustomerName    string `validate:"required"`
	CustomerEmail   string `validate:"omitempty,email"`
	CustomerPhone   string
	OrderDate       time.Time       `validate:"required"`
	Amount          decimal.Decimal `validate:"gte=0"`
	Status          string          `validate:"required"`
	TrackingNumber  string
	ShippingAddress string
	Notes           string
}

// EditInputFrom copies the editable fields of an existing order.
func EditInputFrom(o *model.Order) *EditOrderInput {
	return &EditOrderInput{
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		OrderDate:       o.OrderDate,
		Amount:          o.Amount,
		Status:          o.Status,
		TrackingNumber:  o.TrackingNumber,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
	}
}

// Apply writes the fields onto o.
func (in *EditOrderInput) Apply(o *model.Order) {
	o.CustomerName = in.CustomerName
	o.CustomerEmail = in.CustomerEmail
	o.CustomerPhone = in.CustomerPhone
	o.OrderDate = in.OrderDate
	o.Amount = in.Amount
	o.Status = in.Status
	o.TrackingNumber = in.TrackingNumber
	o.ShippingAddress = in.ShippingAddress
	o.Notes = in.Notes
}

type EditOrderForm struct {
	CustomerName    string `form:"customer_name"`
	CustomerEmail   string `form:"customer_email"`
	CustomerPhone   string `form:"customer_phone"`
	OrderDate       string `form:"order_date"`
	Amount          string `form:"amount"`
	Status          string `form:"status"`
	TrackingNumber  string `form:"tracking_number"`
	ShippingAddress string `form:"shipping_address"`
	Notes           string `form:"notes"`
}

func (f EditOrderForm) Parse() (*EditOrderInput, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return nil, ErrInvalidAmount
	}
	date, err := ParseDate(f.OrderDate)
	if err != nil {
		return nil, err
	}

	return &EditOrderInput{
		CustomerName:    strings.TrimSpace(f.CustomerName),
		CustomerEmail:   strings.TrimSpace(f.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(f.CustomerPhone),
		OrderDate:       date,
		Amount:          amount,
		Status:          strings.TrimSpace(f.Status),
		TrackingNumber:  strings.TrimSpace(f.TrackingNumber),
		ShippingAddress: strings.TrimSpace(f.ShippingAddress),
		Notes:           strings.TrimSpace(f.Notes),
	}, nil
}

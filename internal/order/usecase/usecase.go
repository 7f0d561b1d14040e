package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/metrics"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/order"
	"github.com/fekuna/omnipos-inventory-web/internal/order/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var validationMessages = map[string]string{
	"CustomerName.required": "Customer name cannot be empty!",
	"CustomerEmail.email":   "Please enter a valid customer email.",
	"Lines.required":        "Please add at least one product to the order.",
	"Lines.min":             "Please add at least one product to the order.",
	"ProductID.gt":          "Please select a product for every order line.",
	"Quantity.gt":           "Quantity must be at least 1.",
	"OrderDate.required":    "Order date cannot be empty!",
	"Amount.gte":            "Amount cannot be negative!",
	"Status.required":       "Status cannot be empty!",
}

type orderUseCase struct {
	repo    order.Repository
	metrics *metrics.Collector
	logger  logger.ZapLogger
	now     func() time.Time
	newID   func(time.Time) string
}

// NewOrderUseCase builds the order use case. m may be nil.
func NewOrderUseCase(repo order.Repository, m *metrics.Collector, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:    repo,
		metrics: m,
		logger:  log,
		now:     time.Now,
		newID:   GenerateOrderID,
	}
}

// GenerateOrderID returns ORD-YYYYMMDDHHMMSS-xxxx. The random suffix keeps
// orders placed within the same second apart.
func GenerateOrderID(t time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102150405"), uuid.NewString()[:4])
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if err := validation.Struct(input, validationMessages); err != nil {
		uc.metrics.OrderRejected("invalid")
		return nil, err
	}

	now := uc.now()
	o := &model.Order{
		BaseModel:       model.BaseModel{CreatedAt: now, UpdatedAt: now},
		OrderID:         uc.newID(now),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		OrderDate:       input.OrderDate,
		Amount:          decimal.Zero,
		Status:          input.Status,
		TrackingNumber:  input.TrackingNumber,
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	if o.Status == "" {
		o.Status = model.OrderStatusPending
	}

	items, err := uc.repo.Create(ctx, o, input.Lines)
	if err != nil {
		var stockErr *order.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			uc.metrics.OrderRejected("insufficient_stock")
			uc.logger.Info("order rejected",
				zap.Int64("product_id", stockErr.ProductID),
				zap.Int("requested", stockErr.Requested),
				zap.Int("available", stockErr.Available))
		case errors.Is(err, order.ErrProductNotFound):
			uc.metrics.OrderRejected("unknown_product")
		default:
			uc.logger.Error("failed to create order", zap.Error(err))
		}
		return nil, err
	}

	units := 0
	for _, item := range items {
		units += item.Quantity
	}
	uc.metrics.OrderCreated(units)

	uc.logger.Info("order created",
		zap.String("order_id", o.OrderID),
		zap.Int("items", len(items)),
		zap.String("amount", o.Amount.StringFixed(2)))
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (uc *orderUseCase) EditOrder(ctx context.Context, id int64, input *dto.EditOrderInput) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.save(ctx, o, input)
}

// PatchOrder applies only the fields present in a JSON object body.
func (uc *orderUseCase) PatchOrder(ctx context.Context, id int64, body []byte) (*model.Order, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, order.ErrInvalidPatch
	}

	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	input := dto.EditInputFrom(o)
	text := map[string]*string{
		"customer_name":    &input.CustomerName,
		"customer_email":   &input.CustomerEmail,
		"customer_phone":   &input.CustomerPhone,
		"status":           &input.Status,
		"tracking_number":  &input.TrackingNumber,
		"shipping_address": &input.ShippingAddress,
		"notes":            &input.Notes,
	}
	for key, field := range text {
		if v := gjson.GetBytes(body, key); v.Exists() {
			*field = strings.TrimSpace(v.String())
		}
	}

	if v := gjson.GetBytes(body, "amount"); v.Exists() {
		amount, err := decimal.NewFromString(strings.TrimSpace(v.String()))
		if err != nil {
			return nil, dto.ErrInvalidAmount
		}
		input.Amount = amount
	}
	if v := gjson.GetBytes(body, "order_date"); v.Exists() {
		date, err := dto.ParseDate(v.String())
		if err != nil {
			return nil, err
		}
		input.OrderDate = date
	}

	return uc.save(ctx, o, input)
}

// save validates and stores the edited fields. The amount is taken as given.
func (uc *orderUseCase) save(ctx context.Context, o *model.Order, input *dto.EditOrderInput) (*model.Order, error) {
	if err := validation.Struct(input, validationMessages); err != nil {
		return nil, err
	}

	input.Apply(o)
	o.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	uc.logger.Info("order updated", zap.String("order_id", o.OrderID))
	return o, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	restored, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.metrics.OrderDeleted(restored)

	uc.logger.Info("order deleted", zap.String("order_id", o.OrderID), zap.Int("units_restored", restored))
	return o, nil
}

func (uc *orderUseCase) GetOrderDetails(ctx context.Context, id int64) (*order.Details, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.FindItems(ctx, id)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return &order.Details{Order: o, Items: items, ItemsTotal: total}, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context) ([]model.Order, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *orderUseCase) RecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	return uc.repo.FindRecent(ctx, limit)
}

package order

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/order/dto"
	"github.com/shopspring/decimal"
)

// Details is an order together with its lines.
type Details struct {
	Order      *model.Order
	Items      []model.OrderItemDetail
	ItemsTotal decimal.Decimal
}

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	EditOrder(ctx context.Context, id int64, input *dto.EditOrderInput) (*model.Order, error)
	PatchOrder(ctx context.Context, id int64, body []byte) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	GetOrderDetails(ctx context.Context, id int64) (*Details, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	RecentOrders(ctx context.Context, limit int) ([]model.Order, error)
}

package order

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/order/dto"
)

type Repository interface {
	// Create inserts the order and its lines in one transaction, taking stock
	// from each product. It fills in o.ID and o.Amount.
	Create(ctx context.Context, o *model.Order, lines []dto.OrderLine) ([]model.OrderItem, error)

	FindByID(ctx context.Context, id int64) (*model.Order, error)
	FindItems(ctx context.Context, orderID int64) ([]model.OrderItemDetail, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	FindRecent(ctx context.Context, limit int) ([]model.Order, error)
	Update(ctx context.Context, o *model.Order) error

	// Delete puts the items back into stock, then removes items and order.
	// It returns the number of units restored.
	Delete(ctx context.Context, id int64) (int, error)
}

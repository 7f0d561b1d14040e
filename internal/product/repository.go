package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error

	// Delete removes the product's order items and sales before the product itself.
	Delete(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]string, error)
}

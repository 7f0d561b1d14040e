package product

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/product/dto"
)

type UseCase interface {
	AddProduct(ctx context.Context, input *dto.ProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	EditProduct(ctx context.Context, id int64, input *dto.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*model.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

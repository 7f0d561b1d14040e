package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fekuna/omnipos-inventory-web/internal/cache"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/product"
	"github.com/fekuna/omnipos-inventory-web/internal/product/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/validation"
	"go.uber.org/zap"
)

// CategoriesCacheKey holds the cached category list in Redis.
const CategoriesCacheKey = "products:categories"

const categoriesCacheTTL = 5 * time.Minute

var validationMessages = map[string]string{
	"Name.required":     "Product name cannot be empty!",
	"Category.required": "Category cannot be empty!",
	"Price.gte":         "Price cannot be negative!",
	"Quantity.gte":      "Quantity cannot be negative!",
}

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
	now    func() time.Time
}

// NewProductUseCase builds the product use case. cache may be nil.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// NormalizeCategory upper-cases the first letter and lower-cases the rest.
func NormalizeCategory(category string) string {
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(category[size:])
}

func (uc *productUseCase) AddProduct(ctx context.Context, input *dto.ProductInput) (*model.Product, error) {
	if err := validation.Struct(input, validationMessages); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &product.DuplicateNameError{Name: input.Name, ExistingID: existing.ID}
	}

	now := uc.now()
	p := &model.Product{
		BaseModel:   model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:        input.Name,
		Category:    NormalizeCategory(input.Category),
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidateCategories(ctx)

	uc.logger.Info("product added", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) EditProduct(ctx context.Context, id int64, input *dto.ProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(input, validationMessages); err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Category = NormalizeCategory(input.Category)
	p.Price = input.Price
	p.Quantity = input.Quantity
	p.Description = input.Description
	p.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidateCategories(ctx)

	uc.logger.Info("product updated", zap.Int64("product_id", p.ID))
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete product %d: %w", id, err)
	}
	uc.invalidateCategories(ctx)

	uc.logger.Info("product deleted", zap.Int64("product_id", id), zap.String("name", p.Name))
	return p, nil
}

func (uc *productUseCase) ListCategories(ctx context.Context) ([]string, error) {
	if uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, CategoriesCacheKey).Result()
		if err == nil {
			var categories []string
			if err := json.Unmarshal([]byte(val), &categories); err == nil {
				return categories, nil
			}
		}
	}

	categories, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := uc.cache.Client.Set(ctx, CategoriesCacheKey, data, categoriesCacheTTL).Err(); err != nil {
				uc.logger.Warn("failed to cache categories", zap.Error(err))
			}
		}
	}
	return categories, nil
}

func (uc *productUseCase) invalidateCategories(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Client.Del(ctx, CategoriesCacheKey).Err(); err != nil {
		uc.logger.Warn("failed to invalidate category cache", zap.Error(err))
	}
}

package report

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
)

type Repository interface {
	Snapshot(ctx context.Context, topSellers int) (*Snapshot, error)
	Products(ctx context.Context) ([]model.Product, error)
}

package user

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
)

type Repository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateImage(ctx context.Context, id int64, imageURL string) error
}

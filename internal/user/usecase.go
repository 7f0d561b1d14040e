package user

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/user/dto"
)

type UseCase interface {
	Register(ctx context.Context, input *dto.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input *dto.LoginInput) (*model.User, error)
	UpdateProfileImage(ctx context.Context, userID int64, imageURL string) error
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/user"
	"github.com/fekuna/omnipos-inventory-web/internal/user/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/validation"
	"go.uber.org/zap"
)

var validationMessages = map[string]string{
	"Name.required":     "Name cannot be empty!",
	"Email.required":    "Email cannot be empty!",
	"Email.email":       "Please enter a valid email address.",
	"Password.required": "Password cannot be empty!",
	"Password.min":      "Password must be at least 6 characters.",
}

type userUseCase struct {
	repo   user.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewUserUseCase(repo user.Repository, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *userUseCase) Register(ctx context.Context, input *dto.RegisterInput) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = NormalizeEmail(input.Email)
	if err := validation.Struct(input, validationMessages); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		ImageURL:     model.DefaultAvatarURL,
		CreatedAt:    uc.now(),
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, user.ErrEmailTaken) {
			uc.logger.Error("failed to create user", zap.String("email", u.Email), zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("user registered", zap.Int64("user_id", u.ID))
	return u, nil
}

// Login never tells the caller which of email or password was wrong.
func (uc *userUseCase) Login(ctx context.Context, input *dto.LoginInput) (*model.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, user.ErrInvalidCredentials
	}

	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		uc.logger.Error("failed to load user", zap.Error(err))
		return nil, err
	}
	if u == nil || !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		return nil, user.ErrInvalidCredentials
	}
	return u, nil
}

func (uc *userUseCase) UpdateProfileImage(ctx context.Context, userID int64, imageURL string) error {
	if err := uc.repo.UpdateImage(ctx, userID, imageURL); err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			uc.logger.Error("failed to update profile image", zap.Int64("user_id", userID), zap.Error(err))
		}
		return err
	}
	uc.logger.Info("profile image updated", zap.Int64("user_id", userID), zap.String("image_url", imageURL))
	return nil
}

package handler

import (
	"errors"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/metrics"
	"github.com/fekuna/omnipos-inventory-web/internal/upload"
	"github.com/fekuna/omnipos-inventory-web/internal/user"
	"github.com/fekuna/omnipos-inventory-web/internal/user/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/validation"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgLoginThrottled = "Too many login attempts. Please wait a moment and try again."
	msgRegisterFailed = "Error creating account. Please try again."
	msgUploadFailed   = "Error uploading file"
)

type UserHandler struct {
	uc       user.UseCase
	sessions *auth.SessionManager
	render   *web.Renderer
	uploads  *upload.Store
	metrics  *metrics.Collector
	logger   logger.ZapLogger
}

func NewUserHandler(
	uc user.UseCase,
	sessions *auth.SessionManager,
	render *web.Renderer,
	uploads *upload.Store,
	m *metrics.Collector,
	log logger.ZapLogger,
) *UserHandler {
	return &UserHandler{
		uc:       uc,
		sessions: sessions,
		render:   render,
		uploads:  uploads,
		metrics:  m,
		logger:   log,
	}
}

// Index sends visitors to the dashboard when logged in and to the login page otherwise.
func (h *UserHandler) Index(c *fiber.Ctx) error {
	if _, ok := h.sessions.Identity(c); ok {
		return c.Redirect("/dashboard")
	}
	return c.Redirect("/login")
}

func (h *UserHandler) LoginPage(c *fiber.Ctx) error {
	return h.render.Render(c, "login", "Login", nil)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		h.metrics.LoginAttempt("failure")
		return h.render.Render(c, "login", "Login", nil, web.Error(user.ErrInvalidCredentials.Error()))
	}

	u, err := h.uc.Login(c.UserContext(), &input)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.metrics.LoginAttempt("failure")
			return h.render.Render(c, "login", "Login", nil, web.Error(err.Error()))
		}
		h.metrics.LoginAttempt("error")
		return err
	}

	identity := auth.Identity{UserID: u.ID, Name: u.Name, Email: u.Email, ImageURL: u.ImageURL}
	if err := h.sessions.Login(c, identity, auth.Flash{Category: auth.FlashSuccess, Message: "Login successful!"}); err != nil {
		h.logger.Error("failed to start session", zap.Int64("user_id", u.ID), zap.Error(err))
		return err
	}
	h.metrics.LoginAttempt("success")
	return c.Redirect("/dashboard")
}

// LoginThrottled answers login posts refused by the rate limiter. The status
// is already set by the limiter.
func (h *UserHandler) LoginThrottled(c *fiber.Ctx) error {
	h.metrics.LoginAttempt("throttled")
	return h.render.Render(c, "login", "Login", nil, web.Error(msgLoginThrottled))
}

func (h *UserHandler) RegisterPage(c *fiber.Ctx) error {
	return h.render.Render(c, "register", "Register", nil)
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	rerender := func(msg string) error {
		return h.render.Render(c, "register", "Register", nil, web.Error(msg))
	}

	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return rerender(msgRegisterFailed)
	}

	if _, err := h.uc.Register(c.UserContext(), &input); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return rerender(err.Error())
		}
		if msg := validation.Message(err); msg != "" {
			return rerender(msg)
		}
		return rerender(msgRegisterFailed)
	}

	return h.render.Redirect(c, "/login", auth.FlashSuccess, "Registration successful! Please login.")
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		h.logger.Warn("failed to destroy session", zap.Error(err))
	}
	return h.render.Redirect(c, "/login", auth.FlashSuccess, "Logged out successfully")
}

func (h *UserHandler) UploadProfileImage(c *fiber.Ctx) error {
	id := auth.GetIdentity(c)

	fail := func(status int, msg string) error {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
	}

	fh, err := c.FormFile("profileImage")
	if err != nil {
		return fail(fiber.StatusBadRequest, upload.ErrNoFile.Error())
	}

	imageURL, err := h.uploads.SaveProfileImage(id.UserID, fh)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNoFile), errors.Is(err, upload.ErrInvalidType):
			return fail(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, upload.ErrTooLarge):
			return fail(fiber.StatusRequestEntityTooLarge, err.Error())
		}
		h.logger.Error("failed to store profile image", zap.Int64("user_id", id.UserID), zap.Error(err))
		return fail(fiber.StatusInternalServerError, msgUploadFailed)
	}

	if err := h.uc.UpdateProfileImage(c.UserContext(), id.UserID, imageURL); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fail(fiber.StatusNotFound, "User not found")
		}
		return fail(fiber.StatusInternalServerError, msgUploadFailed)
	}
	if err := h.sessions.UpdateImage(c, imageURL); err != nil {
		h.logger.Warn("failed to update session image", zap.Error(err))
	}

	return c.JSON(fiber.Map{"success": true, "imageUrl": imageURL})
}

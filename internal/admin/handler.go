// Package admin serves maintenance endpoints for the demo deployment.
package admin

import (
	"context"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Resetter interface {
	Reset(ctx context.Context) error
}

type ResetFunc func(ctx context.Context) error

func (f ResetFunc) Reset(ctx context.Context) error { return f(ctx) }

type Handler struct {
	resetter Resetter
	enabled  bool
	render   *web.Renderer
	logger   logger.ZapLogger
}

func NewHandler(resetter Resetter, enabled bool, render *web.Renderer, log logger.ZapLogger) *Handler {
	return &Handler{
		resetter: resetter,
		enabled:  enabled,
		render:   render,
		logger:   log,
	}
}

// ResetDB wipes the database and reloads the demo data set.
func (h *Handler) ResetDB(c *fiber.Ctx) error {
	if !h.enabled {
		return fiber.ErrNotFound
	}

	id := auth.GetIdentity(c)
	if err := h.resetter.Reset(c.UserContext()); err != nil {
		h.logger.Error("database reset failed", zap.Error(err))
		return h.render.Redirect(c, "/dashboard", auth.FlashError, "Error resetting database.")
	}

	fields := []zap.Field{}
	if id != nil {
		fields = append(fields, zap.Int64("user_id", id.UserID))
	}
	h.logger.Warn("database reset to demo data", fields...)
	return h.render.Redirect(c, "/dashboard", auth.FlashSuccess, "Database has been successfully reset.")
}

package handler

import (
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/report"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	uc     report.UseCase
	render *web.Renderer
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, render *web.Renderer, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		render: render,
		logger: log,
	}
}

func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return h.render.Render(c, "dashboard", "Dashboard", d)
}

func (h *ReportHandler) DashboardJSON(c *fiber.Ctx) error {
	d, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error loading dashboard",
		})
	}
	return c.JSON(fiber.Map{"success": true, "dashboard": d})
}

func (h *ReportHandler) Report(c *fiber.Ctx) error {
	r, err := h.uc.Report(c.UserContext())
	if err != nil {
		return err
	}
	return h.render.Render(c, "report", "Report", r)
}

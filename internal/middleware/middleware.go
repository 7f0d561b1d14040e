// Package middleware holds the HTTP middleware shared by every route.
package middleware

import (
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Setup installs request id, logging, panic recovery and security headers.
func Setup(app *fiber.App, log logger.ZapLogger) {
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "same-origin",
	}))
}

package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"hospot/internal/config"
	"hospot/internal/http/api"
	applog "hospot/internal/log"
	"hospot/internal/notify"
)

// NewAPI builds the REST backend with every route under /api.
func NewAPI(cfg config.Config, db *sqlx.DB, n notify.Notifier) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "hospot-api",
		ErrorHandler:          APIErrorHandler,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(applog.AccessLog())
	app.Use(recover.New())
	origins := strings.Join(cfg.CORSOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Token, X-Request-ID",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "rate limit exceeded, retry soon"})
		},
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	api.NewHandler(db, n, cfg.AdminToken).Register(app.Group("/api"))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not Found"})
	})
	return app
}

package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"hospot/internal/apiclient"
	"hospot/internal/auth"
	"hospot/internal/config"
	"hospot/internal/http/handlers"
	applog "hospot/internal/log"
)

// WebOptions tune the patient app for tests; zero values mean production defaults.
type WebOptions struct {
	LoginMax    int
	ReloadViews bool
}

// NewWeb builds the patient-facing app. It reaches data only through client.
func NewWeb(cfg config.Config, client *apiclient.Client, sessions auth.StorageFactory, opts WebOptions) *fiber.App {
	if opts.LoginMax <= 0 {
		opts.LoginMax = 5
	}
	app := fiber.New(fiber.Config{
		AppName:               "hospot-web",
		Views:                 Templates(cfg.TemplatesDir, opts.ReloadViews),
		ErrorHandler:          WebErrorHandler,
		DisableStartupMessage: true,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(applog.AccessLog())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/static/")
		},
	}))
	app.Use(auth.Middleware(sessions))

	deps := handlers.NewDeps(client)
	app.Use(deps.CartBadge())
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Title": "Error", "Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)

	// ---------- Public pages ----------
	app.Get("/", deps.AuthHandler.Landing)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        opts.LoginMax,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{
				"Title": "Sign in", "Form": fiber.Map{}, "Errors": fiber.Map{},
				"Alert": "Too many attempts. Please try again later.",
			})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// ---------- Protected pages ----------
	// Guarded per route so /healthz and the 404 page stay public.
	guard := auth.RequireSession()
	app.Get("/home", guard, deps.HospitalHandler.Home)
	app.Get("/hospital/:id", guard, deps.HospitalHandler.Detail)
	app.Post("/hospital/:id/book", guard, deps.HospitalHandler.Book)
	app.Get("/medicines", guard, deps.MedicineHandler.List)
	app.Get("/medicine/:id", guard, deps.MedicineHandler.Detail)
	app.Get("/prescriptions", guard, deps.PrescriptionHandler.List)
	app.Post("/prescriptions", guard, deps.PrescriptionHandler.Create)
	app.Get("/cart", guard, deps.CartHandler.View)
	app.Post("/cart/add", guard, deps.CartHandler.Add)
	app.Post("/cart/update", guard, deps.CartHandler.Update)
	app.Post("/cart/remove", guard, deps.CartHandler.Remove)
	app.Post("/cart/clear", guard, deps.CartHandler.Clear)
	app.Get("/checkout", guard, deps.OrderHandler.Checkout)
	app.Post("/checkout", guard, deps.OrderHandler.Place)
	app.Get("/orders", guard, deps.OrderHandler.History)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Title": "Not found", "Message": "Page not found"})
	})
	return app
}

package server

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"hospot/internal/config"
	applog "hospot/internal/log"
)

// InitSentry enables error reporting when a DSN is configured. The returned
// func flushes pending events and is always safe to call.
func InitSentry(cfg config.Config, release string) (flush func(), err error) {
	if cfg.SentryDSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func report(c *fiber.Ctx, err error) {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(s *sentry.Scope) {
		s.SetTag("method", c.Method())
		s.SetTag("path", c.Path())
		if rid, ok := c.Locals("requestid").(string); ok {
			s.SetTag("request_id", rid)
		}
	})
	hub.CaptureException(err)
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// WebErrorHandler logs, reports server faults, and renders a friendly page
// without internals.
func WebErrorHandler(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	msg := "Something went wrong. Please try again."
	if code >= 500 {
		applog.Error(c, "server.error", err, nil)
		report(c, err)
	} else if code == fiber.StatusNotFound {
		msg = "Page not found"
	} else {
		msg = statusText(code)
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Title": "Error", "Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// APIErrorHandler answers with {"detail": ...} like every other API error.
func APIErrorHandler(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	msg := "Internal server error"
	if code >= 500 {
		applog.Error(c, "api.error", err, nil)
		report(c, err)
	} else {
		msg = err.Error()
	}
	return c.Status(code).JSON(fiber.Map{"detail": msg})
}

func statusText(code int) string {
	if m := utils.StatusMessage(code); m != "" {
		return m
	}
	return "Request could not be completed"
}

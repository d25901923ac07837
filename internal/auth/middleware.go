package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hospot/internal/config"
	applog "hospot/internal/log"
)

const localsKey = "session"

// StorageFactory builds the request-scoped storage a session restores from.
type StorageFactory func(c *fiber.Ctx) Storage

// CookieFactory stores the session in a signed cookie.
func CookieFactory(secret string, opts CookieOptions) StorageFactory {
	if secret == "" {
		panic(errNoSecret)
	}
	key := []byte(secret)
	return func(c *fiber.Ctx) Storage { return NewCookieStorage(c, key, opts) }
}

// DBFactory stores the session server side behind a sid cookie.
func DBFactory(store ValueStore, opts CookieOptions) StorageFactory {
	return func(c *fiber.Ctx) Storage { return NewDBStorage(c, store, opts) }
}

// FactoryFor picks the storage backend named by SESSION_STORE.
func FactoryFor(cfg config.Config, store ValueStore) StorageFactory {
	opts := CookieOptions{Secure: cfg.CookieSecure}
	if cfg.SessionStore == "db" && store != nil {
		return DBFactory(store, opts)
	}
	return CookieFactory(cfg.SessionSecret, opts)
}

// Middleware restores the session before any handler runs.
func Middleware(factory StorageFactory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := Restore(factory(c))
		if err != nil {
			return err
		}
		c.Locals(localsKey, sess)
		if u, ok := sess.User(); ok {
			c.Locals("user", u)
			c.Locals("user_email", u.Email)
		}
		return c.Next()
	}
}

// FromCtx returns the session Middleware stored, or an empty in-memory one.
func FromCtx(c *fiber.Ctx) *Session {
	if s, ok := c.Locals(localsKey).(*Session); ok {
		return s
	}
	return &Session{store: NewMemoryStorage()}
}

// RequireSession redirects to /login before a protected handler can run.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if FromCtx(c).IsAuthenticated() {
			return c.Next()
		}
		applog.Security(c, "auth.required", nil)
		target := "/login"
		if c.Method() == fiber.MethodGet {
			target += "?next=" + url.QueryEscape(c.OriginalURL())
		}
		return c.Redirect(target, fiber.StatusFound)
	}
}

// SafeNext keeps post-login redirects on this site.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/home"
	}
	return next
}

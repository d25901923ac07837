package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/domain"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	return c.Render(tmpl, withCommon(c, data))
}

// withCommon adds the user, cart badge and CSRF token every layout needs.
func withCommon(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	if u, ok := c.Locals("user").(domain.User); ok {
		data["User"] = u
	}
	if n, ok := c.Locals("cart_count").(int); ok {
		data["CartCount"] = n
	}
	// Pick up the token the CSRF middleware put into Locals, else the cookie.
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return data
}

func renderStatus(c *fiber.Ctx, status int, tmpl string, data fiber.Map) error {
	return c.Status(status).Render(tmpl, withCommon(c, data))
}

func notFound(c *fiber.Ctx, msg string) error {
	return renderStatus(c, fiber.StatusNotFound, "notfound", fiber.Map{"Title": "Not found", "Message": msg})
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/domain"
	"hospot/internal/submit"
)

// currentUser is set by auth.Middleware; protected routes always have one.
func currentUser(c *fiber.Ctx) domain.User {
	u, _ := c.Locals("user").(domain.User)
	return u
}

func guardKey(c *fiber.Ctx, form string) string {
	return submit.Key(currentUser(c).Email, form)
}

// writeStatus picks the page status for a failed API write: the API's own
// 4xx when it gave one, 502 otherwise.
func writeStatus(err error) int {
	var se *apiclient.StatusError
	if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
		return se.Status
	}
	return fiber.StatusBadGateway
}

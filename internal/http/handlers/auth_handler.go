package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/auth"
	"hospot/internal/domain"
	"hospot/internal/log"
	"hospot/internal/validate"
)

type AuthHandler struct {
	Badges *apiclient.Latest[int]
}

func (h *AuthHandler) Landing(c *fiber.Ctx) error {
	return render(c, "landing", fiber.Map{"Title": "Find & Book Hospital Beds"})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if auth.FromCtx(c).IsAuthenticated() {
		return c.Redirect(auth.SafeNext(c.Query("next")))
	}
	return render(c, "login", fiber.Map{
		"Title":  "Sign in",
		"Form":   fiber.Map{},
		"Errors": fiber.Map{},
		"Next":   c.Query("next"),
	})
}

// Login accepts any well-formed name, email and password; there is no
// credential store behind it.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	pass := c.FormValue("password")
	next := c.FormValue("next")

	errs := fiber.Map{}
	if err := validate.Name(name); err != nil {
		errs["Name"] = err.Error()
	}
	if err := validate.Email(email); err != nil {
		errs["Email"] = err.Error()
	}
	if err := validate.Password(pass); err != nil {
		errs["Password"] = err.Error()
	}
	if len(errs) > 0 {
		fields := make([]string, 0, len(errs))
		for k := range errs {
			fields = append(fields, k)
		}
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "validation", "fields": fields})
		return renderStatus(c, fiber.StatusBadRequest, "login", fiber.Map{
			"Title":    "Sign in",
			"Form":     fiber.Map{"Name": name, "Email": email},
			"Errors":   errs,
			"Strength": validate.PasswordStrength(pass),
			"Next":     next,
		})
	}

	if err := auth.FromCtx(c).Login(domain.User{Name: name, Email: email}); err != nil {
		return err
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(auth.SafeNext(next))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	u := currentUser(c)
	if err := auth.FromCtx(c).Logout(); err != nil {
		return err
	}
	if u.Email != "" {
		h.Badges.Forget(u.Email)
		log.Audit(c, "auth.logout", map[string]any{"email": u.Email})
	}
	return c.Redirect("/")
}

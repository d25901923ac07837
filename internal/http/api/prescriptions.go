package api

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/domain"
	applog "hospot/internal/log"
)

func (h *Handler) UserPrescriptions(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	list, err := h.Prescriptions.ListByUser(email)
	if err != nil {
		return fail(c, "prescriptions.list", err)
	}
	return c.JSON(list)
}

func (h *Handler) CreatePrescription(c *fiber.Ctx) error {
	var in domain.NewPrescription
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	p, err := h.Prescriptions.Create(in)
	if err != nil {
		return fail(c, "prescriptions.create", err)
	}
	applog.Audit(c, "prescription.create", map[string]any{"prescription_id": p.ID, "user": p.UserID, "medicines": len(p.Medicines)})
	return c.Status(fiber.StatusCreated).JSON(p)
}

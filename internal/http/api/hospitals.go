package api

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/validate"
)

func (h *Handler) ListHospitals(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("search"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		return detail(c, fiber.StatusBadRequest, "Invalid search")
	}
	list, err := h.Hospitals.List(q)
	if err != nil {
		return fail(c, "hospitals.list", err)
	}
	return c.JSON(list)
}

func (h *Handler) GetHospital(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Hospital not found")
	}
	hosp, err := h.Hospitals.Get(id)
	if err != nil {
		return fail(c, "hospitals.get", err)
	}
	return c.JSON(hosp)
}

func (h *Handler) SetBeds(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Hospital not found")
	}
	var beds domain.BedAvailability
	if err := c.BodyParser(&beds); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	hosp, err := h.Hospitals.SetBeds(id, beds)
	if err != nil {
		return fail(c, "hospitals.beds", err)
	}
	applog.Audit(c, "hospital.beds.update", map[string]any{
		"hospital_id": id, "icu": beds.ICU, "general": beds.General, "special": beds.Special,
	})
	return c.JSON(hosp)
}

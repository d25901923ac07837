package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "hospot/internal/log"
	"hospot/internal/repos"
	"hospot/internal/validate"
)

func (h *Handler) ListMedicines(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("search"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		return detail(c, fiber.StatusBadRequest, "Invalid search")
	}
	cat, ok := validate.Category(c.Query("category"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "category"})
		return detail(c, fiber.StatusBadRequest, "Invalid category")
	}
	f := repos.MedicineFilter{Search: q, Category: cat}
	if raw := c.Query("prescription_required"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return detail(c, fiber.StatusBadRequest, "prescription_required must be true or false")
		}
		f.PrescriptionRequired = &b
	}
	list, err := h.Medicines.List(f)
	if err != nil {
		return fail(c, "medicines.list", err)
	}
	return c.JSON(list)
}

func (h *Handler) MedicineCategories(c *fiber.Ctx) error {
	cats, err := h.Medicines.Categories()
	if err != nil {
		return fail(c, "medicines.categories", err)
	}
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *Handler) GetMedicine(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return detail(c, fiber.StatusNotFound, "Medicine not found")
	}
	m, err := h.Medicines.Get(id)
	if err != nil {
		return fail(c, "medicines.get", err)
	}
	return c.JSON(m)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/validate"
)

type MedicineHandler struct {
	API *apiclient.Client
}

func (h *MedicineHandler) List(c *fiber.Ctx) error {
	q, okQ := validate.Q(c.Query("q"))
	cat, okC := validate.Category(c.Query("category"))
	rx := c.Query("rx")
	if rx != "true" && rx != "false" {
		rx = ""
	}
	data := fiber.Map{"Title": "Medicines", "Q": q, "Category": cat, "Rx": rx}
	if !okQ || !okC {
		applog.Security(c, "validation.fail", map[string]any{"field": "medicine_filter"})
		data["Q"] = c.Query("q")
		data["Medicines"] = []domain.Medicine{}
		data["Alert"] = "Please use letters, numbers and basic punctuation only."
		return renderStatus(c, fiber.StatusBadRequest, "medicines", data)
	}

	cats, err := h.API.MedicineCategories()
	if err != nil {
		applog.Error(c, "medicines.categories.fetch", err, nil)
	}
	data["Categories"] = cats

	meds, err := h.API.Medicines(apiclient.MedicineQuery{Search: q, Category: cat, PrescriptionRequired: rx})
	if err != nil {
		applog.Error(c, "medicines.fetch", err, nil)
		data["Alert"] = "Could not load medicines right now."
	}
	data["Medicines"] = meds
	return render(c, "medicines", data)
}

func (h *MedicineHandler) Detail(c *fiber.Ctx) error {
	return h.detail(c, fiber.StatusOK, c.Params("id"), fiber.Map{"Form": fiber.Map{"Quantity": 1}})
}

// detail renders the medicine page with the user's usable prescriptions.
func (h *MedicineHandler) detail(c *fiber.Ctx, status int, rawID string, data fiber.Map) error {
	id, ok := validate.ID(rawID)
	if !ok {
		return notFound(c, "Medicine not found")
	}
	m, err := h.API.Medicine(id)
	if err != nil {
		if !apiclient.IsNotFound(err) {
			applog.Error(c, "medicine.fetch", err, map[string]any{"medicine_id": id})
		}
		return notFound(c, "Medicine not found")
	}
	data["Title"] = m.Name
	data["Medicine"] = m
	if m.PrescriptionRequired {
		all, err := h.API.Prescriptions(currentUser(c).Email)
		if err != nil {
			applog.Error(c, "prescriptions.fetch", err, nil)
		}
		active := make([]domain.Prescription, 0, len(all))
		for _, p := range all {
			if !p.IsUsed {
				active = append(active, p)
			}
		}
		data["Prescriptions"] = active
	}
	return renderStatus(c, status, "medicine", data)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/submit"
	"hospot/internal/validate"
)

type HospitalHandler struct {
	API   *apiclient.Client
	Guard *submit.Guard
}

// Home lists hospitals, optionally filtered by ?q=.
func (h *HospitalHandler) Home(c *fiber.Ctx) error {
	raw := c.Query("q")
	q, ok := validate.Q(raw)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
		return renderStatus(c, fiber.StatusBadRequest, "home", fiber.Map{
			"Title": "Hospitals", "Q": raw, "Hospitals": []domain.Hospital{},
			"Alert": "Please use letters, numbers and basic punctuation only.",
		})
	}

	data := fiber.Map{"Title": "Hospitals", "Q": q}
	list, err := h.API.Hospitals(q)
	if err != nil {
		applog.Error(c, "hospitals.fetch", err, nil)
		list = nil
		data["Alert"] = "Could not load hospitals right now."
	}
	data["Hospitals"] = list

	bookings, err := h.API.Bookings(currentUser(c).Email)
	if err != nil {
		applog.Error(c, "bookings.fetch", err, nil)
	}
	data["Bookings"] = bookings
	if c.Query("booked") != "" {
		data["Notice"] = "Bed booked successfully."
	}
	return render(c, "home", data)
}

func (h *HospitalHandler) Detail(c *fiber.Ctx) error {
	return h.detail(c, fiber.StatusOK, fiber.Map{"Form": fiber.Map{"PatientName": currentUser(c).Name}})
}

func (h *HospitalHandler) detail(c *fiber.Ctx, status int, data fiber.Map) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Hospital not found")
	}
	hosp, err := h.API.Hospital(id)
	if err != nil {
		if !apiclient.IsNotFound(err) {
			applog.Error(c, "hospital.fetch", err, map[string]any{"hospital_id": id})
		}
		return notFound(c, "Hospital not found")
	}
	data["Title"] = hosp.Name
	data["Hospital"] = hosp
	data["BedTypes"] = domain.BedTypes
	if c.Query("booked") != "" {
		data["Notice"] = "Bed booked successfully."
	}
	return renderStatus(c, status, "hospital", data)
}

// Book runs the booking dialog submission for one hospital.
func (h *HospitalHandler) Book(c *fiber.Ctx) error {
	id := c.Params("id")
	u := currentUser(c)
	form := fiber.Map{
		"PatientName":   c.FormValue("patient_name"),
		"BedType":       c.FormValue("bed_type"),
		"ContactNumber": c.FormValue("contact_number"),
		"Notes":         c.FormValue("notes"),
	}

	errs := fiber.Map{}
	if err := validate.Name(c.FormValue("patient_name")); err != nil {
		errs["PatientName"] = err.Error()
	}
	bedType, ok := validate.BedType(c.FormValue("bed_type"))
	if !ok {
		errs["BedType"] = "Please choose a bed type"
	}
	if _, ok := validate.Phone(c.FormValue("contact_number")); !ok {
		errs["ContactNumber"] = "Please enter a valid contact number"
	}
	if len(errs) > 0 {
		applog.Security(c, "validation.fail", map[string]any{"form": "booking", "hospital_id": id})
		return h.detail(c, fiber.StatusBadRequest, fiber.Map{"Form": form, "Errors": errs, "Open": true})
	}

	key := guardKey(c, "booking:"+id)
	finish, ok := h.Guard.Begin(key)
	if !ok {
		return h.detail(c, fiber.StatusConflict, fiber.Map{
			"Form": form, "Open": true, "Alert": "Your booking is already being submitted.",
		})
	}
	// Back to idle once this request has rendered its outcome, even on panic.
	defer func() {
		finish(false)
		h.Guard.Settle(key)
	}()
	b, err := h.API.BookBed(domain.BookBed{
		HospitalID:    id,
		UserID:        u.Email,
		PatientName:   c.FormValue("patient_name"),
		BedType:       bedType,
		ContactNumber: c.FormValue("contact_number"),
		Notes:         c.FormValue("notes"),
	})
	finish(err == nil)
	if err != nil {
		applog.Error(c, "booking.fail", err, map[string]any{"hospital_id": id, "bed_type": bedType})
		return h.detail(c, writeStatus(err), fiber.Map{
			"Form": form, "Open": true, "Alert": "Failed to book bed. Please try again.",
		})
	}
	applog.Audit(c, "booking.create", map[string]any{"booking_id": b.ID, "hospital_id": id, "bed_type": bedType})
	return c.Redirect("/hospital/" + id + "?booked=1")
}

package api

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/domain"
	applog "hospot/internal/log"
)

func (h *Handler) BookBed(c *fiber.Ctx) error {
	var in domain.BookBed
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	b, err := h.Bookings.Book(in)
	if err != nil {
		return fail(c, "booking.create", err)
	}
	applog.Audit(c, "booking.create", map[string]any{
		"booking_id": b.ID, "hospital_id": b.HospitalID, "bed_type": b.BedType, "user": b.UserID,
	})
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *Handler) UserBookings(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	list, err := h.Bookings.ListByUser(email)
	if err != nil {
		return fail(c, "bookings.list", err)
	}
	return c.JSON(list)
}

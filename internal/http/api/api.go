// Package api is the Hospot REST backend mounted under /api.
package api

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	applog "hospot/internal/log"
	"hospot/internal/notify"
	"hospot/internal/repos"
	"hospot/internal/services"
	"hospot/internal/validate"
)

const Banner = "Hospot API - Find & Book Hospital Beds in Real Time"

type Handler struct {
	Hospitals     *services.HospitalService
	Medicines     *services.MedicineService
	Prescriptions *services.PrescriptionService
	Cart          *services.CartService
	Orders        *services.OrderService
	Bookings      *services.BookingService
	AdminToken    string
}

func NewHandler(db *sqlx.DB, n notify.Notifier, adminToken string) *Handler {
	hospRepo := repos.NewHospitalRepo(db)
	medRepo := repos.NewMedicineRepo(db)
	rxRepo := repos.NewPrescriptionRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	bookingRepo := repos.NewBookingRepo(db)

	return &Handler{
		Hospitals:     services.NewHospitalService(hospRepo),
		Medicines:     services.NewMedicineService(medRepo),
		Prescriptions: services.NewPrescriptionService(rxRepo),
		Cart:          services.NewCartService(cartRepo, medRepo, rxRepo),
		Orders:        services.NewOrderService(cartRepo, medRepo, orderRepo, rxRepo, n),
		Bookings:      services.NewBookingService(hospRepo, bookingRepo),
		AdminToken:    adminToken,
	}
}

// Register mounts every endpoint on r (normally the /api group).
func (h *Handler) Register(r fiber.Router) {
	r.Get("/", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"message": Banner}) })

	r.Get("/hospitals", h.ListHospitals)
	r.Get("/hospitals/:id", h.GetHospital)
	r.Put("/hospitals/:id/beds", h.requireAdmin, h.SetBeds)

	r.Get("/medicines", h.ListMedicines)
	r.Get("/medicines/categories", h.MedicineCategories)
	r.Get("/medicines/:id", h.GetMedicine)

	r.Get("/prescriptions/user/:email", h.UserPrescriptions)
	r.Post("/prescriptions", h.CreatePrescription)

	r.Get("/cart/:email", h.GetCart)
	r.Post("/cart/:email/add", h.AddToCart)
	r.Put("/cart/:email/update", h.UpdateCart)
	r.Delete("/cart/:email/remove/:medicineId", h.RemoveFromCart)
	r.Delete("/cart/:email/clear", h.ClearCart)

	r.Post("/orders", h.PlaceOrder)
	r.Get("/orders/user/:email", h.UserOrders)
	r.Put("/orders/:id/status", h.requireAdmin, h.UpdateOrderStatus)

	r.Post("/bookings", h.BookBed)
	r.Get("/bookings/user/:email", h.UserBookings)
}

func detail(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"detail": msg})
}

// fail maps service errors to status codes. Unknown errors are logged and hidden.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return detail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalid), errors.Is(err, services.ErrPrescriptionRequired):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": err.Error()})
		return detail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		return detail(c, fiber.StatusConflict, err.Error())
	}
	applog.Error(c, action, err, nil)
	return detail(c, fiber.StatusInternalServerError, "Internal server error")
}

func emailParam(c *fiber.Ctx) (string, bool) {
	email := c.Params("email")
	if validate.Email(email) != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return "", false
	}
	return email, true
}

func idParam(c *fiber.Ctx, name string) (string, bool) {
	return validate.ID(c.Params(name))
}

func (h *Handler) requireAdmin(c *fiber.Ctx) error {
	tok := c.Get("X-Admin-Token")
	if h.AdminToken == "" || subtle.ConstantTimeCompare([]byte(tok), []byte(h.AdminToken)) != 1 {
		applog.Security(c, "access.denied.admin", nil)
		return detail(c, fiber.StatusForbidden, "Admin access required")
	}
	return c.Next()
}

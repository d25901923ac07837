package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/submit"
)

type Deps struct {
	AuthHandler         *AuthHandler
	HospitalHandler     *HospitalHandler
	MedicineHandler     *MedicineHandler
	PrescriptionHandler *PrescriptionHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler

	badges *apiclient.Latest[int]
}

func NewDeps(api *apiclient.Client) *Deps {
	guard := submit.NewGuard()
	badges := &apiclient.Latest[int]{}
	meds := &MedicineHandler{API: api}
	cart := &CartHandler{API: api, Guard: guard, Badges: badges, Meds: meds}
	return &Deps{
		AuthHandler:         &AuthHandler{Badges: badges},
		HospitalHandler:     &HospitalHandler{API: api, Guard: guard},
		MedicineHandler:     meds,
		PrescriptionHandler: &PrescriptionHandler{API: api, Guard: guard},
		CartHandler:         cart,
		OrderHandler:        &OrderHandler{API: api, Guard: guard, Cart: cart},
		badges:              badges,
	}
}

// CartBadge exposes the newest known cart size to templates.
func (d *Deps) CartBadge() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if email := currentUser(c).Email; email != "" {
			if n, ok := d.badges.Get(email); ok {
				c.Locals("cart_count", n)
			}
		}
		return c.Next()
	}
}

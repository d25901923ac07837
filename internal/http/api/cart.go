package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hospot/internal/domain"
	applog "hospot/internal/log"
)

func (h *Handler) GetCart(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	cart, err := h.Cart.Get(email)
	if err != nil {
		return fail(c, "cart.get", err)
	}
	return c.JSON(cart)
}

func (h *Handler) AddToCart(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	var in domain.AddCartItem
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	cart, err := h.Cart.Add(email, in)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"medicine_id": in.MedicineID, "qty": in.Quantity})
	return c.JSON(cart)
}

// UpdateCart reads medicine_id and quantity from the query string, falling
// back to a JSON body.
func (h *Handler) UpdateCart(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	in := domain.UpdateCartItem{MedicineID: c.Query("medicine_id")}
	if raw := c.Query("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return detail(c, fiber.StatusBadRequest, "quantity must be an integer")
		}
		in.Quantity = n
	} else if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return detail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	} else {
		return detail(c, fiber.StatusBadRequest, "quantity is required")
	}
	if in.MedicineID == "" {
		return detail(c, fiber.StatusBadRequest, "medicine_id is required")
	}
	cart, err := h.Cart.Update(email, in.MedicineID, in.Quantity)
	if err != nil {
		return fail(c, "cart.update", err)
	}
	return c.JSON(cart)
}

func (h *Handler) RemoveFromCart(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	cart, err := h.Cart.Remove(email, c.Params("medicineId"))
	if err != nil {
		return fail(c, "cart.remove", err)
	}
	return c.JSON(cart)
}

func (h *Handler) ClearCart(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	if err := h.Cart.Clear(email); err != nil {
		return fail(c, "cart.clear", err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

package api

import (
	"github.com/gofiber/fiber/v2"

	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/services"
)

func (h *Handler) PlaceOrder(c *fiber.Ctx) error {
	var in domain.PlaceOrder
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	o, err := h.Orders.Place(in)
	if err != nil {
		return fail(c, "order.place", err)
	}
	mismatch := in.TotalAmount != 0 && services.TotalsDiffer(in.TotalAmount, o.TotalAmount)
	if mismatch {
		applog.Security(c, "order.total.mismatch", map[string]any{
			"order_id": o.ID, "client_total": in.TotalAmount, "server_total": o.TotalAmount,
		})
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":     o.ID,
		"user":         o.UserID,
		"server_total": o.TotalAmount,
		"client_total": in.TotalAmount,
		"mismatch":     mismatch,
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *Handler) UserOrders(c *fiber.Ctx) error {
	email, ok := emailParam(c)
	if !ok {
		return detail(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}
	list, err := h.Orders.ListByUser(email)
	if err != nil {
		return fail(c, "orders.list", err)
	}
	return c.JSON(list)
}

func (h *Handler) UpdateOrderStatus(c *fiber.Ctx) error {
	var in domain.UpdateOrderStatus
	if err := c.BodyParser(&in); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	o, err := h.Orders.UpdateStatus(c.Params("id"), in.Status)
	if err != nil {
		return fail(c, "order.status", err)
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(o)
}

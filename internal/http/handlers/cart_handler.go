package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/submit"
	"hospot/internal/validate"
)

type CartHandler struct {
	API    *apiclient.Client
	Guard  *submit.Guard
	Badges *apiclient.Latest[int]
	Meds   *MedicineHandler
}

// fetch loads the cart and records its size unless a newer fetch already has.
func (h *CartHandler) fetch(email string) (domain.Cart, error) {
	seq := h.Badges.Begin(email)
	cart, err := h.API.Cart(email)
	if err != nil {
		return domain.Cart{}, err
	}
	h.Badges.Apply(email, seq, itemCount(cart))
	return cart, nil
}

func itemCount(cart domain.Cart) int {
	n := 0
	for _, it := range cart.Items {
		n += it.Quantity
	}
	return n
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	email := currentUser(c).Email
	data := fiber.Map{"Title": "My Cart"}
	cart, err := h.fetch(email)
	if err != nil {
		applog.Error(c, "cart.fetch", err, nil)
		data["Alert"] = "Could not load your cart right now."
	} else {
		c.Locals("cart_count", itemCount(cart))
	}
	data["Cart"] = cart
	switch {
	case c.Query("added") != "":
		data["Notice"] = "Added to cart."
	case c.Query("updated") != "":
		data["Notice"] = "Cart updated."
	}
	return render(c, "cart", data)
}

// Add handles the add-to-cart form on the medicine page.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	medID := c.FormValue("medicine_id")
	qty := validate.Qty(c.FormValue("quantity"))
	rxID := c.FormValue("prescription_id")
	form := fiber.Map{"Quantity": qty, "PrescriptionID": rxID}

	if _, ok := validate.ID(medID); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "medicine_id"})
		return notFound(c, "Medicine not found")
	}

	key := guardKey(c, "cart-add:"+medID)
	finish, ok := h.Guard.Begin(key)
	if !ok {
		return h.Meds.detail(c, fiber.StatusConflict, medID, fiber.Map{
			"Form": form, "Alert": "This item is already being added to your cart.",
		})
	}
	// Back to idle once this request has rendered its outcome, even on panic.
	defer func() {
		finish(false)
		h.Guard.Settle(key)
	}()
	email := currentUser(c).Email
	cart, err := h.API.AddToCart(email, domain.AddCartItem{
		MedicineID: medID, Quantity: qty, PrescriptionID: rxID,
	})
	finish(err == nil)
	if err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"medicine_id": medID})
		msg := "Failed to add to cart. Please try again."
		if apiclient.IsClientError(err) && apiclient.Detail(err) != "" {
			msg = apiclient.Detail(err)
		}
		return h.Meds.detail(c, writeStatus(err), medID, fiber.Map{"Form": form, "Alert": msg})
	}
	h.Badges.Apply(email, h.Badges.Begin(email), itemCount(cart))
	applog.Info(c, "cart.add", map[string]any{"medicine_id": medID, "qty": qty})
	return c.Redirect("/cart?added=1")
}

// Update sets an absolute quantity; 0 removes the item.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	medID := c.FormValue("medicine_id")
	qty, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil || qty < 0 || qty > 50 {
		applog.Security(c, "validation.fail", map[string]any{"field": "quantity"})
		return h.failCart(c, fiber.StatusBadRequest, "Please choose a quantity between 0 and 50.")
	}
	email := currentUser(c).Email
	if _, err := h.API.UpdateCartQuantity(email, medID, qty); err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"medicine_id": medID, "qty": qty})
		return h.failCart(c, writeStatus(err), "Failed to update cart. Please try again.")
	}
	return c.Redirect("/cart?updated=1")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	medID := c.FormValue("medicine_id")
	if _, err := h.API.RemoveFromCart(currentUser(c).Email, medID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"medicine_id": medID})
		return h.failCart(c, writeStatus(err), "Failed to remove item. Please try again.")
	}
	return c.Redirect("/cart?updated=1")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.API.ClearCart(currentUser(c).Email); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
		return h.failCart(c, writeStatus(err), "Failed to clear cart. Please try again.")
	}
	return c.Redirect("/cart?updated=1")
}

// failCart re-renders the refetched cart with an alert.
func (h *CartHandler) failCart(c *fiber.Ctx, status int, alert string) error {
	cart, err := h.fetch(currentUser(c).Email)
	if err != nil {
		applog.Error(c, "cart.fetch", err, nil)
	}
	return renderStatus(c, status, "cart", fiber.Map{"Title": "My Cart", "Cart": cart, "Alert": alert})
}

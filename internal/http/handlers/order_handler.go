package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"hospot/internal/apiclient"
	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/submit"
	"hospot/internal/validate"
)

type OrderHandler struct {
	API   *apiclient.Client
	Guard *submit.Guard
	Cart  *CartHandler
}

type checkoutView struct {
	Cart        domain.Cart
	DeliveryFee float64
	Total       float64
}

func newCheckoutView(cart domain.Cart) checkoutView {
	total := decimal.NewFromFloat(cart.TotalAmount).Add(decimal.NewFromFloat(domain.DeliveryFee)).Round(2)
	return checkoutView{Cart: cart, DeliveryFee: domain.DeliveryFee, Total: total.InexactFloat64()}
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cart, err := h.Cart.fetch(currentUser(c).Email)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return renderStatus(c, fiber.StatusBadGateway, "notfound", fiber.Map{"Title": "Checkout", "Message": "Could not load your cart"})
	}
	if len(cart.Items) == 0 {
		return c.Redirect("/cart")
	}
	return render(c, "checkout", fiber.Map{
		"Title":          "Checkout",
		"View":           newCheckoutView(cart),
		"PaymentMethods": domain.PaymentMethods,
		"Form":           fiber.Map{"PaymentMethod": domain.PayCashOnDelivery},
	})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	email := currentUser(c).Email
	form := fiber.Map{
		"DeliveryAddress": c.FormValue("delivery_address"),
		"ContactNumber":   c.FormValue("contact_number"),
		"PaymentMethod":   c.FormValue("payment_method"),
		"Notes":           c.FormValue("notes"),
	}

	cart, err := h.Cart.fetch(email)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return renderStatus(c, fiber.StatusBadGateway, "notfound", fiber.Map{"Title": "Checkout", "Message": "Could not load your cart"})
	}
	if len(cart.Items) == 0 {
		return c.Redirect("/cart")
	}
	again := func(status int, extra fiber.Map) error {
		data := fiber.Map{
			"Title":          "Checkout",
			"View":           newCheckoutView(cart),
			"PaymentMethods": domain.PaymentMethods,
			"Form":           form,
		}
		for k, v := range extra {
			data[k] = v
		}
		return renderStatus(c, status, "checkout", data)
	}

	errs := fiber.Map{}
	addr, ok := validate.Text(c.FormValue("delivery_address"), 300)
	if !ok {
		errs["DeliveryAddress"] = "Delivery address is required"
	}
	phone, ok := validate.Phone(c.FormValue("contact_number"))
	if !ok {
		errs["ContactNumber"] = "Please enter a valid contact number"
	}
	pay, ok := validate.PaymentMethod(c.FormValue("payment_method"))
	if !ok {
		errs["PaymentMethod"] = "Please choose a payment method"
	}
	if len(errs) > 0 {
		applog.Security(c, "validation.fail", map[string]any{"form": "checkout"})
		return again(fiber.StatusBadRequest, fiber.Map{"Errors": errs})
	}

	key := guardKey(c, "checkout")
	finish, admitted := h.Guard.Begin(key)
	if !admitted {
		return again(fiber.StatusConflict, fiber.Map{"Alert": "Your order is already being placed."})
	}
	// Back to idle once this request has rendered its outcome, even on panic.
	defer func() {
		finish(false)
		h.Guard.Settle(key)
	}()

	items := make([]domain.OrderItem, 0, len(cart.Items))
	var rxIDs []string
	for _, it := range cart.Items {
		items = append(items, domain.OrderItem(it))
		if it.PrescriptionID != "" {
			rxIDs = append(rxIDs, it.PrescriptionID)
		}
	}
	view := newCheckoutView(cart)
	o, err := h.API.PlaceOrder(domain.PlaceOrder{
		UserID:          email,
		Items:           items,
		TotalAmount:     view.Total,
		DeliveryAddress: addr,
		ContactNumber:   phone,
		PaymentMethod:   pay,
		Notes:           c.FormValue("notes"),
		PrescriptionIDs: rxIDs,
	})
	finish(err == nil)
	if err != nil {
		applog.Error(c, "order.place.fail", err, nil)
		return again(writeStatus(err), fiber.Map{"Alert": "Failed to place order. Please try again."})
	}
	h.Cart.Badges.Apply(email, h.Cart.Badges.Begin(email), 0)
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "total": o.TotalAmount, "client_total": view.Total})
	return c.Redirect("/orders?placed=1")
}

// History lists orders for the current user, newest first.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "My Orders"}
	orders, err := h.API.Orders(currentUser(c).Email)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		data["Alert"] = "Could not load your orders right now."
	}
	data["Orders"] = orders
	if c.Query("placed") != "" {
		data["Notice"] = "Order placed successfully! You will receive a confirmation call shortly."
	}
	return render(c, "orders", data)
}

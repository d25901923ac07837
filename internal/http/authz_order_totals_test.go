package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"hospot/internal/repos"
	"hospot/internal/server"
)

// Cart prices sent back by the browser are never trusted; the API re-prices
// every line from the catalog.
func TestOrderTotalsRecomputed(t *testing.T) {
	app, db := newWebApp(t, server.WebOptions{})
	b := newBrowser(t, app)
	b.login("Jane Doe", "jane@example.com")

	resp := b.post("/cart/add", url.Values{"medicine_id": {"m-vitamin-d3"}, "quantity": {"2"}})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/cart?added=1" {
		t.Fatalf("add to cart: %d %q body=%s", resp.StatusCode, resp.Header.Get("Location"), body(resp))
	}
	if s := body(b.get("/checkout")); !strings.Contains(s, "$26.99") {
		t.Fatalf("checkout total missing: %s", s)
	}

	// Tamper with the stored line price
	if _, err := db.Exec(`UPDATE cart_items SET price = 0.01 WHERE user_email = ?`, "jane@example.com"); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	var status int
	var location string
	entries := captureLogs(t, func() {
		resp := b.post("/checkout", url.Values{
			"delivery_address": {"1 Main Street"},
			"contact_number":   {"+1-555-0199"},
			"payment_method":   {"cash_on_delivery"},
		})
		status, location = resp.StatusCode, resp.Header.Get("Location")
	})
	if status != http.StatusFound || location != "/orders?placed=1" {
		t.Fatalf("expected redirect to orders, got %d %q", status, location)
	}
	if _, ok := findLog(entries, "order.total.mismatch"); !ok {
		t.Fatal("tampered total not flagged")
	}

	orders, err := repos.NewOrderRepo(db).ListByUser("jane@example.com")
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.TotalAmount != 26.99 {
		t.Fatalf("order total not recomputed; got %v", o.TotalAmount)
	}
	if len(o.Items) != 1 || o.Items[0].Price != 10.50 || o.Items[0].Quantity != 2 {
		t.Fatalf("order items = %+v", o.Items)
	}
	if o.Status != "pending" {
		t.Fatalf("status = %q", o.Status)
	}

	s := body(b.get("/orders?placed=1"))
	if !strings.Contains(s, "Order placed successfully!") || !strings.Contains(s, "$26.99") || !strings.Contains(s, "Pending") {
		t.Fatalf("orders page incomplete: %s", s)
	}
	if s := body(b.get("/cart")); !strings.Contains(s, "Your cart is empty") {
		t.Fatal("cart not cleared after order")
	}
}

func TestCheckoutWithEmptyCartRedirects(t *testing.T) {
	app, _ := newWebApp(t, server.WebOptions{})
	b := newBrowser(t, app)
	b.login("Jane Doe", "jane@example.com")

	resp := b.get("/checkout")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/cart" {
		t.Fatalf("empty checkout: %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

package handlers

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/domain"
	"hospot/internal/submit"
)

// deadAPI points at a port nothing listens on, so every write fails.
func deadAPI() *apiclient.Client {
	return apiclient.New("http://127.0.0.1:1/api", 300*time.Millisecond)
}

func formApp(d *Deps) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", domain.User{Name: "Jane Doe", Email: "jane@example.com"})
		return c.Next()
	})
	app.Post("/hospital/:id/book", d.HospitalHandler.Book)
	app.Post("/prescriptions", d.PrescriptionHandler.Create)
	app.Post("/cart/add", d.CartHandler.Add)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := app.Test(req, -1); err != nil {
		t.Fatal(err)
	}
}

func TestFailedSubmissionsReturnToIdle(t *testing.T) {
	d := NewDeps(deadAPI())
	app := formApp(d)

	postForm(t, app, "/hospital/h-riverside/book", url.Values{
		"patient_name": {"Jane Doe"}, "bed_type": {"ICU"}, "contact_number": {"+1-555-0199"},
	})
	postForm(t, app, "/prescriptions", url.Values{
		"doctor_name": {"Dr Grey"}, "hospital_name": {"City General"}, "prescription_date": {"2024-03-01"},
		"medicine_name": {"Amoxicillin"}, "dosage": {"500mg"}, "duration": {"7 days"},
	})
	postForm(t, app, "/cart/add", url.Values{"medicine_id": {"m-vitamin-d3"}, "quantity": {"1"}})

	guard := d.HospitalHandler.Guard
	for _, form := range []string{"booking:h-riverside", "prescription", "cart-add:m-vitamin-d3"} {
		if st := guard.State(submit.Key("jane@example.com", form)); st != submit.Idle {
			t.Fatalf("%s left in state %v", form, st)
		}
	}

	// a retry is admitted again
	finish, ok := guard.Begin(submit.Key("jane@example.com", "booking:h-riverside"))
	if !ok {
		t.Fatal("retry after failure was blocked")
	}
	finish(true)
}

func TestPrescriptionDateLimitUsesUTC(t *testing.T) {
	eastern := time.FixedZone("EST", -5*3600)
	h := &PrescriptionHandler{Now: func() time.Time {
		return time.Date(2025, 3, 1, 22, 30, 0, 0, eastern)
	}}
	if got := h.today(); got != "2025-03-02" {
		t.Fatalf("today = %q, want the UTC date 2025-03-02", got)
	}
}

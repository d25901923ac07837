package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"hospot/internal/domain"
	"hospot/internal/repos"
	"hospot/internal/server"
)

func TestBookBedThroughWebApp(t *testing.T) {
	app, _ := newWebApp(t, server.WebOptions{})
	b := newBrowser(t, app)
	b.login("Jane Doe", "jane@example.com")

	if s := body(b.get("/hospital/h-riverside")); !strings.Contains(s, "<td>ICU</td><td>3</td>") {
		t.Fatalf("riverside ICU count missing: %s", s)
	}

	resp := b.post("/hospital/h-riverside/book", url.Values{
		"patient_name": {"Jane Doe"}, "bed_type": {"icu"}, "contact_number": {"+1-555-0199"},
	})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/hospital/h-riverside?booked=1" {
		t.Fatalf("booking: %d %q body=%s", resp.StatusCode, resp.Header.Get("Location"), body(resp))
	}
	s := body(b.get("/hospital/h-riverside?booked=1"))
	if !strings.Contains(s, "Bed booked successfully.") || !strings.Contains(s, "<td>ICU</td><td>2</td>") {
		t.Fatalf("booking not reflected: %s", s)
	}
	if s := body(b.get("/home")); !strings.Contains(s, "My bookings") || !strings.Contains(s, "Riverside Emergency Hospital") {
		t.Fatal("booking missing from home page")
	}

	// Sunset has no ICU beds
	resp = b.post("/hospital/h-sunset/book", url.Values{
		"patient_name": {"Jane Doe"}, "bed_type": {"ICU"}, "contact_number": {"+1-555-0199"},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for exhausted beds, got %d", resp.StatusCode)
	}
	if !strings.Contains(body(resp), "Failed to book bed. Please try again.") {
		t.Fatal("conflict alert missing")
	}
}

func TestPrescriptionGatesCart(t *testing.T) {
	app, db := newWebApp(t, server.WebOptions{})
	b := newBrowser(t, app)
	b.login("Jane Doe", "jane@example.com")

	if s := body(b.get("/medicine/m-amoxicillin-500")); !strings.Contains(s, "Upload one first") {
		t.Fatal("prescription hint missing")
	}
	resp := b.post("/cart/add", url.Values{"medicine_id": {"m-amoxicillin-500"}, "quantity": {"1"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without prescription, got %d", resp.StatusCode)
	}
	if !strings.Contains(body(resp), "A valid prescription is required for this medicine") {
		t.Fatal("api detail not shown")
	}

	resp = b.post("/prescriptions", url.Values{
		"doctor_name": {"Dr Grey"}, "hospital_name": {"City General Hospital"}, "prescription_date": {"2024-03-01"},
		"medicine_name": {"Amoxicillin", "", ""}, "dosage": {"500mg", "", ""}, "duration": {"7 days", "", ""},
	})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/prescriptions?added=1" {
		t.Fatalf("upload: %d %q body=%s", resp.StatusCode, resp.Header.Get("Location"), body(resp))
	}
	if s := body(b.get("/prescriptions?added=1")); !strings.Contains(s, "Dr. Dr Grey") || !strings.Contains(s, "Active") ||
		!strings.Contains(s, `href="/medicines?q=Amoxicillin"`) {
		t.Fatalf("prescription list incomplete: %s", s)
	}

	list, err := repos.NewPrescriptionRepo(db).ListByUser("jane@example.com")
	if err != nil || len(list) != 1 {
		t.Fatalf("prescriptions = %v, %v", list, err)
	}
	rxID := list[0].ID
	if s := body(b.get("/medicine/m-amoxicillin-500")); !strings.Contains(s, `value="`+rxID+`"`) {
		t.Fatal("prescription not offered on medicine page")
	}

	resp = b.post("/cart/add", url.Values{"medicine_id": {"m-amoxicillin-500"}, "quantity": {"1"}, "prescription_id": {rxID}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("add with prescription: %d body=%s", resp.StatusCode, body(resp))
	}
	if s := body(b.get("/cart?added=1")); !strings.Contains(s, "Amoxicillin 500mg") || !strings.Contains(s, "$12.75") {
		t.Fatalf("cart missing line: %s", s)
	}
}

func TestMedicineFilters(t *testing.T) {
	app, _ := newWebApp(t, server.WebOptions{})
	b := newBrowser(t, app)
	b.login("Jane Doe", "jane@example.com")

	s := body(b.get("/medicines?category=Antibiotics"))
	if !strings.Contains(s, "Amoxicillin 500mg") || strings.Contains(s, "Paracetamol 500mg") {
		t.Fatal("category filter not applied")
	}
	s = body(b.get("/medicines?rx=false"))
	if strings.Contains(s, "Amoxicillin 500mg") || !strings.Contains(s, "Paracetamol 500mg") {
		t.Fatal("prescription filter not applied")
	}
	s = body(b.get("/medicines?q=vitamin"))
	if !strings.Contains(s, "Vitamin D3 1000 IU") || strings.Contains(s, "Ibuprofen") {
		t.Fatal("search not applied")
	}
}

func TestBedStatusRendersAsSingleClass(t *testing.T) {
	app, db := newWebApp(t, server.WebOptions{})
	if err := repos.NewHospitalRepo(db).SetBeds("h-sunset", domain.BedAvailability{}); err != nil {
		t.Fatal(err)
	}
	b := newBrowser(t, app)
	b.login("Jane Doe", "jane@example.com")

	s := body(b.get("/home"))
	if !strings.Contains(s, `class="status status-no-beds">No beds<`) || !strings.Contains(s, `class="status status-available">Available<`) {
		t.Fatalf("status classes missing: %s", s)
	}
	if strings.Contains(s, "status-No beds") {
		t.Fatal("status label leaked into the class attribute")
	}
	if s := body(b.get("/hospital/h-riverside")); !strings.Contains(s, `class="status status-available"`) {
		t.Fatal("detail page status class missing")
	}
}

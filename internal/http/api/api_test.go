package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"hospot/internal/domain"
	"hospot/internal/http/api"
	"hospot/internal/repos"
)

const token = "admin-secret"

type recorder struct {
	orders []domain.Order
}

func (r *recorder) OrderPlaced(o domain.Order) error {
	r.orders = append(r.orders, o)
	return nil
}

func newAPI(t *testing.T) (*fiber.App, *recorder) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	rec := &recorder{}
	app := fiber.New(fiber.Config{UnescapePath: true})
	api.NewHandler(db, rec, token).Register(app.Group("/api"))
	return app, rec
}

// call sends body as JSON and decodes the response into out when given.
func call(t *testing.T, app *fiber.App, method, path string, body, out any, headers ...string) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type detailBody struct {
	Detail string `json:"detail"`
}

func TestBanner(t *testing.T) {
	app, _ := newAPI(t)
	var out map[string]string
	if code := call(t, app, "GET", "/api/", nil, &out); code != http.StatusOK {
		t.Fatalf("banner: %d", code)
	}
	if out["message"] != api.Banner {
		t.Fatalf("message = %q", out["message"])
	}
}

func TestHospitals(t *testing.T) {
	app, _ := newAPI(t)

	var list []domain.Hospital
	if code := call(t, app, "GET", "/api/hospitals", nil, &list); code != http.StatusOK || len(list) != 7 {
		t.Fatalf("list: %d, %d hospitals", code, len(list))
	}
	if list[0].ID != "h-north-hills" {
		t.Fatalf("most beds first, got %s", list[0].ID)
	}

	if code := call(t, app, "GET", "/api/hospitals?search=midtown", nil, &list); code != http.StatusOK || len(list) != 1 || list[0].ID != "h-metro-medical" {
		t.Fatalf("search: %d %+v", code, list)
	}

	var d detailBody
	if code := call(t, app, "GET", "/api/hospitals?search=%3Cscript%3E", nil, &d); code != http.StatusBadRequest {
		t.Fatalf("bad search: %d", code)
	}
	if code := call(t, app, "GET", "/api/hospitals/h-nowhere", nil, &d); code != http.StatusNotFound || d.Detail != "Hospital not found" {
		t.Fatalf("unknown: %d %q", code, d.Detail)
	}

	var h domain.Hospital
	if code := call(t, app, "GET", "/api/hospitals/h-riverside", nil, &h); code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	if h.AvailableBeds.Total() != 26 || h.AvailableBeds.Status() != "Available" {
		t.Fatalf("riverside beds = %+v", h.AvailableBeds)
	}
}

func TestAllZeroBedsReportNoBeds(t *testing.T) {
	app, _ := newAPI(t)
	var h domain.Hospital
	code := call(t, app, "PUT", "/api/hospitals/h-sunset/beds", domain.BedAvailability{}, &h, "X-Admin-Token", token)
	if code != http.StatusOK {
		t.Fatalf("set beds: %d", code)
	}
	if h.AvailableBeds.Total() != 0 || h.AvailableBeds.Status() != "No beds" {
		t.Fatalf("beds = %+v status %q", h.AvailableBeds, h.AvailableBeds.Status())
	}

	var list []domain.Hospital
	call(t, app, "GET", "/api/hospitals", nil, &list)
	if last := list[len(list)-1]; last.ID != "h-sunset" {
		t.Fatalf("empty hospital should sort last, got %s", last.ID)
	}

	var d detailBody
	code = call(t, app, "POST", "/api/bookings", domain.BookBed{
		HospitalID: "h-sunset", UserID: "jane@example.com", PatientName: "Jane Doe", BedType: "General", ContactNumber: "+1-555-0199",
	}, &d)
	if code != http.StatusConflict {
		t.Fatalf("booking at empty hospital: %d %q", code, d.Detail)
	}
}

func TestMedicines(t *testing.T) {
	app, _ := newAPI(t)

	var cats struct {
		Categories []string `json:"categories"`
	}
	if code := call(t, app, "GET", "/api/medicines/categories", nil, &cats); code != http.StatusOK || len(cats.Categories) == 0 {
		t.Fatalf("categories: %d %v", code, cats.Categories)
	}

	var meds []domain.Medicine
	call(t, app, "GET", "/api/medicines?prescription_required=true", nil, &meds)
	if len(meds) == 0 {
		t.Fatal("no prescription medicines")
	}
	for _, m := range meds {
		if !m.PrescriptionRequired {
			t.Fatalf("%s does not need a prescription", m.ID)
		}
	}

	call(t, app, "GET", "/api/medicines?category=pain%20relief", nil, &meds)
	if len(meds) != 2 {
		t.Fatalf("pain relief = %d medicines", len(meds))
	}

	var d detailBody
	if code := call(t, app, "GET", "/api/medicines?prescription_required=maybe", nil, &d); code != http.StatusBadRequest {
		t.Fatalf("bad flag: %d", code)
	}

	var m domain.Medicine
	if code := call(t, app, "GET", "/api/medicines/m-vitamin-d3", nil, &m); code != http.StatusOK || m.Price != 10.50 {
		t.Fatalf("get: %d %+v", code, m)
	}
	if code := call(t, app, "GET", "/api/medicines/m-nothing", nil, &d); code != http.StatusNotFound {
		t.Fatalf("unknown medicine: %d", code)
	}
}

func TestCartAndOrder(t *testing.T) {
	app, rec := newAPI(t)
	const email = "jane@example.com"

	var cart domain.Cart
	call(t, app, "POST", "/api/cart/"+email+"/add", domain.AddCartItem{MedicineID: "m-vitamin-d3", Quantity: 3}, &cart)
	if code := call(t, app, "POST", "/api/cart/"+email+"/add", domain.AddCartItem{MedicineID: "m-vitamin-d3", Quantity: 1}, &cart); code != http.StatusOK {
		t.Fatalf("add: %d", code)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 4 || cart.TotalAmount != 42.00 {
		t.Fatalf("cart = %+v", cart)
	}

	call(t, app, "POST", "/api/cart/"+email+"/add", domain.AddCartItem{MedicineID: "m-cetirizine-10", Quantity: 1}, &cart)
	if code := call(t, app, "PUT", "/api/cart/"+email+"/update?medicine_id=m-cetirizine-10&quantity=0", nil, &cart); code != http.StatusOK {
		t.Fatalf("update to zero: %d", code)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("quantity 0 should remove the line: %+v", cart.Items)
	}

	var d detailBody
	if code := call(t, app, "PUT", "/api/cart/"+email+"/update?medicine_id=m-cetirizine-10&quantity=2", nil, &d); code != http.StatusNotFound {
		t.Fatalf("update missing line: %d", code)
	}
	if code := call(t, app, "PUT", "/api/cart/"+email+"/update", nil, &d); code != http.StatusBadRequest || d.Detail != "quantity is required" {
		t.Fatalf("update without quantity: %d %q", code, d.Detail)
	}
	if code := call(t, app, "POST", "/api/cart/"+email+"/add", domain.AddCartItem{MedicineID: "m-salbutamol-inhaler", Quantity: 1}, &d); code != http.StatusBadRequest && code != http.StatusConflict {
		t.Fatalf("out of stock prescription medicine accepted: %d", code)
	}

	var o domain.Order
	code := call(t, app, "POST", "/api/orders", domain.PlaceOrder{
		UserID: email, DeliveryAddress: "1 Main Street", ContactNumber: "+1-555-0199", PaymentMethod: "cash_on_delivery",
	}, &o)
	if code != http.StatusCreated {
		t.Fatalf("place: %d", code)
	}
	if o.TotalAmount != 47.99 || o.Status != domain.OrderPending {
		t.Fatalf("order = %+v", o)
	}
	if _, err := time.Parse("2006-01-02T15:04:05.000Z07:00", o.OrderDate); err != nil {
		t.Fatalf("order date %q: %v", o.OrderDate, err)
	}
	if len(rec.orders) != 1 || rec.orders[0].ID != o.ID {
		t.Fatal("notifier not called")
	}

	call(t, app, "GET", "/api/cart/"+email, nil, &cart)
	if len(cart.Items) != 0 || cart.TotalAmount != 0 {
		t.Fatalf("cart not cleared: %+v", cart)
	}
	if code := call(t, app, "POST", "/api/orders", domain.PlaceOrder{
		UserID: email, DeliveryAddress: "1 Main Street", ContactNumber: "+1-555-0199", PaymentMethod: "cash_on_delivery",
	}, &d); code != http.StatusBadRequest {
		t.Fatalf("empty order: %d", code)
	}

	var orders []domain.Order
	call(t, app, "GET", "/api/orders/user/"+email, nil, &orders)
	if len(orders) != 1 || len(orders[0].Items) != 1 {
		t.Fatalf("history = %+v", orders)
	}

	if code := call(t, app, "PUT", "/api/orders/"+o.ID+"/status", domain.UpdateOrderStatus{Status: "shipped"}, &d, "X-Admin-Token", token); code != http.StatusBadRequest {
		t.Fatalf("unknown status: %d", code)
	}
	if code := call(t, app, "PUT", "/api/orders/"+o.ID+"/status", domain.UpdateOrderStatus{Status: "confirmed"}, &o, "X-Admin-Token", token); code != http.StatusOK || o.Status != "confirmed" {
		t.Fatalf("status update: %d %q", code, o.Status)
	}

	var msg map[string]string
	if code := call(t, app, "DELETE", "/api/cart/"+email+"/clear", nil, &msg); code != http.StatusOK || msg["message"] != "Cart cleared" {
		t.Fatalf("clear: %d %v", code, msg)
	}
}

func TestPrescriptionsAndBookings(t *testing.T) {
	app, _ := newAPI(t)
	const email = "jane@example.com"

	var d detailBody
	future := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	in := domain.NewPrescription{
		UserID: email, DoctorName: "Dr Grey", HospitalName: "City General Hospital", PrescriptionDate: future,
		Medicines: []domain.PrescriptionMedicine{{MedicineName: "Amoxicillin", Dosage: "500mg", Duration: "7 days"}},
	}
	if code := call(t, app, "POST", "/api/prescriptions", in, &d); code != http.StatusBadRequest {
		t.Fatalf("future prescription: %d", code)
	}
	in.PrescriptionDate = "2024-03-01"
	var p domain.Prescription
	if code := call(t, app, "POST", "/api/prescriptions", in, &p); code != http.StatusCreated || p.ID == "" || p.IsUsed {
		t.Fatalf("create: %d %+v", code, p)
	}

	var list []domain.Prescription
	call(t, app, "GET", "/api/prescriptions/user/JANE@example.com", nil, &list)
	if len(list) != 1 {
		t.Fatalf("email match should ignore case, got %d", len(list))
	}

	var b domain.Booking
	code := call(t, app, "POST", "/api/bookings", domain.BookBed{
		HospitalID: "h-riverside", UserID: email, PatientName: "Jane Doe", BedType: "ICU", ContactNumber: "+1-555-0199",
	}, &b)
	if code != http.StatusCreated || b.Status != "confirmed" || b.HospitalName != "Riverside Emergency Hospital" {
		t.Fatalf("book: %d %+v", code, b)
	}
	var bookings []domain.Booking
	call(t, app, "GET", "/api/bookings/user/"+email, nil, &bookings)
	if len(bookings) != 1 || bookings[0].HospitalName != "Riverside Emergency Hospital" {
		t.Fatalf("bookings = %+v", bookings)
	}

	if code := call(t, app, "GET", "/api/bookings/user/not-an-email", nil, &d); code != http.StatusBadRequest {
		t.Fatalf("bad email: %d", code)
	}
}

package apiclient

import (
	"net/url"
	"strconv"

	"hospot/internal/domain"
)

func seg(s string) string { return url.PathEscape(s) }

func (c *Client) Hospitals(search string) ([]domain.Hospital, error) {
	var out []domain.Hospital
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	err := c.Get("/hospitals", q, &out)
	return out, err
}

func (c *Client) Hospital(id string) (domain.Hospital, error) {
	var out domain.Hospital
	err := c.Get("/hospitals/"+seg(id), nil, &out)
	return out, err
}

// MedicineQuery mirrors the list filters. Empty fields are not sent.
type MedicineQuery struct {
	Search               string
	Category             string
	PrescriptionRequired string // "true" | "false" | ""
}

func (c *Client) Medicines(mq MedicineQuery) ([]domain.Medicine, error) {
	var out []domain.Medicine
	q := url.Values{}
	if mq.Search != "" {
		q.Set("search", mq.Search)
	}
	if mq.Category != "" {
		q.Set("category", mq.Category)
	}
	if mq.PrescriptionRequired != "" {
		q.Set("prescription_required", mq.PrescriptionRequired)
	}
	err := c.Get("/medicines", q, &out)
	return out, err
}

func (c *Client) MedicineCategories() ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	err := c.Get("/medicines/categories", nil, &out)
	return out.Categories, err
}

func (c *Client) Medicine(id string) (domain.Medicine, error) {
	var out domain.Medicine
	err := c.Get("/medicines/"+seg(id), nil, &out)
	return out, err
}

func (c *Client) Prescriptions(email string) ([]domain.Prescription, error) {
	var out []domain.Prescription
	err := c.Get("/prescriptions/user/"+seg(email), nil, &out)
	return out, err
}

func (c *Client) CreatePrescription(in domain.NewPrescription) (domain.Prescription, error) {
	var out domain.Prescription
	err := c.Post("/prescriptions", nil, in, &out)
	return out, err
}

func (c *Client) Cart(email string) (domain.Cart, error) {
	var out domain.Cart
	err := c.Get("/cart/"+seg(email), nil, &out)
	return out, err
}

func (c *Client) AddToCart(email string, in domain.AddCartItem) (domain.Cart, error) {
	var out domain.Cart
	err := c.Post("/cart/"+seg(email)+"/add", nil, in, &out)
	return out, err
}

// UpdateCartQuantity sets an absolute quantity; 0 removes the item.
func (c *Client) UpdateCartQuantity(email, medicineID string, qty int) (domain.Cart, error) {
	var out domain.Cart
	q := url.Values{}
	q.Set("medicine_id", medicineID)
	q.Set("quantity", strconv.Itoa(qty))
	err := c.Put("/cart/"+seg(email)+"/update", q, nil, &out)
	return out, err
}

func (c *Client) RemoveFromCart(email, medicineID string) (domain.Cart, error) {
	var out domain.Cart
	err := c.Delete("/cart/"+seg(email)+"/remove/"+seg(medicineID), nil, &out)
	return out, err
}

func (c *Client) ClearCart(email string) error {
	return c.Delete("/cart/"+seg(email)+"/clear", nil, nil)
}

func (c *Client) PlaceOrder(in domain.PlaceOrder) (domain.Order, error) {
	var out domain.Order
	err := c.Post("/orders", nil, in, &out)
	return out, err
}

func (c *Client) Orders(email string) ([]domain.Order, error) {
	var out []domain.Order
	err := c.Get("/orders/user/"+seg(email), nil, &out)
	return out, err
}

func (c *Client) BookBed(in domain.BookBed) (domain.Booking, error) {
	var out domain.Booking
	err := c.Post("/bookings", nil, in, &out)
	return out, err
}

func (c *Client) Bookings(email string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.Get("/bookings/user/"+seg(email), nil, &out)
	return out, err
}

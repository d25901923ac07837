package domain

// Request payloads accepted by the API and sent by the web client.

type NewPrescription struct {
	UserID           string                 `json:"userId"`
	DoctorName       string                 `json:"doctorName"`
	HospitalName     string                 `json:"hospitalName"`
	PrescriptionDate string                 `json:"prescriptionDate"`
	Medicines        []PrescriptionMedicine `json:"medicines"`
	Notes            string                 `json:"notes"`
	ImageURL         string                 `json:"imageUrl"`
}

// AddCartItem is the add-to-cart payload. Name and price are informational;
// the catalog is authoritative.
type AddCartItem struct {
	MedicineID     string  `json:"medicineId"`
	MedicineName   string  `json:"medicineName"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	PrescriptionID string  `json:"prescriptionId,omitempty"`
}

type UpdateCartItem struct {
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
}

// PlaceOrder is the checkout payload. When Items is empty the user's cart is used.
type PlaceOrder struct {
	UserID          string      `json:"userId"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"totalAmount"`
	DeliveryAddress string      `json:"deliveryAddress"`
	ContactNumber   string      `json:"contactNumber"`
	PaymentMethod   string      `json:"paymentMethod"`
	Notes           string      `json:"notes"`
	PrescriptionIDs []string    `json:"prescriptionIds,omitempty"`
}

type BookBed struct {
	HospitalID    string `json:"hospitalId"`
	UserID        string `json:"userId"`
	PatientName   string `json:"patientName"`
	BedType       string `json:"bedType"`
	ContactNumber string `json:"contactNumber"`
	Notes         string `json:"notes"`
}

type UpdateOrderStatus struct {
	Status string `json:"status"`
}

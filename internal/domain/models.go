package domain

// DeliveryFee is the flat fee added to every medicine order.
const DeliveryFee = 5.99

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Bed types a hospital reports availability for.
const (
	BedICU     = "ICU"
	BedGeneral = "General"
	BedSpecial = "Special"
)

var BedTypes = []string{BedICU, BedGeneral, BedSpecial}

type BedAvailability struct {
	ICU     int `json:"ICU"`
	General int `json:"General"`
	Special int `json:"Special"`
}

func (b BedAvailability) Total() int { return b.ICU + b.General + b.Special }

// Status is the badge shown next to a hospital's bed counts.
func (b BedAvailability) Status() string {
	switch t := b.Total(); {
	case t <= 0:
		return "No beds"
	case t < 10:
		return "Limited"
	default:
		return "Available"
	}
}

// StatusClass is Status as a single CSS class token.
func (b BedAvailability) StatusClass() string {
	switch b.Status() {
	case "No beds":
		return "no-beds"
	case "Limited":
		return "limited"
	}
	return "available"
}

// Of returns the count for one bed type, or -1 for an unknown type.
func (b BedAvailability) Of(bedType string) int {
	switch bedType {
	case BedICU:
		return b.ICU
	case BedGeneral:
		return b.General
	case BedSpecial:
		return b.Special
	}
	return -1
}

type Hospital struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	Distance      string          `json:"distance"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Rating        float64         `json:"rating"`
	Emergency     bool            `json:"emergency"`
	BedTypes      []string        `json:"bedTypes"`
	AvailableBeds BedAvailability `json:"availableBeds"`
}

type Medicine struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Category             string   `json:"category"`
	Type                 string   `json:"type"`
	Price                float64  `json:"price"`
	Dosage               string   `json:"dosage"`
	Description          string   `json:"description"`
	PrescriptionRequired bool     `json:"prescriptionRequired"`
	InStock              bool     `json:"inStock"`
	Manufacturer         string   `json:"manufacturer"`
	ActiveIngredients    []string `json:"activeIngredients"`
	SideEffects          []string `json:"sideEffects"`
	Warnings             []string `json:"warnings"`
}

type PrescriptionMedicine struct {
	MedicineID   string `json:"medicineId,omitempty"`
	MedicineName string `json:"medicineName"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
}

type Prescription struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"userId"`
	DoctorName       string                 `json:"doctorName"`
	HospitalName     string                 `json:"hospitalName"`
	PrescriptionDate string                 `json:"prescriptionDate"` // YYYY-MM-DD
	Medicines        []PrescriptionMedicine `json:"medicines"`
	Notes            string                 `json:"notes"`
	ImageURL         string                 `json:"imageUrl"`
	IsUsed           bool                   `json:"isUsed"`
	CreatedAt        string                 `json:"createdAt,omitempty"`
}

type CartItem struct {
	MedicineID     string  `json:"medicineId" db:"medicine_id"`
	MedicineName   string  `json:"medicineName" db:"medicine_name"`
	Price          float64 `json:"price" db:"price"`
	Quantity       int     `json:"quantity" db:"quantity"`
	PrescriptionID string  `json:"prescriptionId,omitempty" db:"prescription_id"`
}

func (it CartItem) Subtotal() float64 { return it.Price * float64(it.Quantity) }

type Cart struct {
	UserID      string     `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

type OrderItem struct {
	MedicineID     string  `json:"medicineId" db:"medicine_id"`
	MedicineName   string  `json:"medicineName" db:"medicine_name"`
	Price          float64 `json:"price" db:"price"`
	Quantity       int     `json:"quantity" db:"quantity"`
	PrescriptionID string  `json:"prescriptionId,omitempty" db:"prescription_id"`
}

func (it OrderItem) Subtotal() float64 { return it.Price * float64(it.Quantity) }

type Order struct {
	ID              string      `json:"id" db:"id"`
	UserID          string      `json:"userId" db:"user_email"`
	Items           []OrderItem `json:"items" db:"-"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	DeliveryAddress string      `json:"deliveryAddress" db:"delivery_address"`
	ContactNumber   string      `json:"contactNumber" db:"contact_number"`
	PaymentMethod   string      `json:"paymentMethod" db:"payment_method"`
	Notes           string      `json:"notes" db:"notes"`
	Status          string      `json:"status" db:"status"`
	OrderDate       string      `json:"orderDate" db:"order_date"`
}

// Order statuses, in lifecycle order.
const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderPreparing      = "preparing"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
)

var orderStatusLabels = map[string]string{
	OrderPending:        "Pending",
	OrderConfirmed:      "Confirmed",
	OrderPreparing:      "Preparing",
	OrderOutForDelivery: "Out for Delivery",
	OrderDelivered:      "Delivered",
	OrderCancelled:      "Cancelled",
}

func ValidOrderStatus(s string) bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// OrderStatusLabel returns the display text for s; unknown statuses are shown verbatim.
func OrderStatusLabel(s string) string {
	if l, ok := orderStatusLabels[s]; ok {
		return l
	}
	return s
}

// Payment methods accepted at checkout. Card and UPI are mock flows.
const (
	PayCashOnDelivery = "cash_on_delivery"
	PayCard           = "card"
	PayUPI            = "upi"
)

var PaymentMethods = []string{PayCashOnDelivery, PayCard, PayUPI}

type Booking struct {
	ID            string `json:"id" db:"id"`
	HospitalID    string `json:"hospitalId" db:"hospital_id"`
	HospitalName  string `json:"hospitalName" db:"hospital_name"`
	UserID        string `json:"userId" db:"user_email"`
	PatientName   string `json:"patientName" db:"patient_name"`
	BedType       string `json:"bedType" db:"bed_type"`
	ContactNumber string `json:"contactNumber" db:"contact_number"`
	Notes         string `json:"notes" db:"notes"`
	Status        string `json:"status" db:"status"`
	CreatedAt     string `json:"createdAt" db:"created_at"`
}

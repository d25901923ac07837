package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"hospot/internal/domain"
	"hospot/internal/repos"
)

type CartService struct {
	Carts         *repos.CartRepo
	Medicines     *repos.MedicineRepo
	Prescriptions *repos.PrescriptionRepo
}

func NewCartService(carts *repos.CartRepo, meds *repos.MedicineRepo, rx *repos.PrescriptionRepo) *CartService {
	return &CartService{Carts: carts, Medicines: meds, Prescriptions: rx}
}

func (s *CartService) Get(email string) (domain.Cart, error) {
	items, err := s.Carts.Items(email)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{UserID: email, Items: items, TotalAmount: itemsTotal(items).InexactFloat64()}, nil
}

func (s *CartService) Add(email string, in domain.AddCartItem) (domain.Cart, error) {
	if in.Quantity < 1 {
		return domain.Cart{}, invalidf("Quantity must be at least 1")
	}
	m, err := s.Medicines.Get(strings.TrimSpace(in.MedicineID))
	if err != nil {
		return domain.Cart{}, mapRepo(err, "Medicine")
	}
	if !m.InStock {
		return domain.Cart{}, conflictf("%s is out of stock", m.Name)
	}
	rxID := ""
	if m.PrescriptionRequired {
		p, err := usablePrescription(s.Prescriptions, in.PrescriptionID, email)
		if err != nil {
			return domain.Cart{}, err
		}
		rxID = p.ID
	}
	if err := s.Carts.UpsertItem(email, domain.CartItem{
		MedicineID: m.ID, MedicineName: m.Name, Price: m.Price, Quantity: in.Quantity, PrescriptionID: rxID,
	}); err != nil {
		return domain.Cart{}, err
	}
	return s.Get(email)
}

// Update sets an absolute quantity; zero removes the line.
func (s *CartService) Update(email, medicineID string, qty int) (domain.Cart, error) {
	if qty < 0 {
		return domain.Cart{}, invalidf("Quantity must not be negative")
	}
	if qty == 0 {
		return s.Remove(email, medicineID)
	}
	ok, err := s.Carts.SetQty(email, medicineID, qty)
	if err != nil {
		return domain.Cart{}, err
	}
	if !ok {
		return domain.Cart{}, notFound("Cart item")
	}
	return s.Get(email)
}

func (s *CartService) Remove(email, medicineID string) (domain.Cart, error) {
	ok, err := s.Carts.Remove(email, medicineID)
	if err != nil {
		return domain.Cart{}, err
	}
	if !ok {
		return domain.Cart{}, notFound("Cart item")
	}
	return s.Get(email)
}

func (s *CartService) Clear(email string) error {
	return s.Carts.Clear(email)
}

func itemsTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}

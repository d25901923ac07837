package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/notify"
	"hospot/internal/repos"
	"hospot/internal/validate"
)

type OrderService struct {
	Carts         *repos.CartRepo
	Medicines     *repos.MedicineRepo
	Orders        *repos.OrderRepo
	Prescriptions *repos.PrescriptionRepo
	Notifier      notify.Notifier
	Now           func() time.Time
}

func NewOrderService(carts *repos.CartRepo, meds *repos.MedicineRepo, orders *repos.OrderRepo,
	rx *repos.PrescriptionRepo, n notify.Notifier) *OrderService {
	if n == nil {
		n = notify.LogNotifier{}
	}
	return &OrderService{Carts: carts, Medicines: meds, Orders: orders, Prescriptions: rx, Notifier: n, Now: time.Now}
}

// Place prices every line from the catalog and stores the order as pending.
// The returned order's TotalAmount is the server total; callers compare it
// with in.TotalAmount to spot tampered clients.
func (s *OrderService) Place(in domain.PlaceOrder) (domain.Order, error) {
	email := strings.TrimSpace(in.UserID)
	if err := validate.Email(email); err != nil {
		return domain.Order{}, invalidf("%s", err.Error())
	}
	addr, ok := validate.Text(in.DeliveryAddress, 300)
	if !ok {
		return domain.Order{}, invalidf("Delivery address is required")
	}
	phone, ok := validate.Phone(in.ContactNumber)
	if !ok {
		return domain.Order{}, invalidf("Please enter a valid contact number")
	}
	pay, ok := validate.PaymentMethod(in.PaymentMethod)
	if !ok {
		return domain.Order{}, invalidf("Unsupported payment method")
	}

	lines := in.Items
	if len(lines) == 0 {
		cart, err := s.Carts.Items(email)
		if err != nil {
			return domain.Order{}, err
		}
		for _, it := range cart {
			lines = append(lines, domain.OrderItem(it))
		}
	}
	if len(lines) == 0 {
		return domain.Order{}, invalidf("Order must contain at least one item")
	}

	items, rxIDs, err := s.price(email, lines)
	if err != nil {
		return domain.Order{}, err
	}
	for _, id := range in.PrescriptionIDs {
		if _, err := usablePrescription(s.Prescriptions, id, email); err != nil {
			return domain.Order{}, err
		}
		rxIDs = appendUnique(rxIDs, id)
	}

	o := domain.Order{
		ID:              uuid.NewString(),
		UserID:          email,
		Items:           items,
		TotalAmount:     orderTotal(items).InexactFloat64(),
		DeliveryAddress: addr,
		ContactNumber:   phone,
		PaymentMethod:   pay,
		Notes:           strings.TrimSpace(in.Notes),
		Status:          domain.OrderPending,
		OrderDate:       s.Now().UTC().Format(timestampLayout),
	}

	tx, err := s.Orders.Begin()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()
	if err := s.Orders.Create(tx, o); err != nil {
		return domain.Order{}, err
	}
	if err := s.Prescriptions.MarkUsed(tx, rxIDs); err != nil {
		if errors.Is(err, repos.ErrAlreadyUsed) {
			return domain.Order{}, conflictf("Prescription has already been used")
		}
		return domain.Order{}, err
	}
	if err := s.Carts.ClearTx(tx, email); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}

	if err := s.Notifier.OrderPlaced(o); err != nil {
		applog.Logger().Warn().Err(err).Str("action", "order.notify.fail").Str("order_id", o.ID).Send()
	}
	return o, nil
}

// price re-reads every line from the catalog and checks prescriptions.
func (s *OrderService) price(email string, lines []domain.OrderItem) ([]domain.OrderItem, []string, error) {
	seen := map[string]int{}
	var out []domain.OrderItem
	var rxIDs []string
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, nil, invalidf("Quantity must be at least 1")
		}
		m, err := s.Medicines.Get(strings.TrimSpace(l.MedicineID))
		if err != nil {
			return nil, nil, mapRepo(err, "Medicine")
		}
		if !m.InStock {
			return nil, nil, conflictf("%s is out of stock", m.Name)
		}
		rxID := ""
		if m.PrescriptionRequired {
			p, err := usablePrescription(s.Prescriptions, l.PrescriptionID, email)
			if err != nil {
				return nil, nil, err
			}
			rxID = p.ID
			rxIDs = appendUnique(rxIDs, rxID)
		}
		if i, dup := seen[m.ID]; dup {
			out[i].Quantity += l.Quantity
			continue
		}
		seen[m.ID] = len(out)
		out = append(out, domain.OrderItem{
			MedicineID: m.ID, MedicineName: m.Name, Price: m.Price, Quantity: l.Quantity, PrescriptionID: rxID,
		})
	}
	return out, rxIDs, nil
}

func orderTotal(items []domain.OrderItem) decimal.Decimal {
	total := decimal.NewFromFloat(domain.DeliveryFee)
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}

// TotalsDiffer reports whether a client total disagrees with the server total by a cent or more.
func TotalsDiffer(client, server float64) bool {
	return !decimal.NewFromFloat(client).Round(2).Equal(decimal.NewFromFloat(server).Round(2))
}

func (s *OrderService) ListByUser(email string) ([]domain.Order, error) {
	return s.Orders.ListByUser(email)
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if err != nil {
		return domain.Order{}, mapRepo(err, "Order")
	}
	return o, nil
}

func (s *OrderService) UpdateStatus(id, status string) (domain.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, invalidf("Unknown order status %q", status)
	}
	if err := s.Orders.UpdateStatus(id, status); err != nil {
		return domain.Order{}, mapRepo(err, "Order")
	}
	return s.Get(id)
}

func appendUnique(xs []string, x string) []string {
	for _, v := range xs {
		if v == x {
			return xs
		}
	}
	return append(xs, x)
}

package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"hospot/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

// Create inserts the order header and its lines inside tx.
func (r *OrderRepo) Create(tx *sqlx.Tx, o domain.Order) error {
	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_email, total_amount, delivery_address, contact_number, payment_method, notes, status, order_date)
	  VALUES
	    (?,  ?,          ?,            ?,                ?,              ?,              ?,     ?,      ?)
	`, o.ID, o.UserID, o.TotalAmount, o.DeliveryAddress, o.ContactNumber, o.PaymentMethod, o.Notes, o.Status, o.OrderDate); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, medicine_id, medicine_name, price, quantity, prescription_id)
		  VALUES(?, ?, ?, ?, ?, ?)
		`, o.ID, it.MedicineID, it.MedicineName, it.Price, it.Quantity, it.PrescriptionID); err != nil {
			return err
		}
	}
	return nil
}

const orderCols = `id, user_email, total_amount, delivery_address, contact_number, payment_method, notes, status, order_date`

func (r *OrderRepo) items(orderID string) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.db.Select(&out, `
		SELECT medicine_id, medicine_name, price, quantity, prescription_id
		FROM order_items
		WHERE order_id = ?
		ORDER BY medicine_name
	`, orderID)
	return out, err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if o.Items, err = r.items(id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// ListByUser returns a user's orders with their lines, newest first.
func (r *OrderRepo) ListByUser(email string) ([]domain.Order, error) {
	out := []domain.Order{}
	if err := r.db.Select(&out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE LOWER(user_email) = LOWER(?)
		ORDER BY order_date DESC
	`, email); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := r.items(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

package repos

import (
	"github.com/jmoiron/sqlx"

	"hospot/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// Items returns the user's cart lines in insertion order.
func (r *CartRepo) Items(email string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.Select(&out, `
	  SELECT medicine_id, medicine_name, price, quantity, prescription_id
	  FROM cart_items
	  WHERE user_email = ?
	  ORDER BY created_at, medicine_id
	`, email)
	return out, err
}

// UpsertItem adds qty to an existing line or inserts a new one. The latest
// price and a non-empty prescription id replace the stored ones.
func (r *CartRepo) UpsertItem(email string, it domain.CartItem) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(user_email, medicine_id, medicine_name, price, quantity, prescription_id, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, strftime('%Y-%m-%d %H:%M:%f','now'), CURRENT_TIMESTAMP)
		ON CONFLICT(user_email, medicine_id) DO UPDATE SET
		  quantity = cart_items.quantity + excluded.quantity,
		  price = excluded.price,
		  medicine_name = excluded.medicine_name,
		  prescription_id = CASE WHEN excluded.prescription_id <> '' THEN excluded.prescription_id ELSE cart_items.prescription_id END,
		  updated_at = CURRENT_TIMESTAMP
	`, email, it.MedicineID, it.MedicineName, it.Price, it.Quantity, it.PrescriptionID)
	return err
}

// SetQty sets an absolute quantity (>= 1). Reports whether the line existed.
func (r *CartRepo) SetQty(email, medicineID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_email = ? AND medicine_id = ?
	`, qty, email, medicineID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Remove deletes one line. Reports whether the line existed.
func (r *CartRepo) Remove(email, medicineID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE user_email = ? AND medicine_id = ?`, email, medicineID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) Clear(email string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_email = ?`, email)
	return err
}

// ClearTx empties the cart as part of an order transaction.
func (r *CartRepo) ClearTx(tx *sqlx.Tx, email string) error {
	_, err := tx.Exec(`DELETE FROM cart_items WHERE user_email = ?`, email)
	return err
}

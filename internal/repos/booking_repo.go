package repos

import (
	"github.com/jmoiron/sqlx"

	"hospot/internal/domain"
)

type BookingRepo struct{ db *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) Create(tx *sqlx.Tx, b domain.Booking) error {
	_, err := tx.Exec(`
	  INSERT INTO bookings(id, hospital_id, user_email, patient_name, bed_type, contact_number, notes, status, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.HospitalID, b.UserID, b.PatientName, b.BedType, b.ContactNumber, b.Notes, b.Status, b.CreatedAt)
	return err
}

// ListByUser returns a user's bookings with hospital names, newest first.
func (r *BookingRepo) ListByUser(email string) ([]domain.Booking, error) {
	out := []domain.Booking{}
	err := r.db.Select(&out, `
	  SELECT b.id, b.hospital_id, h.name AS hospital_name, b.user_email, b.patient_name, b.bed_type,
	         b.contact_number, b.notes, b.status, b.created_at
	  FROM bookings b
	  JOIN hospitals h ON h.id = b.hospital_id
	  WHERE LOWER(b.user_email) = LOWER(?)
	  ORDER BY b.created_at DESC
	`, email)
	return out, err
}

package repos

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"hospot/internal/domain"
)

type PrescriptionRepo struct{ db *sqlx.DB }

func NewPrescriptionRepo(db *sqlx.DB) *PrescriptionRepo { return &PrescriptionRepo{db: db} }

type prescriptionRow struct {
	ID               string `db:"id"`
	UserEmail        string `db:"user_email"`
	DoctorName       string `db:"doctor_name"`
	HospitalName     string `db:"hospital_name"`
	PrescriptionDate string `db:"prescription_date"`
	MedicinesJSON    string `db:"medicines_json"`
	Notes            string `db:"notes"`
	ImageURL         string `db:"image_url"`
	IsUsed           bool   `db:"is_used"`
	CreatedAt        string `db:"created_at"`
}

func (r prescriptionRow) toDomain() domain.Prescription {
	var meds []domain.PrescriptionMedicine
	if err := json.Unmarshal([]byte(r.MedicinesJSON), &meds); err != nil {
		logDecodeFail("prescriptions.medicines_json", r.ID, err)
		meds = nil
	}
	if meds == nil {
		meds = []domain.PrescriptionMedicine{}
	}
	return domain.Prescription{
		ID: r.ID, UserID: r.UserEmail, DoctorName: r.DoctorName, HospitalName: r.HospitalName,
		PrescriptionDate: r.PrescriptionDate, Medicines: meds, Notes: r.Notes,
		ImageURL: r.ImageURL, IsUsed: r.IsUsed, CreatedAt: r.CreatedAt,
	}
}

const prescriptionCols = `id, user_email, doctor_name, hospital_name, prescription_date, medicines_json,
    COALESCE(notes,'') AS notes, COALESCE(image_url,'') AS image_url, is_used, COALESCE(created_at,'') AS created_at`

func (r *PrescriptionRepo) Create(p domain.Prescription) error {
	meds, err := json.Marshal(p.Medicines)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  INSERT INTO prescriptions
	    (id, user_email, doctor_name, hospital_name, prescription_date, medicines_json, notes, image_url, is_used, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, p.ID, p.UserID, p.DoctorName, p.HospitalName, p.PrescriptionDate, string(meds), p.Notes, p.ImageURL, p.CreatedAt)
	return err
}

func (r *PrescriptionRepo) Get(id string) (domain.Prescription, error) {
	var row prescriptionRow
	err := r.db.Get(&row, `SELECT `+prescriptionCols+` FROM prescriptions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Prescription{}, ErrNotFound
	}
	if err != nil {
		return domain.Prescription{}, err
	}
	return row.toDomain(), nil
}

// ListByUser returns a user's prescriptions, newest first.
func (r *PrescriptionRepo) ListByUser(email string) ([]domain.Prescription, error) {
	var rows []prescriptionRow
	if err := r.db.Select(&rows, `
	  SELECT `+prescriptionCols+`
	  FROM prescriptions
	  WHERE LOWER(user_email) = LOWER(?)
	  ORDER BY created_at DESC, prescription_date DESC
	`, email); err != nil {
		return nil, err
	}
	out := make([]domain.Prescription, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ErrAlreadyUsed means a prescription was consumed by another order first.
var ErrAlreadyUsed = errors.New("prescription already used")

// MarkUsed flags unused prescriptions as consumed by an order, inside tx.
// It returns ErrAlreadyUsed when any of ids was not flipped.
func (r *PrescriptionRepo) MarkUsed(tx *sqlx.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE prescriptions SET is_used = 1 WHERE is_used = 0 AND id IN (?)`, ids)
	if err != nil {
		return err
	}
	res, err := tx.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrAlreadyUsed
	}
	return nil
}

package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hospot/internal/domain"
)

type HospitalRepo struct{ db *sqlx.DB }

func NewHospitalRepo(db *sqlx.DB) *HospitalRepo { return &HospitalRepo{db: db} }

type hospitalRow struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Location    string  `db:"location"`
	Distance    string  `db:"distance"`
	Phone       string  `db:"phone"`
	Address     string  `db:"address"`
	Rating      float64 `db:"rating"`
	Emergency   bool    `db:"emergency"`
	ICUBeds     int     `db:"icu_beds"`
	GeneralBeds int     `db:"general_beds"`
	SpecialBeds int     `db:"special_beds"`
}

func (r hospitalRow) toDomain() domain.Hospital {
	return domain.Hospital{
		ID: r.ID, Name: r.Name, Location: r.Location, Distance: r.Distance,
		Phone: r.Phone, Address: r.Address, Rating: r.Rating, Emergency: r.Emergency,
		BedTypes:      append([]string(nil), domain.BedTypes...),
		AvailableBeds: domain.BedAvailability{ICU: r.ICUBeds, General: r.GeneralBeds, Special: r.SpecialBeds},
	}
}

const hospitalCols = `id, name, location, distance, phone, address, rating, emergency, icu_beds, general_beds, special_beds`

// List returns hospitals matching q on name, location or address (case-insensitive),
// ordered by total free beds then rating, both descending.
func (r *HospitalRepo) List(q string, limit int) ([]domain.Hospital, error) {
	if limit <= 0 {
		limit = 100
	}
	where := `1=1`
	args := []any{}
	if q != "" {
		p := likeArg(q)
		where = `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\')`
		args = append(args, p, p, p)
	}
	args = append(args, limit)

	var rows []hospitalRow
	if err := r.db.Select(&rows, `
	  SELECT `+hospitalCols+`
	  FROM hospitals
	  WHERE `+where+`
	  ORDER BY (icu_beds + general_beds + special_beds) DESC, rating DESC, name
	  LIMIT ?`, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Hospital, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *HospitalRepo) Get(id string) (domain.Hospital, error) {
	var row hospitalRow
	err := r.db.Get(&row, `SELECT `+hospitalCols+` FROM hospitals WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hospital{}, ErrNotFound
	}
	if err != nil {
		return domain.Hospital{}, err
	}
	return row.toDomain(), nil
}

func bedColumn(bedType string) (string, error) {
	switch bedType {
	case domain.BedICU:
		return "icu_beds", nil
	case domain.BedGeneral:
		return "general_beds", nil
	case domain.BedSpecial:
		return "special_beds", nil
	}
	return "", fmt.Errorf("unknown bed type %q", bedType)
}

// TakeBed atomically decrements one bed of the given type if any is free.
// It reports false when the hospital has none left.
func (r *HospitalRepo) TakeBed(tx *sqlx.Tx, hospitalID, bedType string) (bool, error) {
	col, err := bedColumn(bedType)
	if err != nil {
		return false, err
	}
	res, err := tx.Exec(`
		UPDATE hospitals
		SET `+col+` = `+col+` - 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND `+col+` > 0
	`, hospitalID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// SetBeds overwrites the live bed counts for a hospital.
func (r *HospitalRepo) SetBeds(id string, beds domain.BedAvailability) error {
	res, err := r.db.Exec(`
		UPDATE hospitals
		SET icu_beds = ?, general_beds = ?, special_beds = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, beds.ICU, beds.General, beds.Special, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Begin starts a transaction for multi-statement writes (bookings).
func (r *HospitalRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

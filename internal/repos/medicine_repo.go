package repos

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"hospot/internal/domain"
	applog "hospot/internal/log"
)

type MedicineRepo struct{ db *sqlx.DB }

func NewMedicineRepo(db *sqlx.DB) *MedicineRepo { return &MedicineRepo{db: db} }

type medicineRow struct {
	ID                   string  `db:"id"`
	Name                 string  `db:"name"`
	Category             string  `db:"category"`
	Type                 string  `db:"type"`
	Price                float64 `db:"price"`
	Dosage               string  `db:"dosage"`
	Description          string  `db:"description"`
	PrescriptionRequired bool    `db:"prescription_required"`
	InStock              bool    `db:"in_stock"`
	Manufacturer         string  `db:"manufacturer"`
	IngredientsJSON      string  `db:"active_ingredients_json"`
	SideEffectsJSON      string  `db:"side_effects_json"`
	WarningsJSON         string  `db:"warnings_json"`
}

func (r medicineRow) toDomain() domain.Medicine {
	return domain.Medicine{
		ID: r.ID, Name: r.Name, Category: r.Category, Type: r.Type, Price: r.Price,
		Dosage: r.Dosage, Description: r.Description, PrescriptionRequired: r.PrescriptionRequired,
		InStock: r.InStock, Manufacturer: r.Manufacturer,
		ActiveIngredients: decodeList("medicines.active_ingredients_json", r.ID, r.IngredientsJSON),
		SideEffects:       decodeList("medicines.side_effects_json", r.ID, r.SideEffectsJSON),
		Warnings:          decodeList("medicines.warnings_json", r.ID, r.WarningsJSON),
	}
}

const medicineCols = `id, name, category, type, price, COALESCE(dosage,'') AS dosage,
    COALESCE(description,'') AS description, prescription_required, in_stock,
    COALESCE(manufacturer,'') AS manufacturer, active_ingredients_json, side_effects_json, warnings_json`

// MedicineFilter narrows List; zero values mean "any".
type MedicineFilter struct {
	Search               string
	Category             string
	PrescriptionRequired *bool
}

func (r *MedicineRepo) List(f MedicineFilter, limit int) ([]domain.Medicine, error) {
	if limit <= 0 {
		limit = 100
	}
	where := `1=1`
	args := []any{}
	if f.Search != "" {
		p := likeArg(f.Search)
		where += ` AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description,'')) LIKE ? ESCAPE '\')`
		args = append(args, p, p, p)
	}
	if f.Category != "" {
		where += ` AND LOWER(category) = LOWER(?)`
		args = append(args, f.Category)
	}
	if f.PrescriptionRequired != nil {
		where += ` AND prescription_required = ?`
		args = append(args, *f.PrescriptionRequired)
	}
	args = append(args, limit)

	var rows []medicineRow
	if err := r.db.Select(&rows, `
	  SELECT `+medicineCols+`
	  FROM medicines
	  WHERE `+where+`
	  ORDER BY name
	  LIMIT ?`, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Medicine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MedicineRepo) Get(id string) (domain.Medicine, error) {
	var row medicineRow
	err := r.db.Get(&row, `SELECT `+medicineCols+` FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Medicine{}, ErrNotFound
	}
	if err != nil {
		return domain.Medicine{}, err
	}
	return row.toDomain(), nil
}

func (r *MedicineRepo) Categories() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `SELECT DISTINCT category FROM medicines ORDER BY category`)
	return out, err
}

func encodeList(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeList(column, id, s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		logDecodeFail(column, id, err)
		return []string{}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// logDecodeFail reports a stored JSON column that no longer parses.
func logDecodeFail(column, id string, err error) {
	l := applog.Logger()
	l.Warn().Err(err).Str("action", "repos.decode.fail").Str("column", column).Str("id", id).Send()
}

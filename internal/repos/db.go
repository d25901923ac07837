package repos

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	applog "hospot/internal/log"
)

// ErrNotFound is returned by repos when a keyed row does not exist.
var ErrNotFound = errors.New("not found")

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: keeps :memory: databases shared and serialises sqlite writers.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedHospitals(db); err != nil {
		return nil, err
	}
	if err := seedMedicines(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Hospitals
CREATE TABLE IF NOT EXISTS hospitals(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  location TEXT NOT NULL,
  distance TEXT NOT NULL DEFAULT '2.5 km',
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  rating REAL NOT NULL DEFAULT 4.5,
  emergency INTEGER NOT NULL DEFAULT 1,
  icu_beds INTEGER NOT NULL DEFAULT 0 CHECK (icu_beds >= 0),
  general_beds INTEGER NOT NULL DEFAULT 0 CHECK (general_beds >= 0),
  special_beds INTEGER NOT NULL DEFAULT 0 CHECK (special_beds >= 0),
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_hospitals_name ON hospitals(LOWER(name));

-- Medicines
CREATE TABLE IF NOT EXISTS medicines(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  type TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  dosage TEXT,
  description TEXT,
  prescription_required INTEGER NOT NULL DEFAULT 0,
  in_stock INTEGER NOT NULL DEFAULT 1,
  manufacturer TEXT,
  active_ingredients_json TEXT NOT NULL DEFAULT '[]',
  side_effects_json TEXT NOT NULL DEFAULT '[]',
  warnings_json TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_medicines_category ON medicines(category);
CREATE INDEX IF NOT EXISTS idx_medicines_name     ON medicines(LOWER(name));

-- Prescriptions
CREATE TABLE IF NOT EXISTS prescriptions(
  id TEXT PRIMARY KEY,
  user_email TEXT NOT NULL,
  doctor_name TEXT NOT NULL,
  hospital_name TEXT NOT NULL,
  prescription_date TEXT NOT NULL,
  medicines_json TEXT NOT NULL DEFAULT '[]',
  notes TEXT,
  image_url TEXT,
  is_used INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_prescriptions_user ON prescriptions(LOWER(user_email));

-- Carts (one per user email)
CREATE TABLE IF NOT EXISTS cart_items(
  user_email TEXT NOT NULL,
  medicine_id TEXT NOT NULL REFERENCES medicines(id) ON DELETE CASCADE,
  medicine_name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  prescription_id TEXT NOT NULL DEFAULT '',
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (user_email, medicine_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_email TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  delivery_address TEXT NOT NULL,
  contact_number TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  order_date TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(LOWER(user_email));

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  medicine_id TEXT NOT NULL,
  medicine_name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  prescription_id TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (order_id, medicine_id)
);

-- Bed bookings
CREATE TABLE IF NOT EXISTS bookings(
  id TEXT PRIMARY KEY,
  hospital_id TEXT NOT NULL REFERENCES hospitals(id),
  user_email TEXT NOT NULL,
  patient_name TEXT NOT NULL,
  bed_type TEXT NOT NULL CHECK (bed_type IN ('ICU','General','Special')),
  contact_number TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'confirmed',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(LOWER(user_email));

-- Web session values (sid cookie -> key -> value)
CREATE TABLE IF NOT EXISTS session_values(
  sid TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (sid, key)
);
`
	_, err := db.Exec(schema)
	return err
}

func seedHospitals(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM hospitals`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	applog.Logger().Info().Str("action", "seed.hospitals").Msg("inserting demo hospitals")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO hospitals(id,name,location,phone,address,icu_beds,general_beds,special_beds,rating,distance,emergency) VALUES
	  ('h-city-general','City General Hospital','Downtown','+1-555-0101','123 Main Street, Downtown',5,25,8,4.7,'1.2 km',1),
	  ('h-metro-medical','Metro Medical Center','Midtown','+1-555-0102','456 Health Ave, Midtown',12,45,15,4.8,'2.1 km',1),
	  ('h-st-marys','St. Mary''s Hospital','Westside','+1-555-0103','789 Care Blvd, Westside',8,30,10,4.6,'3.5 km',1),
	  ('h-riverside','Riverside Emergency Hospital','Eastside','+1-555-0104','321 River Road, Eastside',3,18,5,4.4,'4.2 km',1),
	  ('h-north-hills','North Hills Medical','Northside','+1-555-0105','654 Hill Top Dr, Northside',15,60,20,4.9,'5.8 km',1),
	  ('h-sunset','Sunset Community Hospital','Southside','+1-555-0106','987 Sunset Blvd, Southside',0,12,3,4.3,'6.1 km',0),
	  ('h-central-heart','Central Heart Institute','Medical District','+1-555-0107','147 Medical Plaza, Medical District',20,35,25,4.8,'3.2 km',1)`)
	return tx.Commit()
}

type medSeed struct {
	id, name, category, typ, dosage, desc, maker string
	price                                       float64
	rx, inStock                                 bool
	ingredients, sideEffects, warnings          []string
}

var medicineSeed = []medSeed{
	{"m-paracetamol-500", "Paracetamol 500mg", "Pain Relief", "Tablet", "1-2 tablets every 4-6 hours", "Relieves mild to moderate pain and reduces fever.", "HealthCare Pharma", 5.49, false, true,
		[]string{"Paracetamol"}, []string{"Nausea", "Skin rash"}, []string{"Do not exceed 8 tablets in 24 hours"}},
	{"m-ibuprofen-400", "Ibuprofen 400mg", "Pain Relief", "Tablet", "1 tablet every 8 hours with food", "Anti-inflammatory pain reliever.", "MediCore", 7.99, false, true,
		[]string{"Ibuprofen"}, []string{"Stomach upset", "Heartburn"}, []string{"Avoid with stomach ulcers"}},
	{"m-amoxicillin-500", "Amoxicillin 500mg", "Antibiotics", "Capsule", "1 capsule three times daily", "Broad-spectrum penicillin antibiotic.", "BioGen Labs", 12.75, true, true,
		[]string{"Amoxicillin trihydrate"}, []string{"Diarrhea", "Nausea"}, []string{"Complete the full course", "Penicillin allergy"}},
	{"m-azithromycin-250", "Azithromycin 250mg", "Antibiotics", "Tablet", "As prescribed", "Macrolide antibiotic for respiratory infections.", "BioGen Labs", 18.40, true, true,
		[]string{"Azithromycin"}, []string{"Abdominal pain"}, []string{"Complete the full course"}},
	{"m-amlodipine-5", "Amlodipine 5mg", "Cardiovascular", "Tablet", "1 tablet daily", "Calcium channel blocker for blood pressure.", "CardioWell", 9.20, true, true,
		[]string{"Amlodipine besylate"}, []string{"Ankle swelling", "Flushing"}, []string{"Do not stop abruptly"}},
	{"m-metformin-500", "Metformin 500mg", "Diabetes", "Tablet", "1 tablet twice daily with meals", "First-line treatment for type 2 diabetes.", "GlucoMed", 6.30, true, true,
		[]string{"Metformin hydrochloride"}, []string{"Stomach upset"}, []string{"Monitor kidney function"}},
	{"m-cetirizine-10", "Cetirizine 10mg", "Allergy", "Tablet", "1 tablet daily", "Non-drowsy antihistamine for allergies.", "AllerFree", 4.25, false, true,
		[]string{"Cetirizine hydrochloride"}, []string{"Drowsiness", "Dry mouth"}, []string{"Use caution when driving"}},
	{"m-vitamin-d3", "Vitamin D3 1000 IU", "Vitamins", "Softgel", "1 softgel daily", "Supports bone and immune health.", "NutriLife", 10.50, false, true,
		[]string{"Cholecalciferol"}, []string{}, []string{"Do not exceed recommended dose"}},
	{"m-omeprazole-20", "Omeprazole 20mg", "Gastrointestinal", "Capsule", "1 capsule before breakfast", "Reduces stomach acid.", "GastroCare", 8.60, false, true,
		[]string{"Omeprazole"}, []string{"Headache"}, []string{"Not for long-term use without advice"}},
	{"m-salbutamol-inhaler", "Salbutamol Inhaler", "Respiratory", "Inhaler", "1-2 puffs as needed", "Fast relief for asthma symptoms.", "BreatheEasy", 15.90, true, false,
		[]string{"Salbutamol sulfate"}, []string{"Tremor", "Fast heartbeat"}, []string{"Seek help if needed more than usual"}},
}

func seedMedicines(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM medicines`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	applog.Logger().Info().Str("action", "seed.medicines").Msg("inserting demo medicine catalog")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, m := range medicineSeed {
		if _, err := tx.Exec(`
			INSERT INTO medicines(id,name,category,type,price,dosage,description,prescription_required,in_stock,
			                      manufacturer,active_ingredients_json,side_effects_json,warnings_json)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			m.id, m.name, m.category, m.typ, m.price, m.dosage, m.desc, m.rx, m.inStock, m.maker,
			encodeList(m.ingredients), encodeList(m.sideEffects), encodeList(m.warnings)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// likeArg builds a case-insensitive LIKE pattern with wildcards escaped.
func likeArg(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(q)) + "%"
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hospot/internal/domain"
	"hospot/internal/repos"
	"hospot/internal/validate"
)

const dateLayout = "2006-01-02"

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type PrescriptionService struct {
	Prescriptions *repos.PrescriptionRepo
	Now           func() time.Time
}

func NewPrescriptionService(p *repos.PrescriptionRepo) *PrescriptionService {
	return &PrescriptionService{Prescriptions: p, Now: time.Now}
}

func (s *PrescriptionService) Create(in domain.NewPrescription) (domain.Prescription, error) {
	p, err := s.check(in)
	if err != nil {
		return domain.Prescription{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.Now().UTC().Format(timestampLayout)
	if err := s.Prescriptions.Create(p); err != nil {
		return domain.Prescription{}, err
	}
	return p, nil
}

func (s *PrescriptionService) check(in domain.NewPrescription) (domain.Prescription, error) {
	if err := validate.Email(in.UserID); err != nil {
		return domain.Prescription{}, invalidf("%s", err.Error())
	}
	doctor, ok := validate.Text(in.DoctorName, 100)
	if !ok {
		return domain.Prescription{}, invalidf("Doctor name is required")
	}
	hospital, ok := validate.Text(in.HospitalName, 120)
	if !ok {
		return domain.Prescription{}, invalidf("Hospital name is required")
	}
	day, err := time.Parse(dateLayout, strings.TrimSpace(in.PrescriptionDate))
	if err != nil {
		return domain.Prescription{}, invalidf("Prescription date must be YYYY-MM-DD")
	}
	if day.After(s.Now().UTC()) {
		return domain.Prescription{}, invalidf("Prescription date cannot be in the future")
	}
	if len(in.Medicines) == 0 {
		return domain.Prescription{}, invalidf("At least one medicine is required")
	}
	meds := make([]domain.PrescriptionMedicine, 0, len(in.Medicines))
	for i, m := range in.Medicines {
		name, ok1 := validate.Text(m.MedicineName, 100)
		dosage, ok2 := validate.Text(m.Dosage, 100)
		duration, ok3 := validate.Text(m.Duration, 100)
		if !ok1 || !ok2 || !ok3 {
			return domain.Prescription{}, invalidf("Medicine %d needs a name, dosage and duration", i+1)
		}
		meds = append(meds, domain.PrescriptionMedicine{
			MedicineID: strings.TrimSpace(m.MedicineID), MedicineName: name, Dosage: dosage, Duration: duration,
		})
	}
	return domain.Prescription{
		UserID:           strings.TrimSpace(in.UserID),
		DoctorName:       doctor,
		HospitalName:     hospital,
		PrescriptionDate: day.Format(dateLayout),
		Medicines:        meds,
		Notes:            strings.TrimSpace(in.Notes),
		ImageURL:         strings.TrimSpace(in.ImageURL),
	}, nil
}

func (s *PrescriptionService) ListByUser(email string) ([]domain.Prescription, error) {
	return s.Prescriptions.ListByUser(email)
}

// Usable returns the prescription when it belongs to email and has not been used.
func (s *PrescriptionService) Usable(id, email string) (domain.Prescription, error) {
	return usablePrescription(s.Prescriptions, id, email)
}

func usablePrescription(r *repos.PrescriptionRepo, id, email string) (domain.Prescription, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Prescription{}, &Error{Kind: ErrPrescriptionRequired, Detail: "A valid prescription is required for this medicine"}
	}
	p, err := r.Get(id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return domain.Prescription{}, &Error{Kind: ErrPrescriptionRequired, Detail: "Prescription not found"}
		}
		return domain.Prescription{}, err
	}
	if !strings.EqualFold(p.UserID, email) {
		return domain.Prescription{}, &Error{Kind: ErrPrescriptionRequired, Detail: "Prescription not found"}
	}
	if p.IsUsed {
		return domain.Prescription{}, &Error{Kind: ErrPrescriptionRequired, Detail: "Prescription has already been used"}
	}
	return p, nil
}

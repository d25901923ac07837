package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"hospot/internal/domain"
	"hospot/internal/repos"
	"hospot/internal/validate"
)

type BookingService struct {
	Hospitals *repos.HospitalRepo
	Bookings  *repos.BookingRepo
	Now       func() time.Time
}

func NewBookingService(h *repos.HospitalRepo, b *repos.BookingRepo) *BookingService {
	return &BookingService{Hospitals: h, Bookings: b, Now: time.Now}
}

// Book reserves one bed and decrements the hospital's live count in the same transaction.
func (s *BookingService) Book(in domain.BookBed) (domain.Booking, error) {
	email := strings.TrimSpace(in.UserID)
	if err := validate.Email(email); err != nil {
		return domain.Booking{}, invalidf("%s", err.Error())
	}
	if err := validate.Name(in.PatientName); err != nil {
		return domain.Booking{}, invalidf("%s", err.Error())
	}
	bedType, ok := validate.BedType(in.BedType)
	if !ok {
		return domain.Booking{}, invalidf("Bed type must be one of ICU, General, Special")
	}
	phone, ok := validate.Phone(in.ContactNumber)
	if !ok {
		return domain.Booking{}, invalidf("Please enter a valid contact number")
	}
	h, err := s.Hospitals.Get(strings.TrimSpace(in.HospitalID))
	if err != nil {
		return domain.Booking{}, mapRepo(err, "Hospital")
	}

	b := domain.Booking{
		ID:            uuid.NewString(),
		HospitalID:    h.ID,
		HospitalName:  h.Name,
		UserID:        email,
		PatientName:   strings.TrimSpace(in.PatientName),
		BedType:       bedType,
		ContactNumber: phone,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        "confirmed",
		CreatedAt:     s.Now().UTC().Format(timestampLayout),
	}

	tx, err := s.Hospitals.Begin()
	if err != nil {
		return domain.Booking{}, err
	}
	defer func() { _ = tx.Rollback() }()
	took, err := s.Hospitals.TakeBed(tx, h.ID, bedType)
	if err != nil {
		return domain.Booking{}, err
	}
	if !took {
		return domain.Booking{}, conflictf("No %s beds available at %s", bedType, h.Name)
	}
	if err := s.Bookings.Create(tx, b); err != nil {
		return domain.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (s *BookingService) ListByUser(email string) ([]domain.Booking, error) {
	return s.Bookings.ListByUser(email)
}

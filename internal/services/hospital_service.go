package services

import (
	"hospot/internal/domain"
	"hospot/internal/repos"
)

const maxHospitals = 100

type HospitalService struct {
	Hospitals *repos.HospitalRepo
}

func NewHospitalService(h *repos.HospitalRepo) *HospitalService {
	return &HospitalService{Hospitals: h}
}

// List returns hospitals matching q on name, location or address, most beds first.
func (s *HospitalService) List(q string) ([]domain.Hospital, error) {
	return s.Hospitals.List(q, maxHospitals)
}

func (s *HospitalService) Get(id string) (domain.Hospital, error) {
	h, err := s.Hospitals.Get(id)
	if err != nil {
		return domain.Hospital{}, mapRepo(err, "Hospital")
	}
	return h, nil
}

func (s *HospitalService) SetBeds(id string, beds domain.BedAvailability) (domain.Hospital, error) {
	if beds.ICU < 0 || beds.General < 0 || beds.Special < 0 {
		return domain.Hospital{}, invalidf("bed counts must not be negative")
	}
	if err := s.Hospitals.SetBeds(id, beds); err != nil {
		return domain.Hospital{}, mapRepo(err, "Hospital")
	}
	return s.Get(id)
}

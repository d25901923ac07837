package services

import (
	"hospot/internal/domain"
	"hospot/internal/repos"
)

const maxMedicines = 200

type MedicineService struct {
	Medicines *repos.MedicineRepo
}

func NewMedicineService(m *repos.MedicineRepo) *MedicineService {
	return &MedicineService{Medicines: m}
}

func (s *MedicineService) List(f repos.MedicineFilter) ([]domain.Medicine, error) {
	return s.Medicines.List(f, maxMedicines)
}

func (s *MedicineService) Categories() ([]string, error) {
	return s.Medicines.Categories()
}

func (s *MedicineService) Get(id string) (domain.Medicine, error) {
	m, err := s.Medicines.Get(id)
	if err != nil {
		return domain.Medicine{}, mapRepo(err, "Medicine")
	}
	return m, nil
}

package service

import (
	"fmt"
	"strings"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/models"
	"hvac-pq-report/internal/repository"

	"go.uber.org/zap"
)

type HospitalService struct {
	hospitalRepo *repository.HospitalRepository
	auditRepo    *repository.AuditRepository
	log          *zap.Logger
}

func NewHospitalService(
	hospitalRepo *repository.HospitalRepository,
	auditRepo *repository.AuditRepository,
	log *zap.Logger,
) *HospitalService {
	return &HospitalService{
		hospitalRepo: hospitalRepo,
		auditRepo:    auditRepo,
		log:          log,
	}
}

// HospitalContact is what a report needs to know about a hospital
type HospitalContact struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// GetAllHospitals lists active hospitals, filtered by search when it is not empty
func (s *HospitalService) GetAllHospitals(search string) ([]models.Hospital, error) {
	if search = strings.TrimSpace(search); search != "" {
		return s.hospitalRepo.SearchHospitals(search)
	}
	return s.hospitalRepo.GetAllHospitals()
}

// GetHospitalByID retrieves an active hospital
func (s *HospitalService) GetHospitalByID(id uint) (*models.Hospital, error) {
	return s.hospitalRepo.GetHospitalByID(id)
}

// Resolve returns the contact details of an active hospital
func (s *HospitalService) Resolve(id uint) (HospitalContact, error) {
	h, err := s.hospitalRepo.GetHospitalByID(id)
	if err != nil {
		return HospitalContact{}, err
	}
	return HospitalContact{ID: h.ID, Name: h.Name, Address: h.Address, Phone: h.Phone, Email: h.Email}, nil
}

// CreateHospital creates a new hospital (admin only)
func (s *HospitalService) CreateHospital(hospital *models.Hospital, userID uint) error {
	if err := checkHospital(hospital); err != nil {
		return err
	}
	hospital.IsActive = true
	if err := s.hospitalRepo.CreateHospital(hospital); err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}

	details := fmt.Sprintf("Created hospital: %s (code: %s)", hospital.Name, hospital.Code)
	_ = s.auditRepo.LogEntityAction(&userID, "hospital_create", models.AuditEntityHospital, hospital.ID, details)
	s.log.Info("hospital created", zap.Uint("hospital_id", hospital.ID), zap.String("code", hospital.Code))
	return nil
}

// UpdateHospital updates an existing hospital (admin only)
func (s *HospitalService) UpdateHospital(hospital *models.Hospital, userID uint) error {
	existing, err := s.hospitalRepo.GetHospitalByID(hospital.ID)
	if err != nil {
		return err
	}
	if err := checkHospital(hospital); err != nil {
		return err
	}
	hospital.CreatedAt = existing.CreatedAt
	hospital.IsActive = true

	if err := s.hospitalRepo.UpdateHospital(hospital); err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}

	details := fmt.Sprintf("Updated hospital: %s (ID: %d, old code: %s)", hospital.Name, hospital.ID, existing.Code)
	_ = s.auditRepo.LogEntityAction(&userID, "hospital_update", models.AuditEntityHospital, hospital.ID, details)
	return nil
}

// DeleteHospital soft deletes a hospital (admin only)
func (s *HospitalService) DeleteHospital(id uint, userID uint) error {
	hospital, err := s.hospitalRepo.GetHospitalByID(id)
	if err != nil {
		return err
	}
	if err := s.hospitalRepo.SoftDeleteHospital(id); err != nil {
		return fmt.Errorf("failed to delete hospital: %w", err)
	}

	details := fmt.Sprintf("Deleted hospital: %s (code: %s, ID: %d)", hospital.Name, hospital.Code, id)
	_ = s.auditRepo.LogEntityAction(&userID, "hospital_delete", models.AuditEntityHospital, id, details)
	s.log.Info("hospital deleted", zap.Uint("hospital_id", id))
	return nil
}

func checkHospital(h *models.Hospital) error {
	h.Code = strings.TrimSpace(h.Code)
	h.Name = strings.TrimSpace(h.Name)
	h.Email = strings.ToLower(strings.TrimSpace(h.Email))
	var missing []string
	if h.Code == "" {
		missing = append(missing, "code")
	}
	if h.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return &hvac.ValidationError{Fields: missing}
	}
	return nil
}

package repository

import (
	"errors"
	"fmt"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/models"

	"gorm.io/gorm"
)

// ErrHospitalNotFound is returned for unknown or deactivated hospitals
var ErrHospitalNotFound = fmt.Errorf("hospital %w", hvac.ErrNotFound)

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepo(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

// GetAllHospitals retrieves all active hospitals
func (r *HospitalRepository) GetAllHospitals() ([]models.Hospital, error) {
	var hospitals []models.Hospital
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&hospitals).Error
	return hospitals, err
}

// SearchHospitals matches active hospitals by name, code or city
func (r *HospitalRepository) SearchHospitals(term string) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	like := "%" + term + "%"
	err := r.db.Where("is_active = ?", true).
		Where("name LIKE ? OR code LIKE ? OR city LIKE ?", like, like, like).
		Order("name ASC").
		Find(&hospitals).Error
	return hospitals, err
}

// GetHospitalByID retrieves a hospital by ID
func (r *HospitalRepository) GetHospitalByID(id uint) (*models.Hospital, error) {
	return r.first("id = ? AND is_active = ?", id, true)
}

// GetHospitalByCode retrieves a hospital by its unique code
func (r *HospitalRepository) GetHospitalByCode(code string) (*models.Hospital, error) {
	return r.first("code = ? AND is_active = ?", code, true)
}

// GetHospitalByEmail retrieves the hospital a hospital-role user belongs to
func (r *HospitalRepository) GetHospitalByEmail(email string) (*models.Hospital, error) {
	return r.first("email = ? AND is_active = ?", email, true)
}

func (r *HospitalRepository) first(query string, args ...interface{}) (*models.Hospital, error) {
	var hospital models.Hospital
	err := r.db.Where(query, args...).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, err
	}
	return &hospital, nil
}

// CreateHospital creates a new hospital
func (r *HospitalRepository) CreateHospital(hospital *models.Hospital) error {
	return r.db.Create(hospital).Error
}

// UpdateHospital updates an existing hospital
func (r *HospitalRepository) UpdateHospital(hospital *models.Hospital) error {
	return r.db.Save(hospital).Error
}

// SoftDeleteHospital soft deletes a hospital by setting is_active to false
func (r *HospitalRepository) SoftDeleteHospital(id uint) error {
	res := r.db.Model(&models.Hospital{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrHospitalNotFound
	}
	return nil
}

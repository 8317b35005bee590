package repository

import (
	"hvac-pq-report/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog records an action that is not tied to a stored record,
// such as a login
func (r *AuditRepository) CreateAuditLog(userID *uint, action string, details string) error {
	return r.db.Create(&models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}).Error
}

// LogEntityAction records an action on a hospital or report
func (r *AuditRepository) LogEntityAction(userID *uint, action, entity string, entityID uint, details string) error {
	return r.db.Create(&models.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Details:  details,
	}).Error
}

// ListForEntity returns an entity's history, oldest first
func (r *AuditRepository) ListForEntity(entity string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	return logs, err
}

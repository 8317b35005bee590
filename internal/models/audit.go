package models

import "time"

// Audit entity kinds
const (
	AuditEntityHospital = "hospital"
	AuditEntityReport   = "hvac_report"
)

// AuditLog is one security or report lifecycle event. Entity and EntityID
// point at the record the action touched, when there is one.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	Entity    string    `gorm:"size:50;index:idx_audit_entity" json:"entity,omitempty"`
	EntityID  *uint     `gorm:"index:idx_audit_entity" json:"entity_id,omitempty"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

package models

import "time"

// HVACReport is a saved qualification report. General info is stored in
// columns; logo and stamp keep their data URL form.
type HVACReport struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ReportNo         string    `gorm:"size:100;not null;index" json:"report_no"`
	HospitalID       *uint     `gorm:"index" json:"hospital_id"`
	HospitalName     string    `gorm:"size:255;not null" json:"hospital_name"`
	MeasurementDate  string    `gorm:"size:10" json:"measurement_date"`
	TesterName       string    `gorm:"size:100" json:"tester_name"`
	PreparedBy       string    `gorm:"size:100" json:"prepared_by"`
	ApprovedBy       string    `gorm:"size:100" json:"approved_by"`
	OrganizationName string    `gorm:"size:255" json:"organization_name"`
	OrganizationID   uint      `gorm:"index" json:"organization_id"`
	Logo             string    `gorm:"type:mediumtext" json:"-"`
	Stamp            string    `gorm:"type:mediumtext" json:"-"`
	CreatedBy        uint      `gorm:"index" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Rooms    []Room    `gorm:"foreignKey:ReportID" json:"rooms,omitempty"`
	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

// TableName specifies the table name for HVACReport model
func (HVACReport) TableName() string {
	return "hvac_reports"
}

// HVACReportSummary is the list view of a saved report
type HVACReportSummary struct {
	ID              uint      `json:"id"`
	ReportNo        string    `json:"report_no"`
	HospitalID      *uint     `json:"hospital_id"`
	HospitalName    string    `json:"hospital_name"`
	MeasurementDate string    `json:"measurement_date"`
	RoomCount       int       `json:"room_count"`
	CreatedBy       uint      `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

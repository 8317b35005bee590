package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrReportNotFound is returned when a saved report does not exist
var ErrReportNotFound = fmt.Errorf("report %w", hvac.ErrNotFound)

// ReportMeta carries the ownership columns of a saved report
type ReportMeta struct {
	HospitalID     *uint
	CreatedBy      uint
	OrganizationID uint
}

// ReportScope selects which saved reports a caller may list
type ReportScope struct {
	UserID         uint
	Role           string
	OrganizationID uint
	Email          string
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save stores the report and all of its rooms in one transaction
func (r *ReportRepository) Save(ctx context.Context, data *hvac.ReportData, meta ReportMeta) (uint, error) {
	report, err := toRecord(data, meta)
	if err != nil {
		return 0, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(report).Error
	})
	if err != nil {
		return 0, fmt.Errorf("save report: %w", err)
	}
	return report.ID, nil
}

// Load rebuilds the report data of a saved report
func (r *ReportRepository) Load(ctx context.Context, id uint) (*hvac.ReportData, *models.HVACReport, error) {
	var report models.HVACReport
	err := r.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrReportNotFound
		}
		return nil, nil, err
	}
	data, err := fromRecord(&report)
	if err != nil {
		return nil, nil, err
	}
	return data, &report, nil
}

// Get retrieves the report row without its rooms
func (r *ReportRepository) Get(ctx context.Context, id uint) (*models.HVACReport, error) {
	var report models.HVACReport
	err := r.db.WithContext(ctx).First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// List returns report summaries visible to scope, newest first.
// Technicians see their own reports, admins their organisation's and
// hospital users the reports of the hospital sharing their email.
func (r *ReportRepository) List(ctx context.Context, scope ReportScope) ([]models.HVACReportSummary, error) {
	q := r.db.WithContext(ctx).Model(&models.HVACReport{}).
		Select(`hvac_reports.id, hvac_reports.report_no, hvac_reports.hospital_id, hvac_reports.hospital_name,
			hvac_reports.measurement_date, hvac_reports.created_by, hvac_reports.created_at,
			(SELECT COUNT(*) FROM hvac_rooms WHERE hvac_rooms.report_id = hvac_reports.id) AS room_count`)

	switch scope.Role {
	case models.RoleAdmin:
		q = q.Where("hvac_reports.organization_id = ?", scope.OrganizationID)
	case models.RoleHospital:
		if scope.Email == "" {
			return []models.HVACReportSummary{}, nil
		}
		q = q.Joins("INNER JOIN hospitals ON hospitals.id = hvac_reports.hospital_id").
			Where("hospitals.email = ? AND hospitals.is_active = ?", scope.Email, true)
	default:
		q = q.Where("hvac_reports.created_by = ?", scope.UserID)
	}

	summaries := []models.HVACReportSummary{}
	err := q.Order("hvac_reports.created_at DESC, hvac_reports.id DESC").Scan(&summaries).Error
	return summaries, err
}

// Delete removes the rooms first, then the report
func (r *ReportRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&models.Room{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.HVACReport{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrReportNotFound
		}
		return nil
	})
}

func toRecord(data *hvac.ReportData, meta ReportMeta) (*models.HVACReport, error) {
	g := data.GeneralInfo
	report := &models.HVACReport{
		ReportNo:         g.ReportNo,
		HospitalID:       meta.HospitalID,
		HospitalName:     g.HospitalName,
		MeasurementDate:  g.MeasurementDate,
		TesterName:       g.TesterName,
		PreparedBy:       g.PreparedBy,
		ApprovedBy:       g.ApprovedBy,
		OrganizationName: g.OrganizationName,
		OrganizationID:   meta.OrganizationID,
		Logo:             g.Logo,
		Stamp:            g.Stamp,
		CreatedBy:        meta.CreatedBy,
	}
	for i, room := range data.Rooms {
		rec := models.Room{
			Position:    i,
			RoomKey:     room.ID,
			RoomNo:      room.RoomNo,
			RoomName:    room.RoomName,
			SurfaceArea: room.SurfaceArea,
			Height:      room.Height,
			Volume:      room.Volume,
			TestMode:    string(room.TestMode),
			FlowType:    string(room.FlowType),
			RoomClass:   room.RoomClass,
		}
		if td := data.TestData[room.ID]; td != nil {
			b, err := json.Marshal(td)
			if err != nil {
				return nil, fmt.Errorf("encode test data of room %s: %w", room.ID, err)
			}
			rec.TestData = datatypes.JSON(b)
		}
		report.Rooms = append(report.Rooms, rec)
	}
	return report, nil
}

func fromRecord(report *models.HVACReport) (*hvac.ReportData, error) {
	data := hvac.NewReportData()
	data.GeneralInfo = hvac.GeneralInfo{
		HospitalName:     report.HospitalName,
		ReportNo:         report.ReportNo,
		MeasurementDate:  report.MeasurementDate,
		TesterName:       report.TesterName,
		PreparedBy:       report.PreparedBy,
		ApprovedBy:       report.ApprovedBy,
		OrganizationName: report.OrganizationName,
		Logo:             report.Logo,
		Stamp:            report.Stamp,
	}
	for _, rec := range report.Rooms {
		data.Rooms = append(data.Rooms, hvac.Room{
			ID:          rec.RoomKey,
			RoomNo:      rec.RoomNo,
			RoomName:    rec.RoomName,
			SurfaceArea: rec.SurfaceArea,
			Height:      rec.Height,
			Volume:      rec.Volume,
			TestMode:    hvac.TestMode(rec.TestMode),
			FlowType:    hvac.FlowType(rec.FlowType),
			RoomClass:   rec.RoomClass,
		})
		if len(rec.TestData) == 0 || string(rec.TestData) == "null" {
			continue
		}
		var td hvac.RoomTestData
		if err := json.Unmarshal(rec.TestData, &td); err != nil {
			return nil, fmt.Errorf("decode test data of room %s: %w", rec.RoomKey, err)
		}
		data.TestData[rec.RoomKey] = &td
	}
	return data, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/models"
	"hvac-pq-report/internal/report"
	"hvac-pq-report/internal/repository"

	"go.uber.org/zap"
)

// ErrForbidden is returned when the caller may not see a saved report
var ErrForbidden = errors.New("access denied")

// ReportService stores finished wizard sessions and serves them back
type ReportService struct {
	reportRepo   *repository.ReportRepository
	userRepo     *repository.UserRepository
	hospitalRepo *repository.HospitalRepository
	auditRepo    *repository.AuditRepository
	wizard       *WizardService
	exporter     *report.Exporter
	log          *zap.Logger
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	userRepo *repository.UserRepository,
	hospitalRepo *repository.HospitalRepository,
	auditRepo *repository.AuditRepository,
	wizard *WizardService,
	exporter *report.Exporter,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		userRepo:     userRepo,
		hospitalRepo: hospitalRepo,
		auditRepo:    auditRepo,
		wizard:       wizard,
		exporter:     exporter,
		log:          log,
	}
}

// SavedReport is a loaded report with its ownership columns and audit trail
type SavedReport struct {
	ID         uint              `json:"id"`
	HospitalID *uint             `json:"hospitalId"`
	CreatedBy  uint              `json:"createdBy"`
	Data       *hvac.ReportData  `json:"data"`
	Preview    Preview           `json:"preview"`
	History    []models.AuditLog `json:"history"`
}

// SaveSession persists a wizard session at the download step. The session
// must have a hospital and pass the general, rooms and tests checks. A saved
// session leaves the wizard store, so each session is stored at most once.
func (s *ReportService) SaveSession(ctx context.Context, id Identity, sessionID string) (uint, error) {
	sess, err := s.wizard.Take(id, sessionID, func(sess *hvac.Session) error {
		if sess.HospitalID == 0 {
			return &hvac.ValidationError{Step: hvac.StepGeneral, Fields: []string{"hospitalId"}}
		}
		for _, step := range []hvac.Step{hvac.StepGeneral, hvac.StepRooms, hvac.StepTests} {
			if err := hvac.CheckStep(sess.Data, step); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	hospitalID := sess.HospitalID
	reportID, err := s.reportRepo.Save(ctx, sess.Data, repository.ReportMeta{
		HospitalID:     &hospitalID,
		CreatedBy:      id.UserID,
		OrganizationID: id.OrganizationID,
	})
	if err != nil {
		s.wizard.Restore(id, sess)
		return 0, err
	}

	details := fmt.Sprintf("Saved HVAC report %s (ID: %d, rooms: %d)", sess.Data.GeneralInfo.ReportNo, reportID, len(sess.Data.Rooms))
	_ = s.auditRepo.LogEntityAction(&id.UserID, "hvac_report_save", models.AuditEntityReport, reportID, details)
	s.log.Info("hvac report saved",
		zap.Uint("report_id", reportID),
		zap.String("session_id", sessionID),
		zap.Int("rooms", len(sess.Data.Rooms)),
	)
	return reportID, nil
}

// List returns the summaries the caller may see
func (s *ReportService) List(ctx context.Context, id Identity) ([]models.HVACReportSummary, error) {
	scope := repository.ReportScope{UserID: id.UserID, Role: id.Role, OrganizationID: id.OrganizationID}
	if id.Role == models.RoleHospital {
		user, err := s.userRepo.FindUserByID(id.UserID)
		if err != nil {
			return nil, err
		}
		scope.Email = user.Email
	}
	return s.reportRepo.List(ctx, scope)
}

// Get loads a saved report the caller may see
func (s *ReportService) Get(ctx context.Context, id Identity, reportID uint) (*SavedReport, error) {
	data, rec, err := s.reportRepo.Load(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, rec); err != nil {
		return nil, err
	}
	history, err := s.auditRepo.ListForEntity(models.AuditEntityReport, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load report history: %w", err)
	}
	return &SavedReport{
		ID:         rec.ID,
		HospitalID: rec.HospitalID,
		CreatedBy:  rec.CreatedBy,
		Data:       data,
		Preview:    BuildPreview(data),
		History:    history,
	}, nil
}

// Delete removes a saved report and its rooms
func (s *ReportService) Delete(ctx context.Context, id Identity, reportID uint) error {
	rec, err := s.reportRepo.Get(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, rec); err != nil {
		return err
	}
	if id.Role == models.RoleHospital {
		return ErrForbidden
	}
	if err := s.reportRepo.Delete(ctx, reportID); err != nil {
		return err
	}

	details := fmt.Sprintf("Deleted HVAC report %s (ID: %d)", rec.ReportNo, reportID)
	_ = s.auditRepo.LogEntityAction(&id.UserID, "hvac_report_delete", models.AuditEntityReport, reportID, details)
	s.log.Info("hvac report deleted", zap.Uint("report_id", reportID))
	return nil
}

// Export renders a saved report again
func (s *ReportService) Export(ctx context.Context, id Identity, reportID uint, f report.Format) (report.Artifact, error) {
	saved, err := s.Get(ctx, id, reportID)
	if err != nil {
		return report.Artifact{}, err
	}
	art, err := s.exporter.Start(ctx, saved.Data, f).Wait(ctx)
	if err != nil {
		s.log.Warn("saved report export failed", zap.Uint("report_id", reportID), zap.Error(err))
		return report.Artifact{}, err
	}
	return art, nil
}

// authorize applies the list visibility rules to a single report
func (s *ReportService) authorize(id Identity, rec *models.HVACReport) error {
	switch id.Role {
	case models.RoleAdmin:
		if rec.OrganizationID == id.OrganizationID {
			return nil
		}
	case models.RoleHospital:
		user, err := s.userRepo.FindUserByID(id.UserID)
		if err != nil || user.Email == "" {
			return ErrForbidden
		}
		h, err := s.hospitalRepo.GetHospitalByEmail(user.Email)
		if err == nil && rec.HospitalID != nil && *rec.HospitalID == h.ID {
			return nil
		}
	default:
		if rec.CreatedBy == id.UserID {
			return nil
		}
	}
	return ErrForbidden
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hvac-pq-report/internal/database"
	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/models"
)

const testLogo = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func sampleReport(t *testing.T) *hvac.ReportData {
	t.Helper()

	data := hvac.NewReportData()
	data.GeneralInfo = hvac.GeneralInfo{
		HospitalName:     "Ankara Şehir Hastanesi",
		ReportNo:         "HVAC/2024-017",
		MeasurementDate:  "2024-05-02",
		TesterName:       "Ali Yılmaz",
		PreparedBy:       "Ayşe Demir",
		ApprovedBy:       "Mehmet Kaya",
		OrganizationName: "Kalibrasyon Ltd.",
		Logo:             testLogo,
	}
	for i := 1; i <= 3; i++ {
		r := data.AddRoom()
		if _, err := data.UpdateRoom(r.ID, hvac.RoomUpdate{
			RoomNo:      ptr(fmt.Sprintf("Z-%d", 100+i)),
			RoomName:    ptr(fmt.Sprintf("Ameliyathane %d", i)),
			SurfaceArea: ptr(12.5 * float64(i)),
			Height:      ptr(3.0),
		}); err != nil {
			t.Fatalf("UpdateRoom() error = %v", err)
		}
		// the last room keeps no test data
		if i == 3 {
			continue
		}
		edits := []hvac.Edit{
			hvac.SetVelocity{Value: 0.45},
			hvac.SetFilterSizeX{Value: 610},
			hvac.SetFilterSizeY{Value: 610},
			hvac.SetTotalDebit{Value: 1000},
			hvac.SetPressure{Value: 8.5},
			hvac.SetLeakage{Value: 0.004},
			hvac.SetParticle05{Index: 2, Value: 1200},
			hvac.SetRecoveryDuration{Value: 14},
			hvac.SetTemperature{Value: 21.4},
			hvac.SetHumidity{Value: 47},
		}
		if i == 2 {
			edits = append(edits, hvac.SetNoise{Value: 52})
		}
		for _, e := range edits {
			if err := data.ApplyEdit(r.ID, e); err != nil {
				t.Fatalf("ApplyEdit(%s) error = %v", e.Path(), err)
			}
		}
	}
	return data
}

func TestReportSaveLoadRoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewReportRepo(db)
	ctx := context.Background()
	data := sampleReport(t)

	id, err := repo.Save(ctx, data, ReportMeta{CreatedBy: 7, OrganizationID: 1})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == 0 {
		t.Fatalf("Save() id = 0")
	}

	got, rec, err := repo.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, data) {
		t.Fatalf("Load() = %+v\nwant %+v", got, data)
	}
	if rec.CreatedBy != 7 || len(rec.Rooms) != 3 {
		t.Errorf("record = created_by %d rooms %d", rec.CreatedBy, len(rec.Rooms))
	}
}

func TestReportLoadMissing(t *testing.T) {
	repo := NewReportRepo(setupDB(t))

	_, _, err := repo.Load(context.Background(), 42)
	if !errors.Is(err, hvac.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestReportDeleteRemovesRooms(t *testing.T) {
	db := setupDB(t)
	repo := NewReportRepo(db)
	ctx := context.Background()

	id, err := repo.Save(ctx, sampleReport(t), ReportMeta{CreatedBy: 1})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var rooms int64
	if err := db.Model(&models.Room{}).Where("report_id = ?", id).Count(&rooms).Error; err != nil {
		t.Fatalf("count rooms: %v", err)
	}
	if rooms != 0 {
		t.Errorf("rooms left = %d", rooms)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, hvac.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestReportListScopes(t *testing.T) {
	db := setupDB(t)
	repo := NewReportRepo(db)
	hospitals := NewHospitalRepo(db)
	ctx := context.Background()

	city := &models.Hospital{Code: "ANK-01", Name: "Ankara Şehir", Email: "teknik@ankara.example", IsActive: true}
	other := &models.Hospital{Code: "IST-01", Name: "İstanbul Eğitim", Email: "info@ist.example", IsActive: true}
	for _, h := range []*models.Hospital{city, other} {
		if err := hospitals.CreateHospital(h); err != nil {
			t.Fatalf("CreateHospital() error = %v", err)
		}
	}

	saves := []ReportMeta{
		{HospitalID: &city.ID, CreatedBy: 1, OrganizationID: 10},
		{HospitalID: &other.ID, CreatedBy: 1, OrganizationID: 10},
		{HospitalID: &city.ID, CreatedBy: 2, OrganizationID: 10},
		{HospitalID: &city.ID, CreatedBy: 3, OrganizationID: 20},
	}
	for _, meta := range saves {
		if _, err := repo.Save(ctx, sampleReport(t), meta); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		scope ReportScope
		want  int
	}{
		{"technician sees own", ReportScope{UserID: 1, Role: models.RoleTechnician}, 2},
		{"admin sees organisation", ReportScope{UserID: 9, Role: models.RoleAdmin, OrganizationID: 10}, 3},
		{"hospital sees by email", ReportScope{UserID: 5, Role: models.RoleHospital, Email: "teknik@ankara.example"}, 3},
		{"hospital without email", ReportScope{UserID: 5, Role: models.RoleHospital}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.scope)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("List() len = %d, want %d", len(got), tt.want)
			}
			for _, s := range got {
				if s.RoomCount != 3 {
					t.Errorf("RoomCount = %d, want 3", s.RoomCount)
				}
			}
		})
	}
}

func TestHospitalSoftDelete(t *testing.T) {
	repo := NewHospitalRepo(setupDB(t))

	h := &models.Hospital{Code: "IZM-01", Name: "İzmir Devlet", City: "İzmir", IsActive: true}
	if err := repo.CreateHospital(h); err != nil {
		t.Fatalf("CreateHospital() error = %v", err)
	}
	found, err := repo.SearchHospitals("Devlet")
	if err != nil || len(found) != 1 {
		t.Fatalf("SearchHospitals() = %d, %v", len(found), err)
	}
	if err := repo.SoftDeleteHospital(h.ID); err != nil {
		t.Fatalf("SoftDeleteHospital() error = %v", err)
	}
	if _, err := repo.GetHospitalByID(h.ID); !errors.Is(err, hvac.ErrNotFound) {
		t.Errorf("GetHospitalByID() error = %v, want ErrNotFound", err)
	}
	if err := repo.SoftDeleteHospital(h.ID); !errors.Is(err, ErrHospitalNotFound) {
		t.Errorf("second SoftDeleteHospital() error = %v", err)
	}
}

func TestRefreshTokenRevocation(t *testing.T) {
	repo := NewUserRepo(setupDB(t))

	u := &models.User{Username: "tekniker", PasswordHash: "x", Role: models.RoleTechnician}
	if err := repo.CreateUser(u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := repo.CreateRefreshToken(&models.RefreshToken{UserID: u.ID, TokenHash: "abc"}); err != nil {
		t.Fatalf("CreateRefreshToken() error = %v", err)
	}
	tok, err := repo.FindRefreshTokenByHash("abc")
	if err != nil {
		t.Fatalf("FindRefreshTokenByHash() error = %v", err)
	}
	if tok.User.Username != "tekniker" {
		t.Errorf("preloaded user = %q", tok.User.Username)
	}
	if err := repo.RevokeUserTokens(u.ID); err != nil {
		t.Fatalf("RevokeUserTokens() error = %v", err)
	}
	if _, err := repo.FindRefreshTokenByHash("abc"); err == nil {
		t.Errorf("revoked token still found")
	}
	if _, err := repo.FindUserByID(u.ID + 1); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("FindUserByID() error = %v", err)
	}
}

func TestAuditEntityHistory(t *testing.T) {
	repo := NewAuditRepo(setupDB(t))
	uid := uint(7)

	if err := repo.CreateAuditLog(&uid, "user_login", "login"); err != nil {
		t.Fatalf("CreateAuditLog() error = %v", err)
	}
	for _, action := range []string{"hvac_report_save", "hvac_report_delete"} {
		if err := repo.LogEntityAction(&uid, action, models.AuditEntityReport, 3, action); err != nil {
			t.Fatalf("LogEntityAction(%s) error = %v", action, err)
		}
	}
	if err := repo.LogEntityAction(&uid, "hospital_create", models.AuditEntityHospital, 3, "create"); err != nil {
		t.Fatalf("LogEntityAction(hospital) error = %v", err)
	}

	logs, err := repo.ListForEntity(models.AuditEntityReport, 3)
	if err != nil {
		t.Fatalf("ListForEntity() error = %v", err)
	}
	if len(logs) != 2 || logs[0].Action != "hvac_report_save" || logs[1].Action != "hvac_report_delete" {
		t.Errorf("ListForEntity() = %+v", logs)
	}
	if logs, _ := repo.ListForEntity(models.AuditEntityReport, 4); len(logs) != 0 {
		t.Errorf("ListForEntity(other id) = %+v", logs)
	}
}

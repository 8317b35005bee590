package hvac

import (
	"errors"
	"testing"
)

func fullGeneralInfo() GeneralInfo {
	return GeneralInfo{
		HospitalName:     "Merkez Hastanesi",
		ReportNo:         "HVAC-2024-001",
		MeasurementDate:  "2024-03-14",
		TesterName:       "A. Yilmaz",
		PreparedBy:       "B. Kaya",
		ApprovedBy:       "C. Demir",
		OrganizationName: "Kalibrasyon Ltd.",
	}
}

func TestCheckStepGeneral(t *testing.T) {
	data := NewReportData()
	data.GeneralInfo = fullGeneralInfo()
	if !CanAdvance(data, StepGeneral) {
		t.Fatalf("complete general info cannot advance: %v", CheckStep(data, StepGeneral))
	}

	data.GeneralInfo.ApprovedBy = "  "
	err := CheckStep(data, StepGeneral)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if ve.Step != StepGeneral || len(ve.Fields) != 1 || ve.Fields[0] != "approvedBy" {
		t.Fatalf("ValidationError = %+v", ve)
	}
}

func TestCheckStepRooms(t *testing.T) {
	data := NewReportData()
	if CanAdvance(data, StepRooms) {
		t.Fatalf("advanced with no rooms")
	}

	r := data.AddRoom()
	if CanAdvance(data, StepRooms) {
		t.Fatalf("advanced with an empty room")
	}
	if _, err := data.UpdateRoom(r.ID, RoomUpdate{
		RoomNo: ptr("1"), RoomName: ptr("Lab"), SurfaceArea: ptr(10.0), Height: ptr(0.0),
	}); err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	if CanAdvance(data, StepRooms) {
		t.Fatalf("advanced with zero height")
	}
	if _, err := data.UpdateRoom(r.ID, RoomUpdate{Height: ptr(3.0)}); err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	if !CanAdvance(data, StepRooms) {
		t.Fatalf("complete room cannot advance: %v", CheckStep(data, StepRooms))
	}
}

func TestCheckStepTests(t *testing.T) {
	data, r := setupRoom(t)
	if CanAdvance(data, StepTests) {
		t.Fatalf("advanced without test data")
	}

	mustEdit(t, data, r.ID, SetPressure{Value: 10})
	if !CanAdvance(data, StepTests) {
		t.Fatalf("lazily created record cannot advance: %v", CheckStep(data, StepTests))
	}

	data.TestData[r.ID].Recovery = nil
	err := CheckStep(data, StepTests)
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0] != r.ID+".recovery" {
		t.Fatalf("error = %v", err)
	}
}

func TestCanAdvancePreviewAndDownload(t *testing.T) {
	if !CanAdvance(nil, StepPreview) {
		t.Fatalf("preview must always advance")
	}
	if CanAdvance(nil, StepDownload) {
		t.Fatalf("download is final")
	}
}

func TestSessionWalk(t *testing.T) {
	s := NewSession(false)
	if s.Step != StepGeneral {
		t.Fatalf("initial step = %q", s.Step)
	}
	if err := s.Next(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Next() on empty general: error = %v", err)
	}

	s.Data.GeneralInfo = fullGeneralInfo()
	r := s.Data.AddRoom()
	if _, err := s.Data.UpdateRoom(r.ID, RoomUpdate{
		RoomNo: ptr("1"), RoomName: ptr("Lab"), SurfaceArea: ptr(10.0), Height: ptr(3.0),
	}); err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	if err := s.Data.ApplyEdit(r.ID, SetTemperature{Value: 22}); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}

	for _, want := range []Step{StepRooms, StepTests, StepPreview, StepDownload} {
		if err := s.Next(); err != nil {
			t.Fatalf("Next() towards %s error = %v", want, err)
		}
		if s.Step != want {
			t.Fatalf("step = %q, want %q", s.Step, want)
		}
	}
	if err := s.Next(); !errors.Is(err, ErrFinalStep) {
		t.Fatalf("Next() at download: error = %v", err)
	}

	for _, want := range []Step{StepPreview, StepTests, StepRooms, StepGeneral, StepGeneral} {
		s.Back()
		if s.Step != want {
			t.Fatalf("Back() step = %q, want %q", s.Step, want)
		}
	}
}

func TestSessionRequiresHospital(t *testing.T) {
	s := NewSession(true)
	s.Data.GeneralInfo = fullGeneralInfo()

	err := s.Next()
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0] != "hospitalId" {
		t.Fatalf("Next() without hospital: error = %v", err)
	}

	s.HospitalID = 7
	if err := s.Next(); err != nil {
		t.Fatalf("Next() with hospital: error = %v", err)
	}
}

func TestSessionGuardOnlyAppliesToGeneral(t *testing.T) {
	s := NewSession(true)
	s.Step = StepPreview
	if err := s.Next(); err != nil {
		t.Fatalf("preview guarded by hospital selection: %v", err)
	}
}

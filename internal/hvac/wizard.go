package hvac

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Step is a wizard stage
type Step string

const (
	StepGeneral  Step = "general"
	StepRooms    Step = "rooms"
	StepTests    Step = "tests"
	StepPreview  Step = "preview"
	StepDownload Step = "download"
)

var stepOrder = []Step{StepGeneral, StepRooms, StepTests, StepPreview, StepDownload}

// ErrFinalStep is returned when advancing past download
var ErrFinalStep = errors.New("already at final step")

func (s Step) index() int {
	for i, v := range stepOrder {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool { return s.index() >= 0 }

// CheckStep returns a *ValidationError listing what blocks leaving step, or nil
func CheckStep(data *ReportData, step Step) error {
	if data == nil {
		data = NewReportData()
	}
	var bad []string

	switch step {
	case StepGeneral:
		g := data.GeneralInfo
		required := []struct {
			name, value string
		}{
			{"hospitalName", g.HospitalName},
			{"reportNo", g.ReportNo},
			{"measurementDate", g.MeasurementDate},
			{"testerName", g.TesterName},
			{"preparedBy", g.PreparedBy},
			{"approvedBy", g.ApprovedBy},
			{"organizationName", g.OrganizationName},
		}
		for _, f := range required {
			if strings.TrimSpace(f.value) == "" {
				bad = append(bad, f.name)
			}
		}
	case StepRooms:
		if len(data.Rooms) == 0 {
			bad = append(bad, "rooms")
		}
		for _, r := range data.Rooms {
			if strings.TrimSpace(r.RoomNo) == "" {
				bad = append(bad, r.ID+".roomNo")
			}
			if strings.TrimSpace(r.RoomName) == "" {
				bad = append(bad, r.ID+".roomName")
			}
			if !(r.SurfaceArea > 0) {
				bad = append(bad, r.ID+".surfaceArea")
			}
			if !(r.Height > 0) {
				bad = append(bad, r.ID+".height")
			}
		}
	case StepTests:
		for _, r := range data.Rooms {
			for _, m := range data.TestData[r.ID].MissingMandatory() {
				bad = append(bad, r.ID+"."+m)
			}
		}
	case StepPreview, StepDownload:
	default:
		bad = append(bad, "step")
	}

	if len(bad) > 0 {
		return &ValidationError{Step: step, Fields: bad}
	}
	return nil
}

// CanAdvance reports whether the wizard may move forward from step
func CanAdvance(data *ReportData, step Step) bool {
	return step != StepDownload && CheckStep(data, step) == nil
}

// Session is one wizard run. It is not safe for concurrent use; callers
// serialise access.
type Session struct {
	ID              string      `json:"id"`
	Step            Step        `json:"step"`
	Data            *ReportData `json:"data"`
	RequireHospital bool        `json:"requireHospital"`
	HospitalID      uint        `json:"hospitalId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func NewSession(requireHospital bool) *Session {
	now := time.Now()
	return &Session{
		ID:              uuid.NewString(),
		Step:            StepGeneral,
		Data:            NewReportData(),
		RequireHospital: requireHospital,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Check is CheckStep plus the hospital selection guard on the general step
func (s *Session) Check() error {
	err := CheckStep(s.Data, s.Step)
	if s.Step != StepGeneral || !s.RequireHospital || s.HospitalID != 0 {
		return err
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Fields = append(ve.Fields, "hospitalId")
		return ve
	}
	return &ValidationError{Step: StepGeneral, Fields: []string{"hospitalId"}}
}

// Next advances one step when the current step's guard passes
func (s *Session) Next() error {
	if s.Step == StepDownload {
		return ErrFinalStep
	}
	if err := s.Check(); err != nil {
		return err
	}
	s.Step = stepOrder[s.Step.index()+1]
	s.Touch()
	return nil
}

// Back moves one step back; at general it does nothing
func (s *Session) Back() {
	if i := s.Step.index(); i > 0 {
		s.Step = stepOrder[i-1]
	}
	s.Touch()
}

// Touch marks the session as used
func (s *Session) Touch() { s.UpdatedAt = time.Now() }

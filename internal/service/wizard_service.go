package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/report"

	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for unknown, expired or foreign sessions
	ErrSessionNotFound = fmt.Errorf("session %w", hvac.ErrNotFound)

	// ErrNotAtDownload is returned when an export or save is requested before the download step
	ErrNotAtDownload = errors.New("session is not at the download step")
)

type wizardEntry struct {
	session *hvac.Session
	owner   uint
}

// WizardService keeps the in-progress report sessions in memory. Every
// operation on a session runs under the store mutex.
type WizardService struct {
	mu       sync.Mutex
	sessions map[string]*wizardEntry

	hospitals       *HospitalService
	exporter        *report.Exporter
	requireHospital bool
	idleTimeout     time.Duration
	log             *zap.Logger
}

func NewWizardService(
	hospitals *HospitalService,
	exporter *report.Exporter,
	requireHospital bool,
	idleTimeout time.Duration,
	log *zap.Logger,
) *WizardService {
	return &WizardService{
		sessions:        make(map[string]*wizardEntry),
		hospitals:       hospitals,
		exporter:        exporter,
		requireHospital: requireHospital,
		idleTimeout:     idleTimeout,
		log:             log,
	}
}

// RoomPreview is one room of the preview table
type RoomPreview struct {
	RoomID       string       `json:"roomId"`
	RoomNo       string       `json:"roomNo"`
	RoomName     string       `json:"roomName"`
	Class        string       `json:"class"`
	Overall      string       `json:"overall"`
	SamplePoints int          `json:"samplePoints"`
	Results      []PreviewRow `json:"results"`
}

type PreviewRow struct {
	Test      string `json:"test"`
	Criterion string `json:"criterion"`
	Result    string `json:"result"`
	Verdict   string `json:"verdict"`
}

// Preview summarises what the exports will contain
type Preview struct {
	Rooms []RoomPreview `json:"rooms"`
	Pages int           `json:"pages"`
}

// Create opens a new session owned by the caller
func (s *WizardService) Create(id Identity) *hvac.Session {
	sess := hvac.NewSession(s.requireHospital)

	s.mu.Lock()
	s.sessions[sess.ID] = &wizardEntry{session: sess, owner: id.UserID}
	s.mu.Unlock()

	s.log.Info("wizard session created", zap.String("session_id", sess.ID), zap.Uint("user_id", id.UserID))
	return snapshot(sess)
}

// Get returns a copy of the session
func (s *WizardService) Get(id Identity, sessionID string) (*hvac.Session, error) {
	return s.with(id, sessionID, func(*hvac.Session) error { return nil })
}

// Discard drops the session
func (s *WizardService) Discard(id Identity, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok || e.owner != id.UserID {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// SetGeneralInfo replaces the report header. The hospital name stays the
// directory's when a hospital has been selected.
func (s *WizardService) SetGeneralInfo(id Identity, sessionID string, info hvac.GeneralInfo) (*hvac.Session, error) {
	return s.with(id, sessionID, func(sess *hvac.Session) error {
		if sess.HospitalID != 0 {
			info.HospitalName = sess.Data.GeneralInfo.HospitalName
		}
		sess.Data.GeneralInfo = info
		return nil
	})
}

// SelectHospital binds the session to a directory hospital and copies its name
func (s *WizardService) SelectHospital(id Identity, sessionID string, hospitalID uint) (*hvac.Session, error) {
	contact, err := s.hospitals.Resolve(hospitalID)
	if err != nil {
		return nil, err
	}
	return s.with(id, sessionID, func(sess *hvac.Session) error {
		sess.HospitalID = contact.ID
		sess.Data.GeneralInfo.HospitalName = contact.Name
		return nil
	})
}

// AddRoom appends a room with default values and returns it
func (s *WizardService) AddRoom(id Identity, sessionID string) (hvac.Room, error) {
	var room hvac.Room
	_, err := s.with(id, sessionID, func(sess *hvac.Session) error {
		room = sess.Data.AddRoom()
		return nil
	})
	return room, err
}

func (s *WizardService) UpdateRoom(id Identity, sessionID, roomID string, u hvac.RoomUpdate) (hvac.Room, error) {
	var room hvac.Room
	_, err := s.with(id, sessionID, func(sess *hvac.Session) error {
		var err error
		room, err = sess.Data.UpdateRoom(roomID, u)
		return err
	})
	return room, err
}

func (s *WizardService) RemoveRoom(id Identity, sessionID, roomID string) (*hvac.Session, error) {
	return s.with(id, sessionID, func(sess *hvac.Session) error {
		return sess.Data.RemoveRoom(roomID)
	})
}

// ApplyEdit parses a path/value pair and writes it into the room's test data
func (s *WizardService) ApplyEdit(id Identity, sessionID, roomID, path string, value any) (*hvac.RoomTestData, error) {
	e, err := hvac.ParseEdit(path, value)
	if err != nil {
		return nil, err
	}
	var td *hvac.RoomTestData
	_, err = s.with(id, sessionID, func(sess *hvac.Session) error {
		if err := sess.Data.ApplyEdit(roomID, e); err != nil {
			return err
		}
		td = sess.Data.TestData[roomID].Clone()
		return nil
	})
	return td, err
}

func (s *WizardService) Next(id Identity, sessionID string) (*hvac.Session, error) {
	return s.with(id, sessionID, func(sess *hvac.Session) error {
		return sess.Next()
	})
}

func (s *WizardService) Back(id Identity, sessionID string) (*hvac.Session, error) {
	return s.with(id, sessionID, func(sess *hvac.Session) error {
		sess.Back()
		return nil
	})
}

// Preview builds the per-room verdict table
func (s *WizardService) Preview(id Identity, sessionID string) (Preview, error) {
	sess, err := s.Get(id, sessionID)
	if err != nil {
		return Preview{}, err
	}
	return BuildPreview(sess.Data), nil
}

// Export renders the session's report. Only allowed at the download step,
// where it may be repeated.
func (s *WizardService) Export(ctx context.Context, id Identity, sessionID string, f report.Format) (report.Artifact, error) {
	sess, err := s.Get(id, sessionID)
	if err != nil {
		return report.Artifact{}, err
	}
	if sess.Step != hvac.StepDownload {
		return report.Artifact{}, ErrNotAtDownload
	}

	start := time.Now()
	art, err := s.exporter.Start(ctx, sess.Data, f).Wait(ctx)
	if err != nil {
		s.log.Warn("export failed", zap.String("session_id", sessionID), zap.String("format", string(f)), zap.Error(err))
		return report.Artifact{}, err
	}
	s.log.Info("report exported",
		zap.String("session_id", sessionID),
		zap.String("format", string(f)),
		zap.Int("bytes", len(art.Data)),
		zap.Duration("took", time.Since(start)),
	)
	return art, nil
}

// Take removes a session at the download step from the store and hands it
// to the caller. check runs under the store lock and can keep the session in
// place by returning an error. A taken session cannot be taken again; Restore
// puts it back when the caller fails to persist it.
func (s *WizardService) Take(id Identity, sessionID string, check func(*hvac.Session) error) (*hvac.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok || e.owner != id.UserID {
		return nil, ErrSessionNotFound
	}
	if e.session.Step != hvac.StepDownload {
		return nil, ErrNotAtDownload
	}
	if check != nil {
		if err := check(e.session); err != nil {
			return nil, err
		}
	}
	delete(s.sessions, sessionID)
	return e.session, nil
}

// Restore returns a taken session to the store
func (s *WizardService) Restore(id Identity, sess *hvac.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Touch()
	s.sessions[sess.ID] = &wizardEntry{session: sess, owner: id.UserID}
}

// Evict drops sessions idle for longer than the configured timeout and
// returns how many were removed
func (s *WizardService) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if now.Sub(e.session.UpdatedAt) > s.idleTimeout {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of open sessions
func (s *WizardService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *WizardService) with(id Identity, sessionID string, fn func(*hvac.Session) error) (*hvac.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok || e.owner != id.UserID {
		return nil, ErrSessionNotFound
	}
	if err := fn(e.session); err != nil {
		return nil, err
	}
	e.session.Touch()
	return snapshot(e.session), nil
}

// snapshot copies a session so callers can read it outside the lock
func snapshot(sess *hvac.Session) *hvac.Session {
	out := *sess
	out.Data = sess.Data.Clone()
	return &out
}

// BuildPreview converts the rendered room sections into the preview table
func BuildPreview(data *hvac.ReportData) Preview {
	sections := report.BuildRoomSections(data)
	p := Preview{Rooms: make([]RoomPreview, 0, len(sections)), Pages: len(sections)}
	for _, sec := range sections {
		rp := RoomPreview{
			RoomID:       sec.Room.ID,
			RoomNo:       sec.Room.RoomNo,
			RoomName:     sec.Room.RoomName,
			Class:        sec.Class,
			Overall:      sec.Overall.Label(),
			SamplePoints: sec.SamplePoints,
		}
		for _, r := range sec.Rows {
			rp.Results = append(rp.Results, PreviewRow{
				Test:      r.Test,
				Criterion: r.Criterion,
				Result:    r.Result,
				Verdict:   r.Verdict.Label(),
			})
		}
		p.Rooms = append(p.Rooms, rp)
	}
	return p
}

package hvac

import (
	"fmt"

	"github.com/google/uuid"
)

// ReportData is one report session's state: the header, the ordered room
// list and each room's test record keyed by room id.
type ReportData struct {
	GeneralInfo GeneralInfo              `json:"generalInfo" yaml:"generalInfo"`
	Rooms       []Room                   `json:"rooms" yaml:"rooms"`
	TestData    map[string]*RoomTestData `json:"testData" yaml:"testData"`
}

func NewReportData() *ReportData {
	return &ReportData{
		Rooms:    []Room{},
		TestData: make(map[string]*RoomTestData),
	}
}

// RoomUpdate carries the fields to merge into a room; nil fields are left alone
type RoomUpdate struct {
	RoomNo      *string   `json:"roomNo"`
	RoomName    *string   `json:"roomName"`
	SurfaceArea *float64  `json:"surfaceArea"`
	Height      *float64  `json:"height"`
	TestMode    *TestMode `json:"testMode"`
	FlowType    *FlowType `json:"flowType"`
	RoomClass   *string   `json:"roomClass"`
}

// Room returns the room with the given id and its position in the list
func (d *ReportData) Room(id string) (Room, int, error) {
	for i, r := range d.Rooms {
		if r.ID == id {
			return r, i, nil
		}
	}
	return Room{}, -1, fmt.Errorf("room %q: %w", id, ErrNotFound)
}

// AddRoom appends a room with default values. Its test record is created on the first edit.
func (d *ReportData) AddRoom() Room {
	r := Room{
		ID:        uuid.NewString(),
		TestMode:  AtRest,
		FlowType:  Turbulence,
		RoomClass: string(ISO7),
	}
	d.Rooms = append(d.Rooms, r)
	return r
}

// UpdateRoom merges u into the room, recomputes its volume and, when the room
// already has test data, its air change rate.
func (d *ReportData) UpdateRoom(id string, u RoomUpdate) (Room, error) {
	r, idx, err := d.Room(id)
	if err != nil {
		return Room{}, err
	}

	var bad []string
	if u.SurfaceArea != nil && (!finite(*u.SurfaceArea) || *u.SurfaceArea < 0) {
		bad = append(bad, "surfaceArea")
	}
	if u.Height != nil && (!finite(*u.Height) || *u.Height < 0) {
		bad = append(bad, "height")
	}
	if u.TestMode != nil && !u.TestMode.Valid() {
		bad = append(bad, "testMode")
	}
	if u.FlowType != nil && !u.FlowType.Valid() {
		bad = append(bad, "flowType")
	}
	if len(bad) > 0 {
		return Room{}, &ValidationError{Fields: bad}
	}

	if u.RoomNo != nil {
		r.RoomNo = *u.RoomNo
	}
	if u.RoomName != nil {
		r.RoomName = *u.RoomName
	}
	if u.SurfaceArea != nil {
		r.SurfaceArea = *u.SurfaceArea
	}
	if u.Height != nil {
		r.Height = *u.Height
	}
	if u.TestMode != nil {
		r.TestMode = *u.TestMode
	}
	if u.FlowType != nil {
		r.FlowType = *u.FlowType
	}
	if u.RoomClass != nil {
		r.RoomClass = *u.RoomClass
	}
	r.Volume = Volume(r.SurfaceArea, r.Height)
	if !finite(r.Volume) {
		return Room{}, &ValidationError{Fields: []string{"surfaceArea", "height"}}
	}
	d.Rooms[idx] = r

	if td, ok := d.TestData[id]; ok && td != nil && td.AirFlow != nil {
		recomputeAirChange(td.AirFlow, r.Volume)
	}
	return r, nil
}

// RemoveRoom deletes the room and its test record
func (d *ReportData) RemoveRoom(id string) error {
	_, idx, err := d.Room(id)
	if err != nil {
		return err
	}
	d.Rooms = append(d.Rooms[:idx], d.Rooms[idx+1:]...)
	delete(d.TestData, id)
	return nil
}

// ApplyEdit writes one field into the room's test record, creating the record
// on first use. The edit runs on a copy that replaces the stored record only
// when it succeeds.
func (d *ReportData) ApplyEdit(roomID string, e Edit) error {
	r, _, err := d.Room(roomID)
	if err != nil {
		return err
	}

	work := d.TestData[roomID].Clone()
	if work == nil {
		work = NewRoomTestData(roomID)
	}
	work.fillMandatory(r.Volume)

	if err := apply(work, e, r.Volume); err != nil {
		return err
	}
	if d.TestData == nil {
		d.TestData = make(map[string]*RoomTestData)
	}
	d.TestData[roomID] = work
	return nil
}

// ApplyEdit returns a copy of data with the edit applied; data is not modified
func ApplyEdit(data *ReportData, roomID string, e Edit) (*ReportData, error) {
	out := data.Clone()
	if err := out.ApplyEdit(roomID, e); err != nil {
		return nil, err
	}
	return out, nil
}

// Recompute refreshes every derived field from its inputs. Used after loading
// data that did not pass through ApplyEdit. Non-finite inputs, or dimensions
// whose volume overflows, fail with ErrArithmetic before anything changes.
func (d *ReportData) Recompute() error {
	for _, r := range d.Rooms {
		if !finite(r.SurfaceArea, r.Height) || !finite(Volume(r.SurfaceArea, r.Height)) {
			return fmt.Errorf("room %s: surfaceArea/height: non-finite value: %w", r.ID, ErrArithmetic)
		}
		td := d.TestData[r.ID]
		if td == nil {
			continue
		}
		for _, m := range td.measuredValues() {
			if !finite(m.value) {
				return fmt.Errorf("room %s: %s: non-finite value: %w", r.ID, m.path, ErrArithmetic)
			}
		}
	}

	for i, r := range d.Rooms {
		r.Volume = Volume(r.SurfaceArea, r.Height)
		d.Rooms[i] = r
		td := d.TestData[r.ID]
		if td == nil {
			continue
		}
		td.RoomID = r.ID
		if td.AirFlow != nil {
			recomputeAirFlow(td.AirFlow, r.Volume)
		}
		td.refreshVerdicts()
	}
	return nil
}

// Clone returns a deep copy
func (d *ReportData) Clone() *ReportData {
	if d == nil {
		return NewReportData()
	}
	out := &ReportData{
		GeneralInfo: d.GeneralInfo,
		Rooms:       make([]Room, len(d.Rooms)),
		TestData:    make(map[string]*RoomTestData, len(d.TestData)),
	}
	copy(out.Rooms, d.Rooms)
	for k, v := range d.TestData {
		out.TestData[k] = v.Clone()
	}
	return out
}

func (td *RoomTestData) fillMandatory(volume float64) {
	def := NewRoomTestData(td.RoomID)
	if td.AirFlow == nil {
		td.AirFlow = def.AirFlow
		recomputeAirChange(td.AirFlow, volume)
	}
	if td.Pressure == nil {
		td.Pressure = def.Pressure
	}
	if td.AirDirection == nil {
		td.AirDirection = def.AirDirection
	}
	if td.HEPA == nil {
		td.HEPA = def.HEPA
	}
	if td.Particle == nil {
		td.Particle = def.Particle
	}
	if td.Recovery == nil {
		td.Recovery = def.Recovery
	}
	if td.TempHumidity == nil {
		td.TempHumidity = def.TempHumidity
	}
}

package hvac

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func setupRoom(t *testing.T) (*ReportData, Room) {
	t.Helper()

	data := NewReportData()
	r := data.AddRoom()
	r, err := data.UpdateRoom(r.ID, RoomUpdate{
		RoomNo:      ptr("Z-101"),
		RoomName:    ptr("Ameliyathane 1"),
		SurfaceArea: ptr(14.0),
		Height:      ptr(3.0),
	})
	if err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	return data, r
}

func mustEdit(t *testing.T, data *ReportData, roomID string, edits ...Edit) {
	t.Helper()
	for _, e := range edits {
		if err := data.ApplyEdit(roomID, e); err != nil {
			t.Fatalf("ApplyEdit(%s) error = %v", e.Path(), err)
		}
	}
}

func TestAddRoomDefaults(t *testing.T) {
	data := NewReportData()
	a := data.AddRoom()
	b := data.AddRoom()

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("room ids not unique: %q %q", a.ID, b.ID)
	}
	if a.TestMode != AtRest || a.FlowType != Turbulence || a.RoomClass != "ISO 7" {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	if _, ok := data.TestData[a.ID]; ok {
		t.Fatalf("test data created eagerly")
	}
	if len(data.Rooms) != 2 || data.Rooms[1].ID != b.ID {
		t.Fatalf("rooms not appended in order")
	}
}

func TestUpdateRoomRecomputesVolume(t *testing.T) {
	data, r := setupRoom(t)
	if r.Volume != 42 {
		t.Fatalf("Volume = %v, want 42", r.Volume)
	}

	r, err := data.UpdateRoom(r.ID, RoomUpdate{Height: ptr(2.5)})
	if err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	if r.Volume != 35 || r.RoomName != "Ameliyathane 1" {
		t.Fatalf("partial merge: %+v", r)
	}
}

func TestUpdateRoomRecomputesAirChangeRate(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID, SetTotalDebit{Value: 1000})
	if got := data.TestData[r.ID].AirFlow.AirChangeRate; got != 23.81 {
		t.Fatalf("AirChangeRate = %v, want 23.81", got)
	}

	if _, err := data.UpdateRoom(r.ID, RoomUpdate{Height: ptr(2.0)}); err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	if got := data.TestData[r.ID].AirFlow.AirChangeRate; got != 35.71 {
		t.Fatalf("AirChangeRate after height change = %v, want 35.71", got)
	}
}

func TestUpdateRoomRejectsBadInput(t *testing.T) {
	data, r := setupRoom(t)

	_, err := data.UpdateRoom(r.ID, RoomUpdate{SurfaceArea: ptr(-1.0), Height: ptr(math.NaN())})
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 2 {
		t.Fatalf("error = %v, want ValidationError on two fields", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("error does not match ErrValidation")
	}
	if got, _, _ := data.Room(r.ID); got.SurfaceArea != 14 {
		t.Fatalf("rejected update was applied: %+v", got)
	}

	_, err = data.UpdateRoom(r.ID, RoomUpdate{FlowType: ptr(FlowType("Radial"))})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown flow type: error = %v", err)
	}

	if _, err := data.UpdateRoom("missing", RoomUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: error = %v, want ErrNotFound", err)
	}
}

func TestRemoveRoom(t *testing.T) {
	data, r := setupRoom(t)
	other := data.AddRoom()
	mustEdit(t, data, r.ID, SetPressure{Value: 8})

	if err := data.RemoveRoom(r.ID); err != nil {
		t.Fatalf("RemoveRoom() error = %v", err)
	}
	if len(data.Rooms) != 1 || data.Rooms[0].ID != other.ID {
		t.Fatalf("rooms after removal: %+v", data.Rooms)
	}
	if _, ok := data.TestData[r.ID]; ok {
		t.Fatalf("test data not removed with room")
	}
	if err := data.RemoveRoom(r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second removal: error = %v, want ErrNotFound", err)
	}
}

func TestApplyEditLazyCreation(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID, SetPressure{Value: 7})

	td := data.TestData[r.ID]
	if td == nil {
		t.Fatalf("test data not created")
	}
	if !td.Pressure.IsCompliant {
		t.Fatalf("pressure 7 not compliant")
	}
	if td.AirFlow.MinCriteria != DefaultMinCriteria {
		t.Fatalf("MinCriteria = %v, want %v", td.AirFlow.MinCriteria, DefaultMinCriteria)
	}
	if td.AirDirection.Direction != DefaultDirection || td.AirDirection.Result != DirectionCompliant {
		t.Fatalf("air direction defaults: %+v", td.AirDirection)
	}
	if td.Particle.ISOClass != ISO7 {
		t.Fatalf("ISOClass default = %q", td.Particle.ISOClass)
	}
	if td.NoiseIllumination != nil {
		t.Fatalf("noise/illumination created without an edit")
	}
	if missing := td.MissingMandatory(); len(missing) != 0 {
		t.Fatalf("missing mandatory after lazy creation: %v", missing)
	}
}

func TestApplyEditVelocityLeavesOtherFields(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID,
		SetPressure{Value: 12.5},
		SetReferenceArea{Value: "Koridor"},
		SetFilterSizeX{Value: 610},
		SetFilterSizeY{Value: 610},
		SetTotalDebit{Value: 1000},
	)
	before := *data.TestData[r.ID].Pressure

	mustEdit(t, data, r.ID, SetVelocity{Value: 0.45})

	td := data.TestData[r.ID]
	if td.AirFlow.Debit != 602.8 {
		t.Fatalf("Debit = %v, want 602.8", td.AirFlow.Debit)
	}
	if td.AirFlow.AirChangeRate != 23.81 {
		t.Fatalf("AirChangeRate = %v, want 23.81", td.AirFlow.AirChangeRate)
	}
	if !AirChangeRateCompliant(td.AirFlow.AirChangeRate) {
		t.Fatalf("23.81 changes/h not compliant")
	}
	if !reflect.DeepEqual(before, *td.Pressure) {
		t.Fatalf("pressure changed: %+v -> %+v", before, *td.Pressure)
	}
}

func TestApplyEditParticles(t *testing.T) {
	data, r := setupRoom(t)
	for i, v := range []float64{3000, 3500, 4000, 3600} {
		mustEdit(t, data, r.ID, SetParticle05{Index: i, Value: v}, SetParticle50{Index: i, Value: 10})
	}

	p := data.TestData[r.ID].Particle
	if p.Average05 != 3525 || p.Average50 != 10 {
		t.Fatalf("averages = %v / %v", p.Average05, p.Average50)
	}
	if p.ISOClass != ISO8 || p.IsCompliant {
		t.Fatalf("class = %q compliant = %v, want ISO 8 non-compliant", p.ISOClass, p.IsCompliant)
	}

	mustEdit(t, data, r.ID, SetParticle05{Index: 2, Value: 3900})
	if p := data.TestData[r.ID].Particle; p.ISOClass != ISO7 || !p.IsCompliant {
		t.Fatalf("after lowering a sample: class = %q compliant = %v", p.ISOClass, p.IsCompliant)
	}
}

func TestApplyEditZeroVolumeMarksNA(t *testing.T) {
	data := NewReportData()
	r := data.AddRoom()
	mustEdit(t, data, r.ID, SetTotalDebit{Value: 500})

	af := data.TestData[r.ID].AirFlow
	if !af.AirChangeRateNA || af.AirChangeRate != 0 {
		t.Fatalf("zero volume: %+v", af)
	}
	if math.IsInf(af.AirChangeRate, 0) || math.IsNaN(af.AirChangeRate) {
		t.Fatalf("non-finite air change rate stored")
	}
}

func TestApplyEditFailureIsAtomic(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID, SetPressure{Value: 9})
	snapshot := data.Clone()

	errCases := []struct {
		edit Edit
		want error
	}{
		{SetPressure{Value: math.Inf(1)}, ErrArithmetic},
		{SetLeakage{Value: math.NaN()}, ErrArithmetic},
		{SetParticle05{Index: SamplePoints, Value: 1}, ErrValidation},
		{SetParticle50{Index: -1, Value: 1}, ErrValidation},
		{SetAirDirectionResult{Value: "Belki"}, ErrValidation},
	}
	for _, c := range errCases {
		if err := data.ApplyEdit(r.ID, c.edit); !errors.Is(err, c.want) {
			t.Errorf("%s: error = %v, want %v", c.edit.Path(), err, c.want)
		}
	}
	if !reflect.DeepEqual(snapshot, data) {
		t.Fatalf("failed edits modified the report")
	}

	if err := data.ApplyEdit("missing", SetPressure{Value: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown room: error = %v", err)
	}
	if _, ok := data.TestData["missing"]; ok {
		t.Fatalf("phantom test data created")
	}
}

func TestApplyEditPure(t *testing.T) {
	data, r := setupRoom(t)
	out, err := ApplyEdit(data, r.ID, SetHumidity{Value: 45})
	if err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	if _, ok := data.TestData[r.ID]; ok {
		t.Fatalf("input was modified")
	}
	if !out.TestData[r.ID].TempHumidity.HumidityCompliant {
		t.Fatalf("humidity 45 not compliant")
	}
}

func TestApplyEditNoiseCreatesOptionalRecord(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID, SetNoise{Value: 48}, SetIllumination{Value: 1000})

	ni := data.TestData[r.ID].NoiseIllumination
	if ni == nil || ni.Noise != 48 || ni.Illumination != 1000 {
		t.Fatalf("noise/illumination = %+v", ni)
	}
}

func TestParseEdit(t *testing.T) {
	cases := []struct {
		path string
		raw  any
		want Edit
	}{
		{"airFlow.velocity", 0.45, SetVelocity{Value: 0.45}},
		{"airFlow.filterSizeX", "610", SetFilterSizeX{Value: 610}},
		{"pressure.referenceArea", "Koridor", SetReferenceArea{Value: "Koridor"}},
		{"airDirection.result", "Uygun Değil", SetAirDirectionResult{Value: DirectionNonCompliant}},
		{"particle.particle05.2", 3100.0, SetParticle05{Index: 2, Value: 3100}},
		{"particle.particle50.0", 12, SetParticle50{Index: 0, Value: 12}},
		{"noiseIllumination.illumination", 850.0, SetIllumination{Value: 850}},
	}
	for _, c := range cases {
		got, err := ParseEdit(c.path, c.raw)
		if err != nil {
			t.Errorf("ParseEdit(%q) error = %v", c.path, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseEdit(%q) = %#v, want %#v", c.path, got, c.want)
		}
		if got.Path() != c.path {
			t.Errorf("Path() = %q, want %q", got.Path(), c.path)
		}
	}

	for _, bad := range []struct {
		path string
		raw  any
	}{
		{"pressure.isCompliant", true},
		{"airFlow.debit", 1.0},
		{"particle.particle05.x", 1.0},
		{"hepa.leakage", "abc"},
		{"pressure.referenceArea", 5.0},
	} {
		if _, err := ParseEdit(bad.path, bad.raw); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseEdit(%q, %v) error = %v, want ErrValidation", bad.path, bad.raw, err)
		}
	}
}

func TestRecompute(t *testing.T) {
	data, r := setupRoom(t)
	data.TestData[r.ID] = &RoomTestData{
		RoomID:   r.ID,
		AirFlow:  &AirFlowTest{Velocity: 0.45, FilterSizeX: 610, FilterSizeY: 610, TotalDebit: 1000},
		Pressure: &PressureTest{Pressure: 6},
		Particle: &ParticleTest{Particle05: Samples{100, 100, 100, 100}},
	}
	if err := data.Recompute(); err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}

	td := data.TestData[r.ID]
	if td.AirFlow.Debit != 602.8 || td.AirFlow.AirChangeRate != 23.81 {
		t.Fatalf("airflow = %+v", td.AirFlow)
	}
	if !td.Pressure.IsCompliant || !td.Particle.IsCompliant || td.Particle.ISOClass != ISO7 {
		t.Fatalf("verdicts not recomputed: %+v %+v", td.Pressure, td.Particle)
	}
	if td.HEPA != nil {
		t.Fatalf("Recompute created an absent sub-record")
	}
}

func TestUpdateRoomRejectsOverflowingVolume(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID, SetTotalDebit{Value: 1000})
	before := data.Clone()

	_, err := data.UpdateRoom(r.ID, RoomUpdate{SurfaceArea: ptr(1e200), Height: ptr(1e200), RoomName: ptr("x")})
	var ve *ValidationError
	if !errors.As(err, &ve) || !reflect.DeepEqual(ve.Fields, []string{"surfaceArea", "height"}) {
		t.Fatalf("UpdateRoom(overflow) error = %v", err)
	}
	if !reflect.DeepEqual(before, data) {
		t.Fatalf("failed update changed the room: %+v", data.Rooms[0])
	}
}

func TestApplyEditOverflowingDebitMarksNA(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID,
		SetVelocity{Value: 1e300},
		SetFilterSizeX{Value: 1e6},
		SetFilterSizeY{Value: 1e6},
		SetTotalDebit{Value: 1e300},
	)

	af := data.TestData[r.ID].AirFlow
	if !af.DebitNA || af.Debit != 0 {
		t.Fatalf("debit = %v NA = %v, want N/A", af.Debit, af.DebitNA)
	}
	if _, err := json.Marshal(data); err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	mustEdit(t, data, r.ID, SetVelocity{Value: 0.45}, SetFilterSizeX{Value: 610}, SetFilterSizeY{Value: 610})
	if af := data.TestData[r.ID].AirFlow; af.DebitNA || af.Debit != 602.8 {
		t.Fatalf("debit after correction = %v NA = %v", af.Debit, af.DebitNA)
	}
}

func TestRecomputeRejectsNonFinite(t *testing.T) {
	cases := map[string]func(d *ReportData, id string){
		"nan area":        func(d *ReportData, id string) { d.Rooms[0].SurfaceArea = math.NaN() },
		"overflow volume": func(d *ReportData, id string) { d.Rooms[0].SurfaceArea, d.Rooms[0].Height = 1e200, 1e200 },
		"inf velocity":    func(d *ReportData, id string) { d.TestData[id].AirFlow.Velocity = math.Inf(1) },
		"nan particle":    func(d *ReportData, id string) { d.TestData[id].Particle.Particle50[3] = math.NaN() },
		"inf noise": func(d *ReportData, id string) {
			d.TestData[id].NoiseIllumination = &NoiseIlluminationTest{Noise: math.Inf(-1)}
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			data, r := setupRoom(t)
			mustEdit(t, data, r.ID, SetPressure{Value: 8})
			corrupt(data, r.ID)
			pressure := *data.TestData[r.ID].Pressure

			if err := data.Recompute(); !errors.Is(err, ErrArithmetic) {
				t.Fatalf("Recompute() error = %v, want ErrArithmetic", err)
			}
			if *data.TestData[r.ID].Pressure != pressure {
				t.Fatalf("failed Recompute changed the data")
			}
		})
	}
}

func TestNewRoomTestDataVerdictsMatchRecompute(t *testing.T) {
	data, r := setupRoom(t)
	mustEdit(t, data, r.ID, SetAirDirection{Value: "Temiz → Kirli"})
	edited := data.TestData[r.ID].Clone()

	if !edited.HEPA.IsCompliant || !edited.Recovery.IsCompliant || !edited.Particle.IsCompliant {
		t.Fatalf("zero leakage, duration and ISO 7 should be compliant: %+v %+v %+v",
			edited.HEPA, edited.Recovery, edited.Particle)
	}
	if edited.Pressure.IsCompliant || edited.TempHumidity.TempCompliant {
		t.Fatalf("zero pressure and temperature should fail: %+v %+v", edited.Pressure, edited.TempHumidity)
	}

	if err := data.Recompute(); err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}
	if !reflect.DeepEqual(edited, data.TestData[r.ID]) {
		t.Fatalf("Recompute changed a freshly edited record:\n%+v\n%+v", edited, data.TestData[r.ID])
	}
}

package hvac

// TestMode is the occupancy state a room was measured in
type TestMode string

const (
	AtRest      TestMode = "At Rest"
	InOperation TestMode = "In Operation"
)

// Valid reports whether m is one of the known test modes
func (m TestMode) Valid() bool {
	return m == AtRest || m == InOperation
}

// FlowType is the supply air distribution pattern of a room
type FlowType string

const (
	Turbulence     FlowType = "Turbulence"
	Laminar        FlowType = "Laminar"
	Unidirectional FlowType = "Unidirectional"
)

// Valid reports whether f is one of the known flow types
func (f FlowType) Valid() bool {
	return f == Turbulence || f == Laminar || f == Unidirectional
}

// DirectionResult is the observed outcome of the smoke/airflow direction test
type DirectionResult string

const (
	DirectionCompliant    DirectionResult = "Uygundur"
	DirectionNonCompliant DirectionResult = "Uygun Değil"
)

// Valid reports whether r is one of the two recorded outcomes
func (r DirectionResult) Valid() bool {
	return r == DirectionCompliant || r == DirectionNonCompliant
}

// DefaultDirection is the expected flow direction, clean to dirty
const DefaultDirection = "Temiz → Kirli"

// SamplePoints is the fixed number of particle sampling locations recorded per room
const SamplePoints = 4

// Samples holds one particle count per sampling location
type Samples [SamplePoints]float64

// GeneralInfo is the report header shared by every room page
type GeneralInfo struct {
	HospitalName     string `json:"hospitalName" yaml:"hospitalName"`
	ReportNo         string `json:"reportNo" yaml:"reportNo"`
	MeasurementDate  string `json:"measurementDate" yaml:"measurementDate"`
	TesterName       string `json:"testerName" yaml:"testerName"`
	PreparedBy       string `json:"preparedBy" yaml:"preparedBy"`
	ApprovedBy       string `json:"approvedBy" yaml:"approvedBy"`
	OrganizationName string `json:"organizationName" yaml:"organizationName"`
	Logo             string `json:"logo,omitempty" yaml:"logo,omitempty"`
	Stamp            string `json:"stamp,omitempty" yaml:"stamp,omitempty"`
}

// Room is one physical space under test
type Room struct {
	ID          string   `json:"id" yaml:"id"`
	RoomNo      string   `json:"roomNo" yaml:"roomNo"`
	RoomName    string   `json:"roomName" yaml:"roomName"`
	SurfaceArea float64  `json:"surfaceArea" yaml:"surfaceArea"`
	Height      float64  `json:"height" yaml:"height"`
	Volume      float64  `json:"volume" yaml:"volume"`
	TestMode    TestMode `json:"testMode" yaml:"testMode"`
	FlowType    FlowType `json:"flowType" yaml:"flowType"`
	RoomClass   string   `json:"roomClass" yaml:"roomClass"`
}

type AirFlowTest struct {
	Velocity        float64 `json:"velocity" yaml:"velocity"`
	FilterSizeX     float64 `json:"filterSizeX" yaml:"filterSizeX"`
	FilterSizeY     float64 `json:"filterSizeY" yaml:"filterSizeY"`
	Debit           float64 `json:"debit" yaml:"debit"`
	DebitNA         bool    `json:"debitNA,omitempty" yaml:"debitNA,omitempty"`
	TotalDebit      float64 `json:"totalDebit" yaml:"totalDebit"`
	AirChangeRate   float64 `json:"airChangeRate" yaml:"airChangeRate"`
	AirChangeRateNA bool    `json:"airChangeRateNA,omitempty" yaml:"airChangeRateNA,omitempty"`
	MinCriteria     float64 `json:"minCriteria" yaml:"minCriteria"`
}

type PressureTest struct {
	Pressure      float64 `json:"pressure" yaml:"pressure"`
	ReferenceArea string  `json:"referenceArea" yaml:"referenceArea"`
	IsCompliant   bool    `json:"isCompliant" yaml:"isCompliant"`
}

type AirFlowDirection struct {
	Direction string          `json:"direction" yaml:"direction"`
	Result    DirectionResult `json:"result" yaml:"result"`
}

type HEPATest struct {
	Leakage     float64 `json:"leakage" yaml:"leakage"`
	IsCompliant bool    `json:"isCompliant" yaml:"isCompliant"`
}

type ParticleTest struct {
	Particle05  Samples  `json:"particle05" yaml:"particle05"`
	Particle50  Samples  `json:"particle50" yaml:"particle50"`
	Average05   float64  `json:"average05" yaml:"average05"`
	Average50   float64  `json:"average50" yaml:"average50"`
	ISOClass    ISOClass `json:"isoClass" yaml:"isoClass"`
	IsCompliant bool     `json:"isCompliant" yaml:"isCompliant"`
}

type RecoveryTest struct {
	Duration    float64 `json:"duration" yaml:"duration"`
	IsCompliant bool    `json:"isCompliant" yaml:"isCompliant"`
}

type TemperatureHumidityTest struct {
	Temperature       float64 `json:"temperature" yaml:"temperature"`
	Humidity          float64 `json:"humidity" yaml:"humidity"`
	TempCompliant     bool    `json:"tempCompliant" yaml:"tempCompliant"`
	HumidityCompliant bool    `json:"humidityCompliant" yaml:"humidityCompliant"`
}

// NoiseIlluminationTest is informational; no acceptance rule is applied to it
type NoiseIlluminationTest struct {
	Noise        float64 `json:"noise" yaml:"noise"`
	Illumination float64 `json:"illumination" yaml:"illumination"`
}

// RoomTestData is one room's full test record. A nil sub-record means the
// category was never recorded and is left out of the report.
type RoomTestData struct {
	RoomID            string                   `json:"roomId" yaml:"roomId"`
	AirFlow           *AirFlowTest             `json:"airFlow,omitempty" yaml:"airFlow,omitempty"`
	Pressure          *PressureTest            `json:"pressure,omitempty" yaml:"pressure,omitempty"`
	AirDirection      *AirFlowDirection        `json:"airDirection,omitempty" yaml:"airDirection,omitempty"`
	HEPA              *HEPATest                `json:"hepa,omitempty" yaml:"hepa,omitempty"`
	Particle          *ParticleTest            `json:"particle,omitempty" yaml:"particle,omitempty"`
	Recovery          *RecoveryTest            `json:"recovery,omitempty" yaml:"recovery,omitempty"`
	TempHumidity      *TemperatureHumidityTest `json:"tempHumidity,omitempty" yaml:"tempHumidity,omitempty"`
	NoiseIllumination *NoiseIlluminationTest   `json:"noiseIllumination,omitempty" yaml:"noiseIllumination,omitempty"`
}

// NewRoomTestData returns a record with every mandatory sub-record zeroed and
// its verdicts evaluated for those zero inputs. Noise/illumination stays nil
// until it is first edited.
func NewRoomTestData(roomID string) *RoomTestData {
	td := &RoomTestData{
		RoomID:       roomID,
		AirFlow:      &AirFlowTest{MinCriteria: DefaultMinCriteria},
		Pressure:     &PressureTest{},
		AirDirection: &AirFlowDirection{Direction: DefaultDirection, Result: DirectionCompliant},
		HEPA:         &HEPATest{},
		Particle:     &ParticleTest{},
		Recovery:     &RecoveryTest{},
		TempHumidity: &TemperatureHumidityTest{},
	}
	td.refreshVerdicts()
	return td
}

// refreshVerdicts re-evaluates the rule of every recorded category that has
// one. Air flow is left alone since it also depends on the room volume.
func (td *RoomTestData) refreshVerdicts() {
	if td.Pressure != nil {
		td.Pressure.IsCompliant = PressureCompliant(td.Pressure.Pressure)
	}
	if td.HEPA != nil {
		td.HEPA.IsCompliant = HEPACompliant(td.HEPA.Leakage)
	}
	if td.Particle != nil {
		recomputeParticle(td.Particle)
	}
	if td.Recovery != nil {
		td.Recovery.IsCompliant = RecoveryCompliant(td.Recovery.Duration)
	}
	if td.TempHumidity != nil {
		td.TempHumidity.TempCompliant = TemperatureCompliant(td.TempHumidity.Temperature)
		td.TempHumidity.HumidityCompliant = HumidityCompliant(td.TempHumidity.Humidity)
	}
}

// measuredValue is one numeric input of a test record, named by its edit path
type measuredValue struct {
	path  string
	value float64
}

// measuredValues lists the numeric inputs of every recorded category
func (td *RoomTestData) measuredValues() []measuredValue {
	var out []measuredValue
	add := func(path string, v float64) { out = append(out, measuredValue{path, v}) }
	if af := td.AirFlow; af != nil {
		add(SetVelocity{}.Path(), af.Velocity)
		add(SetFilterSizeX{}.Path(), af.FilterSizeX)
		add(SetFilterSizeY{}.Path(), af.FilterSizeY)
		add(SetTotalDebit{}.Path(), af.TotalDebit)
		add(SetMinCriteria{}.Path(), af.MinCriteria)
	}
	if td.Pressure != nil {
		add(SetPressure{}.Path(), td.Pressure.Pressure)
	}
	if td.HEPA != nil {
		add(SetLeakage{}.Path(), td.HEPA.Leakage)
	}
	if p := td.Particle; p != nil {
		for i := range p.Particle05 {
			add(SetParticle05{Index: i}.Path(), p.Particle05[i])
			add(SetParticle50{Index: i}.Path(), p.Particle50[i])
		}
	}
	if td.Recovery != nil {
		add(SetRecoveryDuration{}.Path(), td.Recovery.Duration)
	}
	if th := td.TempHumidity; th != nil {
		add(SetTemperature{}.Path(), th.Temperature)
		add(SetHumidity{}.Path(), th.Humidity)
	}
	if ni := td.NoiseIllumination; ni != nil {
		add(SetNoise{}.Path(), ni.Noise)
		add(SetIllumination{}.Path(), ni.Illumination)
	}
	return out
}

// Clone returns a deep copy
func (td *RoomTestData) Clone() *RoomTestData {
	if td == nil {
		return nil
	}
	out := &RoomTestData{RoomID: td.RoomID}
	if td.AirFlow != nil {
		v := *td.AirFlow
		out.AirFlow = &v
	}
	if td.Pressure != nil {
		v := *td.Pressure
		out.Pressure = &v
	}
	if td.AirDirection != nil {
		v := *td.AirDirection
		out.AirDirection = &v
	}
	if td.HEPA != nil {
		v := *td.HEPA
		out.HEPA = &v
	}
	if td.Particle != nil {
		v := *td.Particle
		out.Particle = &v
	}
	if td.Recovery != nil {
		v := *td.Recovery
		out.Recovery = &v
	}
	if td.TempHumidity != nil {
		v := *td.TempHumidity
		out.TempHumidity = &v
	}
	if td.NoiseIllumination != nil {
		v := *td.NoiseIllumination
		out.NoiseIllumination = &v
	}
	return out
}

// MissingMandatory lists the mandatory categories that have no sub-record
func (td *RoomTestData) MissingMandatory() []string {
	if td == nil {
		return []string{"testData"}
	}
	var missing []string
	if td.Pressure == nil {
		missing = append(missing, "pressure")
	}
	if td.HEPA == nil {
		missing = append(missing, "hepa")
	}
	if td.Particle == nil {
		missing = append(missing, "particle")
	}
	if td.Recovery == nil {
		missing = append(missing, "recovery")
	}
	if td.TempHumidity == nil {
		missing = append(missing, "tempHumidity")
	}
	if td.AirDirection == nil {
		missing = append(missing, "airDirection")
	}
	return missing
}

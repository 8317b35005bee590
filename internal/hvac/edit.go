package hvac

import (
	"fmt"
	"strconv"
	"strings"
)

// Edit is a single leaf update to a room's test record. The set of variants
// is closed; apply dispatches on the concrete type.
type Edit interface {
	// Path is the dotted field address the edit writes to
	Path() string
	isEdit()
}

type (
	SetVelocity           struct{ Value float64 }
	SetFilterSizeX        struct{ Value float64 }
	SetFilterSizeY        struct{ Value float64 }
	SetTotalDebit         struct{ Value float64 }
	SetMinCriteria        struct{ Value float64 }
	SetPressure           struct{ Value float64 }
	SetReferenceArea      struct{ Value string }
	SetAirDirection       struct{ Value string }
	SetAirDirectionResult struct{ Value DirectionResult }
	SetLeakage            struct{ Value float64 }
	SetRecoveryDuration   struct{ Value float64 }
	SetTemperature        struct{ Value float64 }
	SetHumidity           struct{ Value float64 }
	SetNoise              struct{ Value float64 }
	SetIllumination       struct{ Value float64 }
)

// SetParticle05 writes one 0.5µm sample point; Index is 0-based
type SetParticle05 struct {
	Index int
	Value float64
}

// SetParticle50 writes one 5.0µm sample point; Index is 0-based
type SetParticle50 struct {
	Index int
	Value float64
}

func (SetVelocity) Path() string           { return "airFlow.velocity" }
func (SetFilterSizeX) Path() string        { return "airFlow.filterSizeX" }
func (SetFilterSizeY) Path() string        { return "airFlow.filterSizeY" }
func (SetTotalDebit) Path() string         { return "airFlow.totalDebit" }
func (SetMinCriteria) Path() string        { return "airFlow.minCriteria" }
func (SetPressure) Path() string           { return "pressure.pressure" }
func (SetReferenceArea) Path() string      { return "pressure.referenceArea" }
func (SetAirDirection) Path() string       { return "airDirection.direction" }
func (SetAirDirectionResult) Path() string { return "airDirection.result" }
func (SetLeakage) Path() string            { return "hepa.leakage" }
func (SetRecoveryDuration) Path() string   { return "recovery.duration" }
func (SetTemperature) Path() string        { return "tempHumidity.temperature" }
func (SetHumidity) Path() string           { return "tempHumidity.humidity" }
func (SetNoise) Path() string              { return "noiseIllumination.noise" }
func (SetIllumination) Path() string       { return "noiseIllumination.illumination" }
func (e SetParticle05) Path() string       { return "particle.particle05." + strconv.Itoa(e.Index) }
func (e SetParticle50) Path() string       { return "particle.particle50." + strconv.Itoa(e.Index) }

func (SetVelocity) isEdit()           {}
func (SetFilterSizeX) isEdit()        {}
func (SetFilterSizeY) isEdit()        {}
func (SetTotalDebit) isEdit()         {}
func (SetMinCriteria) isEdit()        {}
func (SetPressure) isEdit()           {}
func (SetReferenceArea) isEdit()      {}
func (SetAirDirection) isEdit()       {}
func (SetAirDirectionResult) isEdit() {}
func (SetLeakage) isEdit()            {}
func (SetRecoveryDuration) isEdit()   {}
func (SetTemperature) isEdit()        {}
func (SetHumidity) isEdit()           {}
func (SetNoise) isEdit()              {}
func (SetIllumination) isEdit()       {}
func (SetParticle05) isEdit()         {}
func (SetParticle50) isEdit()         {}

// numeric returns the float payload of a numeric edit
func numeric(e Edit) (float64, bool) {
	switch v := e.(type) {
	case SetVelocity:
		return v.Value, true
	case SetFilterSizeX:
		return v.Value, true
	case SetFilterSizeY:
		return v.Value, true
	case SetTotalDebit:
		return v.Value, true
	case SetMinCriteria:
		return v.Value, true
	case SetPressure:
		return v.Value, true
	case SetLeakage:
		return v.Value, true
	case SetRecoveryDuration:
		return v.Value, true
	case SetTemperature:
		return v.Value, true
	case SetHumidity:
		return v.Value, true
	case SetNoise:
		return v.Value, true
	case SetIllumination:
		return v.Value, true
	case SetParticle05:
		return v.Value, true
	case SetParticle50:
		return v.Value, true
	}
	return 0, false
}

// apply writes the edit into td and recomputes every derived field that
// depends on it. volume is the owning room's current volume.
func apply(td *RoomTestData, e Edit, volume float64) error {
	if v, ok := numeric(e); ok && !finite(v) {
		return fmt.Errorf("%s: non-finite value: %w", e.Path(), ErrArithmetic)
	}

	switch v := e.(type) {
	case SetVelocity:
		td.AirFlow.Velocity = v.Value
		recomputeAirFlow(td.AirFlow, volume)
	case SetFilterSizeX:
		td.AirFlow.FilterSizeX = v.Value
		recomputeAirFlow(td.AirFlow, volume)
	case SetFilterSizeY:
		td.AirFlow.FilterSizeY = v.Value
		recomputeAirFlow(td.AirFlow, volume)
	case SetTotalDebit:
		td.AirFlow.TotalDebit = v.Value
		recomputeAirChange(td.AirFlow, volume)
	case SetMinCriteria:
		td.AirFlow.MinCriteria = v.Value
	case SetPressure:
		td.Pressure.Pressure = v.Value
		td.Pressure.IsCompliant = PressureCompliant(v.Value)
	case SetReferenceArea:
		td.Pressure.ReferenceArea = v.Value
	case SetAirDirection:
		td.AirDirection.Direction = v.Value
	case SetAirDirectionResult:
		if !v.Value.Valid() {
			return &ValidationError{Fields: []string{e.Path()}}
		}
		td.AirDirection.Result = v.Value
	case SetLeakage:
		td.HEPA.Leakage = v.Value
		td.HEPA.IsCompliant = HEPACompliant(v.Value)
	case SetRecoveryDuration:
		td.Recovery.Duration = v.Value
		td.Recovery.IsCompliant = RecoveryCompliant(v.Value)
	case SetTemperature:
		td.TempHumidity.Temperature = v.Value
		td.TempHumidity.TempCompliant = TemperatureCompliant(v.Value)
	case SetHumidity:
		td.TempHumidity.Humidity = v.Value
		td.TempHumidity.HumidityCompliant = HumidityCompliant(v.Value)
	case SetNoise:
		if td.NoiseIllumination == nil {
			td.NoiseIllumination = &NoiseIlluminationTest{}
		}
		td.NoiseIllumination.Noise = v.Value
	case SetIllumination:
		if td.NoiseIllumination == nil {
			td.NoiseIllumination = &NoiseIlluminationTest{}
		}
		td.NoiseIllumination.Illumination = v.Value
	case SetParticle05:
		if v.Index < 0 || v.Index >= SamplePoints {
			return &ValidationError{Fields: []string{e.Path()}}
		}
		td.Particle.Particle05[v.Index] = v.Value
		recomputeParticle(td.Particle)
	case SetParticle50:
		if v.Index < 0 || v.Index >= SamplePoints {
			return &ValidationError{Fields: []string{e.Path()}}
		}
		td.Particle.Particle50[v.Index] = v.Value
		recomputeParticle(td.Particle)
	default:
		return fmt.Errorf("unsupported edit %T: %w", e, ErrValidation)
	}
	return nil
}

// recomputeAirFlow stores the N/A marker when the debit overflows
func recomputeAirFlow(af *AirFlowTest, volume float64) {
	if debit := Debit(af.Velocity, af.FilterSizeX, af.FilterSizeY); finite(debit) {
		af.Debit = debit
		af.DebitNA = false
	} else {
		af.Debit = 0
		af.DebitNA = true
	}
	recomputeAirChange(af, volume)
}

// recomputeAirChange stores the N/A marker instead of an infinite rate
func recomputeAirChange(af *AirFlowTest, volume float64) {
	ach, err := AirChangeRate(af.TotalDebit, volume)
	if err != nil {
		af.AirChangeRate = 0
		af.AirChangeRateNA = true
		return
	}
	af.AirChangeRate = ach
	af.AirChangeRateNA = false
}

func recomputeParticle(p *ParticleTest) {
	p.Average05 = Mean(p.Particle05)
	p.Average50 = Mean(p.Particle50)
	p.ISOClass = ISOClassFor(p.Average05)
	p.IsCompliant = ParticleClassCompliant(p.ISOClass, ParticleTargetClass)
}

// ParseEdit turns a dotted field path and a wire value into an Edit.
// Numeric fields accept JSON numbers or numeric strings.
func ParseEdit(path string, raw any) (Edit, error) {
	invalid := func() error { return &ValidationError{Fields: []string{path}} }

	if rest, ok := strings.CutPrefix(path, "particle.particle05."); ok {
		idx, err := strconv.Atoi(rest)
		if err != nil {
			return nil, invalid()
		}
		f, err := toFloat(raw)
		if err != nil {
			return nil, invalid()
		}
		return SetParticle05{Index: idx, Value: f}, nil
	}
	if rest, ok := strings.CutPrefix(path, "particle.particle50."); ok {
		idx, err := strconv.Atoi(rest)
		if err != nil {
			return nil, invalid()
		}
		f, err := toFloat(raw)
		if err != nil {
			return nil, invalid()
		}
		return SetParticle50{Index: idx, Value: f}, nil
	}

	switch path {
	case "pressure.referenceArea", "airDirection.direction", "airDirection.result":
		s, ok := raw.(string)
		if !ok {
			return nil, invalid()
		}
		switch path {
		case "pressure.referenceArea":
			return SetReferenceArea{Value: s}, nil
		case "airDirection.direction":
			return SetAirDirection{Value: s}, nil
		default:
			return SetAirDirectionResult{Value: DirectionResult(s)}, nil
		}
	}

	build, ok := numericPaths[path]
	if !ok {
		return nil, invalid()
	}
	f, err := toFloat(raw)
	if err != nil {
		return nil, invalid()
	}
	return build(f), nil
}

var numericPaths = map[string]func(float64) Edit{
	"airFlow.velocity":               func(f float64) Edit { return SetVelocity{f} },
	"airFlow.filterSizeX":            func(f float64) Edit { return SetFilterSizeX{f} },
	"airFlow.filterSizeY":            func(f float64) Edit { return SetFilterSizeY{f} },
	"airFlow.totalDebit":             func(f float64) Edit { return SetTotalDebit{f} },
	"airFlow.minCriteria":            func(f float64) Edit { return SetMinCriteria{f} },
	"pressure.pressure":              func(f float64) Edit { return SetPressure{f} },
	"hepa.leakage":                   func(f float64) Edit { return SetLeakage{f} },
	"recovery.duration":              func(f float64) Edit { return SetRecoveryDuration{f} },
	"tempHumidity.temperature":       func(f float64) Edit { return SetTemperature{f} },
	"tempHumidity.humidity":          func(f float64) Edit { return SetHumidity{f} },
	"noiseIllumination.noise":        func(f float64) Edit { return SetNoise{f} },
	"noiseIllumination.illumination": func(f float64) Edit { return SetIllumination{f} },
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case interface{ Float64() (float64, error) }:
		return v.Float64()
	}
	return 0, fmt.Errorf("unsupported value type %T", raw)
}

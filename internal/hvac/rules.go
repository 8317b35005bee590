package hvac

// ISOClass is an ISO 14644-1 cleanliness class label
type ISOClass string

const (
	ISO7     ISOClass = "ISO 7"
	ISO8     ISOClass = "ISO 8"
	ISO9     ISOClass = "ISO 9"
	ISO9Plus ISOClass = "ISO 9+"
)

// classOrder runs from cleanest to dirtiest
var classOrder = []ISOClass{ISO7, ISO8, ISO9, ISO9Plus}

// Rank returns the position of the class in the strictness ordering, or -1 if unknown
func (c ISOClass) Rank() int {
	for i, v := range classOrder {
		if v == c {
			return i
		}
	}
	return -1
}

// Acceptance thresholds. The report renderer prints its criteria from these values.
const (
	MinPressurePa       = 6.0
	MaxHEPALeakagePct   = 0.01
	MaxRecoveryMinutes  = 25.0
	MinTemperatureC     = 20.0
	MaxTemperatureC     = 24.0
	MinHumidityPct      = 40.0
	MaxHumidityPct      = 60.0
	MinAirChangeRate    = 10.0
	DefaultMinCriteria  = 6.0
	ParticleTargetClass = ISO7
)

// PressureCompliant checks the room-to-reference differential pressure
func PressureCompliant(pressure float64) bool {
	return pressure >= MinPressurePa
}

// HEPACompliant checks the downstream aerosol leakage percentage
func HEPACompliant(leakage float64) bool {
	return leakage <= MaxHEPALeakagePct
}

// RecoveryCompliant checks the recovery time in minutes
func RecoveryCompliant(duration float64) bool {
	return duration <= MaxRecoveryMinutes
}

// TemperatureCompliant checks the closed temperature band
func TemperatureCompliant(t float64) bool {
	return t >= MinTemperatureC && t <= MaxTemperatureC
}

// HumidityCompliant checks the closed relative humidity band
func HumidityCompliant(h float64) bool {
	return h >= MinHumidityPct && h <= MaxHumidityPct
}

// AirChangeRateCompliant is reported per room but does not count towards OverallCompliance
func AirChangeRateCompliant(ach float64) bool {
	return ach >= MinAirChangeRate
}

// ParticleClassCompliant reports whether class is at least as clean as target.
// Unknown labels are never compliant.
func ParticleClassCompliant(class, target ISOClass) bool {
	c, t := class.Rank(), target.Rank()
	if c < 0 || t < 0 {
		return false
	}
	return c <= t
}

// OverallCompliance aggregates the counted sub-tests of one room.
// Air direction, air change rate and noise/illumination are not part of the aggregate.
func OverallCompliance(td *RoomTestData) bool {
	if td == nil || td.Pressure == nil || td.HEPA == nil || td.Recovery == nil ||
		td.Particle == nil || td.TempHumidity == nil {
		return false
	}
	return td.Pressure.IsCompliant &&
		td.HEPA.IsCompliant &&
		td.Recovery.IsCompliant &&
		td.Particle.IsCompliant &&
		td.TempHumidity.TempCompliant &&
		td.TempHumidity.HumidityCompliant
}

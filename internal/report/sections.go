package report

import (
	"fmt"
	"strconv"

	"hvac-pq-report/internal/hvac"
)

// Verdict is the compliance label printed next to a result
type Verdict int

const (
	VerdictInfo Verdict = iota
	VerdictPass
	VerdictFail
	VerdictNA
)

func (v Verdict) Label() string {
	switch v {
	case VerdictPass:
		return "UYGUNDUR"
	case VerdictFail:
		return "UYGUN DEĞİL"
	case VerdictNA:
		return "N/A"
	default:
		return "-"
	}
}

func verdictOf(ok bool) Verdict {
	if ok {
		return VerdictPass
	}
	return VerdictFail
}

// PDFResultRows is how many result rows the paginated export prints per page
const PDFResultRows = 9

// Pair is a label/value cell pair of the room header or footer
type Pair struct {
	Label string
	Value string
}

// Row is one line of the results table
type Row struct {
	Seq       int
	Test      string
	Criterion string
	Result    string
	Verdict   Verdict
}

// RoomSection is the layout-independent content of one room's sheet or page
type RoomSection struct {
	Index        int
	Total        int
	Room         hvac.Room
	Header       []Pair
	Rows         []Row
	Class        string
	Overall      Verdict
	SamplePoints int
	Footer       []Pair
}

// SheetName is the tab title used in the tabular export
func (s RoomSection) SheetName() string {
	return "Mahal " + strconv.Itoa(s.Index)
}

// PageLabel is the "Sayfa i/n" footer text
func (s RoomSection) PageLabel() string {
	return fmt.Sprintf("Sayfa %d/%d", s.Index, s.Total)
}

// BuildRoomSections lays out every room in list order. Categories without a
// sub-record produce no row and rows are numbered 1..n over those present.
func BuildRoomSections(data *hvac.ReportData) []RoomSection {
	if data == nil {
		return nil
	}
	g := data.GeneralInfo
	out := make([]RoomSection, 0, len(data.Rooms))

	for i, room := range data.Rooms {
		td := data.TestData[room.ID]
		sec := RoomSection{
			Index:        i + 1,
			Total:        len(data.Rooms),
			Room:         room,
			SamplePoints: hvac.SamplePointCount(room.SurfaceArea),
			Header: []Pair{
				{"MAHAL NO", room.RoomNo},
				{"AKIŞ BİÇİMİ", string(room.FlowType)},
				{"MAHAL ADI", room.RoomName},
				{"TEST MODU", string(room.TestMode)},
				{"YÜZEY ALANI", num(room.SurfaceArea) + " m²"},
				{"YÜKSEKLİK", num(room.Height) + " m"},
				{"HACİM", fmt.Sprintf("%.2f m³", room.Volume)},
				{"SINIF", room.RoomClass},
			},
			Footer: []Pair{
				{"TESTİ YAPAN", g.TesterName},
				{"RAPORU HAZIRLAYAN", g.PreparedBy},
				{"ONAYLAYAN", g.ApprovedBy},
				{"TARİH", g.MeasurementDate},
			},
			Class:   "-",
			Overall: VerdictFail,
		}
		sec.Rows = resultRows(td)
		if td != nil {
			if td.Particle != nil {
				sec.Class = string(td.Particle.ISOClass)
			}
			sec.Overall = verdictOf(hvac.OverallCompliance(td))
		}
		out = append(out, sec)
	}
	return out
}

func resultRows(td *hvac.RoomTestData) []Row {
	if td == nil {
		return nil
	}
	var rows []Row
	add := func(r Row) {
		r.Seq = len(rows) + 1
		rows = append(rows, r)
	}

	if af := td.AirFlow; af != nil {
		add(Row{
			Test:      "HAVA DEBİSİ / AIRFLOW VOLUME",
			Criterion: fmt.Sprintf("Min. %s", num(af.MinCriteria)),
			Result:    fmt.Sprintf("%.2f m³/h (%.2f m/s)", af.TotalDebit, af.Velocity),
			Verdict:   VerdictInfo,
		})
		ach := Row{
			Test:      "HAVA DEĞİŞİM ORANI / AIR CHANGE RATE",
			Criterion: fmt.Sprintf("≥ %s 1/h", num(hvac.MinAirChangeRate)),
		}
		if af.AirChangeRateNA {
			ach.Result = "N/A"
			ach.Verdict = VerdictNA
		} else {
			ach.Result = fmt.Sprintf("%.2f 1/h", af.AirChangeRate)
			ach.Verdict = verdictOf(hvac.AirChangeRateCompliant(af.AirChangeRate))
		}
		add(ach)
	}
	if p := td.Pressure; p != nil {
		res := fmt.Sprintf("%.2f Pa", p.Pressure)
		if p.ReferenceArea != "" {
			res += " (" + p.ReferenceArea + ")"
		}
		add(Row{
			Test:      "BASINÇ FARKI / DIFFERENTIAL PRESSURE",
			Criterion: fmt.Sprintf("≥ %s Pa", num(hvac.MinPressurePa)),
			Result:    res,
			Verdict:   verdictOf(p.IsCompliant),
		})
	}
	if d := td.AirDirection; d != nil {
		add(Row{
			Test:      "HAVA AKIŞ YÖNÜ / AIRFLOW DIRECTION",
			Criterion: hvac.DefaultDirection,
			Result:    d.Direction,
			Verdict:   verdictOf(d.Result == hvac.DirectionCompliant),
		})
	}
	if h := td.HEPA; h != nil {
		add(Row{
			Test:      "HEPA SIZDIRMAZLIK / HEPA LEAKAGE",
			Criterion: fmt.Sprintf("≤ %%%s", num(hvac.MaxHEPALeakagePct)),
			Result:    fmt.Sprintf("%%%s", num(h.Leakage)),
			Verdict:   verdictOf(h.IsCompliant),
		})
	}
	if p := td.Particle; p != nil {
		add(Row{
			Test:      "PARTİKÜL SAYISI / PARTICLE COUNT",
			Criterion: fmt.Sprintf("≤ %s", hvac.ParticleTargetClass),
			Result:    fmt.Sprintf("%s (0.5 µm ort. %.0f)", p.ISOClass, p.Average05),
			Verdict:   verdictOf(p.IsCompliant),
		})
	}
	if r := td.Recovery; r != nil {
		add(Row{
			Test:      "GERİ KAZANIM SÜRESİ / RECOVERY TIME",
			Criterion: fmt.Sprintf("≤ %s dk", num(hvac.MaxRecoveryMinutes)),
			Result:    fmt.Sprintf("%.2f dk", r.Duration),
			Verdict:   verdictOf(r.IsCompliant),
		})
	}
	if th := td.TempHumidity; th != nil {
		add(Row{
			Test:      "SICAKLIK / TEMPERATURE",
			Criterion: fmt.Sprintf("%s°C - %s°C", num(hvac.MinTemperatureC), num(hvac.MaxTemperatureC)),
			Result:    fmt.Sprintf("%.2f °C", th.Temperature),
			Verdict:   verdictOf(th.TempCompliant),
		})
		add(Row{
			Test:      "NEM / HUMIDITY",
			Criterion: fmt.Sprintf("%%%s - %%%s RH", num(hvac.MinHumidityPct), num(hvac.MaxHumidityPct)),
			Result:    fmt.Sprintf("%%%.2f", th.Humidity),
			Verdict:   verdictOf(th.HumidityCompliant),
		})
	}
	if ni := td.NoiseIllumination; ni != nil {
		add(Row{
			Test:      "GÜRÜLTÜ VE AYDINLATMA / NOISE AND ILLUMINATION",
			Criterion: "IEST-RP-CC006.3",
			Result:    fmt.Sprintf("%.2f dB / %.0f lux", ni.Noise, ni.Illumination),
			Verdict:   VerdictInfo,
		})
	}
	return rows
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

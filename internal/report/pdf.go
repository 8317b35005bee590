package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"hvac-pq-report/internal/hvac"
)

// Page geometry in millimetres
const (
	pageMargin   = 10.0
	lineHeight   = 6.0
	imageWidth   = 40.0
	imageHeight  = 20.0
	footerOffset = 30.0
)

// result table column widths: NO, TEST, KRİTER, SONUÇ, UYGUNLUK
var pdfColumns = []float64{10, 66, 36, 46, 32}

// core PDF fonts are cp1252; these runes have no cp1252 code point
var pdfFold = strings.NewReplacer(
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
	"ğ", "g", "Ğ", "G",
	"≥", ">=", "≤", "<=", "→", "->",
)

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w pdfWriter) text(s string) string {
	return w.tr(pdfFold.Replace(s))
}

// Paginated renders exactly one A4 page per room
func Paginated(ctx context.Context, data *hvac.ReportData) ([]byte, error) {
	if data == nil || len(data.Rooms) == 0 {
		return nil, ErrNoRooms
	}
	data = data.Clone()
	logo, stamp, err := reportAssets(data)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pinned := documentTime(data.GeneralInfo)
	pdf.SetCreationDate(pinned)
	pdf.SetModificationDate(pinned)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(data.GeneralInfo.ReportNo, true)
	pdf.SetAuthor(data.GeneralInfo.OrganizationName, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	w := pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	for _, a := range []*asset{logo, stamp} {
		if a == nil {
			continue
		}
		pdf.RegisterImageOptionsReader(a.name, fpdf.ImageOptions{ImageType: a.pdfType()}, bytes.NewReader(a.data))
		if err := pdf.Error(); err != nil {
			return nil, &ExportError{RoomID: data.Rooms[0].ID, Asset: a.name, Err: err}
		}
	}

	for _, sec := range BuildRoomSections(data) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()
		w.page(data.GeneralInfo, sec, logo, stamp)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("render page %d: %w", sec.Index, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w pdfWriter) page(g hvac.GeneralInfo, sec RoomSection, logo, stamp *asset) {
	pdf := w.pdf
	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, w.text("HVAC PERFORMANS KALİFİKASYON RAPORU"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, w.text("ÖZET RAPOR / SUMMARY REPORT"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	info := []Pair{
		{"HASTANE", g.HospitalName},
		{"RAPOR NO", g.ReportNo},
		{"ÖLÇÜM TARİHİ", g.MeasurementDate},
		{"KURULUŞ", g.OrganizationName},
	}
	info = append(info, sec.Header...)
	half := contentW / 2
	for i, p := range info {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(0xE6, 0xE6, 0xE6)
		pdf.CellFormat(half*0.4, lineHeight, w.text(p.Label), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		ln := 0
		if i%2 == 1 {
			ln = 1
		}
		pdf.CellFormat(half*0.6, lineHeight, w.text(p.Value), "1", ln, "L", false, 0, "")
	}
	if len(info)%2 == 1 {
		pdf.Ln(lineHeight)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(0xD9, 0xE1, 0xF2)
	for i, h := range []string{"NO", "TEST ADI", "KABUL KRİTERİ", "TEST SONUCU", "UYGUNLUK"} {
		pdf.CellFormat(pdfColumns[i], lineHeight+1, w.text(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	rows := sec.Rows
	if len(rows) > PDFResultRows {
		rows = rows[:PDFResultRows]
	}
	for _, r := range rows {
		pdf.SetFont("Helvetica", "", 7.5)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(pdfColumns[0], lineHeight, fmt.Sprint(r.Seq), "1", 0, "C", false, 0, "")
		pdf.CellFormat(pdfColumns[1], lineHeight, w.text(r.Test), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColumns[2], lineHeight, w.text(r.Criterion), "1", 0, "C", false, 0, "")
		pdf.CellFormat(pdfColumns[3], lineHeight, w.text(r.Result), "1", 0, "C", false, 0, "")
		w.verdictCell(pdfColumns[4], r.Verdict, 1)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0x44, 0x72, 0xC4)
	pdf.SetTextColor(0xFF, 0xFF, 0xFF)
	pdf.CellFormat(contentW, lineHeight+1, w.text("HAVA TEMİZLİK SINIFI - DIN 1946-4 / ISO 14644-1"), "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentW/2, lineHeight+1, sec.Class, "1", 0, "C", false, 0, "")
	w.verdictCell(contentW/2, sec.Overall, 1)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, lineHeight, w.text(fmt.Sprintf("Önerilen örnekleme noktası: %d", sec.SamplePoints)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	colW := contentW / float64(len(sec.Footer))
	for _, p := range sec.Footer {
		pdf.CellFormat(colW, lineHeight, w.text(p.Label), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	for _, p := range sec.Footer {
		pdf.CellFormat(colW, lineHeight*2, w.text(p.Value), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	footerY := pageH - footerOffset
	if logo != nil {
		pdf.ImageOptions(logo.name, pageMargin, footerY, imageWidth, imageHeight, false, fpdf.ImageOptions{ImageType: logo.pdfType()}, 0, "")
	}
	if stamp != nil {
		pdf.ImageOptions(stamp.name, pageW/2-imageWidth/2, footerY, imageWidth, imageHeight, false, fpdf.ImageOptions{ImageType: stamp.pdfType()}, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(pageW-pageMargin-40, footerY+10)
	pdf.CellFormat(40, lineHeight, sec.PageLabel(), "", 0, "R", false, 0, "")
}

func (w pdfWriter) verdictCell(width float64, v Verdict, ln int) {
	pdf := w.pdf
	switch v {
	case VerdictPass:
		pdf.SetTextColor(0x00, 0xB0, 0x50)
	case VerdictFail:
		pdf.SetTextColor(0xFF, 0x00, 0x00)
	default:
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(width, lineHeight, w.text(v.Label()), "1", ln, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

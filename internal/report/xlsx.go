package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"

	"hvac-pq-report/internal/hvac"
)

var (
	colorBand   = color.RGB(0x44, 0x72, 0xC4)
	colorBand2  = color.RGB(0x70, 0xAD, 0x47)
	colorHeader = color.RGB(0xD9, 0xE1, 0xF2)
	colorLabel  = color.RGB(0xE6, 0xE6, 0xE6)
	colorPass   = color.RGB(0x00, 0xB0, 0x50)
	colorFail   = color.RGB(0xFF, 0x00, 0x00)
)

// columns A..H
var sheetColumns = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

var columnWidths = []float64{6, 30, 18, 18, 12, 12, 12, 12}

type sheetStyles struct {
	title  spreadsheet.CellStyle
	band   spreadsheet.CellStyle
	band2  spreadsheet.CellStyle
	header spreadsheet.CellStyle
	label  spreadsheet.CellStyle
	cell   spreadsheet.CellStyle
	pass   spreadsheet.CellStyle
	fail   spreadsheet.CellStyle
}

func newSheetStyles(wb *spreadsheet.Workbook) sheetStyles {
	ss := wb.StyleSheet
	border := ss.AddBorder()
	border.SetLeft(sml.ST_BorderStyleThin, color.Black)
	border.SetRight(sml.ST_BorderStyleThin, color.Black)
	border.SetTop(sml.ST_BorderStyleThin, color.Black)
	border.SetBottom(sml.ST_BorderStyleThin, color.Black)

	style := func(bold bool, size float64, fg, bg *color.Color, center bool) spreadsheet.CellStyle {
		font := ss.AddFont()
		font.SetName("Arial")
		font.SetSize(size)
		if bold {
			font.SetBold(true)
		}
		if fg != nil {
			font.SetColor(*fg)
		}
		cs := ss.AddCellStyle()
		cs.SetFont(font)
		cs.SetBorder(border)
		cs.SetWrapped(true)
		cs.SetVerticalAlignment(sml.ST_VerticalAlignmentCenter)
		if center {
			cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentCenter)
		} else {
			cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentLeft)
		}
		if bg != nil {
			fill := ss.Fills().AddFill()
			pf := fill.SetPatternFill()
			pf.SetPattern(sml.ST_PatternTypeSolid)
			pf.SetFgColor(*bg)
			cs.SetFill(fill)
		}
		return cs
	}

	white := color.White
	return sheetStyles{
		title:  style(true, 14, nil, nil, true),
		band:   style(true, 12, &white, &colorBand, true),
		band2:  style(true, 10, &white, &colorBand2, true),
		header: style(true, 9, nil, &colorHeader, true),
		label:  style(true, 9, nil, &colorLabel, false),
		cell:   style(false, 9, nil, nil, false),
		pass:   style(true, 9, &colorPass, nil, true),
		fail:   style(true, 9, &colorFail, nil, true),
	}
}

func (s sheetStyles) verdict(v Verdict) spreadsheet.CellStyle {
	switch v {
	case VerdictPass:
		return s.pass
	case VerdictFail:
		return s.fail
	}
	return s.cell
}

// put writes text into the range [from,to] of one row, merging when it spans
// more than one column, and styles every cell of the range.
func put(sheet spreadsheet.Sheet, row int, from, to string, text string, cs spreadsheet.CellStyle) {
	start := fmt.Sprintf("%s%d", from, row)
	sheet.Cell(start).SetString(text)
	inRange := false
	for _, col := range sheetColumns {
		if col == from {
			inRange = true
		}
		if inRange {
			sheet.Cell(fmt.Sprintf("%s%d", col, row)).SetStyle(cs)
		}
		if col == to {
			break
		}
	}
	if from != to {
		sheet.AddMergedCells(start, fmt.Sprintf("%s%d", to, row))
	}
}

// Tabular renders one worksheet per room
func Tabular(ctx context.Context, data *hvac.ReportData) ([]byte, error) {
	if data == nil || len(data.Rooms) == 0 {
		return nil, ErrNoRooms
	}
	data = data.Clone()
	logo, stamp, err := reportAssets(data)
	if err != nil {
		return nil, err
	}

	wb := spreadsheet.New()
	pinned := documentTime(data.GeneralInfo)
	wb.CoreProperties.SetTitle(data.GeneralInfo.ReportNo)
	wb.CoreProperties.SetCreated(pinned)
	wb.CoreProperties.SetModified(pinned)
	styles := newSheetStyles(wb)

	var logoRef, stampRef *common.ImageRef
	if logo != nil {
		if logoRef, err = addWorkbookImage(wb, logo); err != nil {
			return nil, &ExportError{RoomID: data.Rooms[0].ID, Asset: "logo", Err: err}
		}
	}
	if stamp != nil {
		if stampRef, err = addWorkbookImage(wb, stamp); err != nil {
			return nil, &ExportError{RoomID: data.Rooms[0].ID, Asset: "stamp", Err: err}
		}
	}

	for _, sec := range BuildRoomSections(data) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet := wb.AddSheet()
		sheet.SetName(sec.SheetName())
		last := writeSheet(sheet, data.GeneralInfo, sec, styles)

		if logoRef != nil || stampRef != nil {
			dwng := wb.AddDrawing()
			sheet.SetDrawing(dwng)
			if logoRef != nil {
				anchorImage(dwng, *logoRef, 0, int32(last+1))
			}
			if stampRef != nil {
				anchorImage(dwng, *stampRef, 2, int32(last+1))
			}
		}
	}

	var buf bytes.Buffer
	if err := wb.Save(&buf); err != nil {
		return nil, fmt.Errorf("save workbook: %w", err)
	}
	return normalizeZip(buf.Bytes(), pinned)
}

func addWorkbookImage(wb *spreadsheet.Workbook, a *asset) (*common.ImageRef, error) {
	img, err := common.ImageFromBytes(a.data)
	if err != nil {
		return nil, err
	}
	ref, err := wb.AddImage(img)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func anchorImage(dwng spreadsheet.Drawing, ref common.ImageRef, col, row int32) {
	anc := dwng.AddImage(ref, spreadsheet.AnchorTypeTwoCell)
	anc.MoveTo(col, row)
	anc.SetWidthCells(2)
	anc.SetHeightCells(3)
}

// writeSheet fills one room's worksheet and returns the last used row
func writeSheet(sheet spreadsheet.Sheet, g hvac.GeneralInfo, sec RoomSection, st sheetStyles) int {
	for i, w := range columnWidths {
		sheet.Column(uint32(i + 1)).SetWidth(measurement.Distance(w) * measurement.Character)
	}

	sheet.Row(1).SetHeight(24 * measurement.Point)
	put(sheet, 1, "A", "E", "HVAC PERFORMANS KALİFİKASYON RAPORU", st.title)
	put(sheet, 1, "F", "H", g.ReportNo, st.label)
	put(sheet, 2, "A", "E", g.HospitalName, st.cell)
	put(sheet, 2, "F", "H", g.MeasurementDate, st.label)

	put(sheet, 4, "A", "H", "ÖZET RAPOR / SUMMARY REPORT", st.band)
	put(sheet, 5, "A", "H", "TEMİZ ODA, TEMİZ ALAN VE TEST DURUMU / CLEAN ROOM, CLEAN ZONE AND TEST STATUS", st.band2)

	row := 7
	for i := 0; i < len(sec.Header); i += 2 {
		put(sheet, row, "A", "B", sec.Header[i].Label, st.label)
		put(sheet, row, "C", "D", sec.Header[i].Value, st.cell)
		if i+1 < len(sec.Header) {
			put(sheet, row, "E", "F", sec.Header[i+1].Label, st.label)
			put(sheet, row, "G", "H", sec.Header[i+1].Value, st.cell)
		}
		row++
	}

	row++
	put(sheet, row, "A", "A", "NO", st.header)
	put(sheet, row, "B", "C", "TEST ADI / TEST DESCRIPTION", st.header)
	put(sheet, row, "D", "D", "KABUL KRİTERİ / ACCEPTANCE CRITERIA", st.header)
	put(sheet, row, "E", "F", "TEST SONUCU / TEST RESULTS", st.header)
	put(sheet, row, "G", "H", "UYGUNLUK / COMPLIANCE", st.header)
	sheet.Row(uint32(row)).SetHeight(30 * measurement.Point)

	for _, r := range sec.Rows {
		row++
		sheet.Cell(fmt.Sprintf("A%d", row)).SetNumber(float64(r.Seq))
		sheet.Cell(fmt.Sprintf("A%d", row)).SetStyle(st.header)
		put(sheet, row, "B", "C", r.Test, st.cell)
		put(sheet, row, "D", "D", r.Criterion, st.cell)
		put(sheet, row, "E", "F", r.Result, st.cell)
		put(sheet, row, "G", "H", r.Verdict.Label(), st.verdict(r.Verdict))
	}

	row += 2
	put(sheet, row, "A", "H", "HAVA TEMİZLİK SINIFI", st.band)
	row++
	put(sheet, row, "A", "H", "DIN 1946-4 / ISO 14644-1", st.band2)
	row++
	put(sheet, row, "A", "H", sec.Class, st.title)
	row++
	put(sheet, row, "A", "D", "GENEL SONUÇ / OVERALL RESULT", st.label)
	put(sheet, row, "E", "H", sec.Overall.Label(), st.verdict(sec.Overall))
	row++
	put(sheet, row, "A", "D", "ÖNERİLEN ÖRNEKLEME NOKTASI / SAMPLE POINTS", st.label)
	put(sheet, row, "E", "H", fmt.Sprint(sec.SamplePoints), st.cell)

	row += 2
	for i := 0; i < len(sec.Footer); i += 2 {
		put(sheet, row, "A", "B", sec.Footer[i].Label, st.label)
		put(sheet, row, "C", "D", sec.Footer[i].Value, st.cell)
		if i+1 < len(sec.Footer) {
			put(sheet, row, "E", "F", sec.Footer[i+1].Label, st.label)
			put(sheet, row, "G", "H", sec.Footer[i+1].Value, st.cell)
		}
		row++
	}
	put(sheet, row, "G", "H", sec.PageLabel(), st.cell)
	return row
}

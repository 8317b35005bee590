package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/common"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"hvac-pq-report/internal/hvac"
)

// Document renders the report as a Word file, one section per room separated by page breaks
func Document(ctx context.Context, data *hvac.ReportData) ([]byte, error) {
	if data == nil || len(data.Rooms) == 0 {
		return nil, ErrNoRooms
	}
	data = data.Clone()
	logo, stamp, err := reportAssets(data)
	if err != nil {
		return nil, err
	}

	doc := document.New()
	pinned := documentTime(data.GeneralInfo)
	doc.CoreProperties.SetTitle(data.GeneralInfo.ReportNo)
	doc.CoreProperties.SetCreated(pinned)
	doc.CoreProperties.SetModified(pinned)

	var logoRef, stampRef *common.ImageRef
	if logo != nil {
		if logoRef, err = addDocumentImage(doc, logo); err != nil {
			return nil, &ExportError{RoomID: data.Rooms[0].ID, Asset: "logo", Err: err}
		}
	}
	if stamp != nil {
		if stampRef, err = addDocumentImage(doc, stamp); err != nil {
			return nil, &ExportError{RoomID: data.Rooms[0].ID, Asset: "stamp", Err: err}
		}
	}

	// drawing ids are assigned in document order instead of unioffice's random ones
	var drawingID uint32
	for _, sec := range BuildRoomSections(data) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sec.Index > 1 {
			doc.AddParagraph().AddRun().AddPageBreak()
		}
		writeSection(doc, data.GeneralInfo, sec)

		if logoRef != nil || stampRef != nil {
			run := doc.AddParagraph().AddRun()
			for _, ref := range []*common.ImageRef{logoRef, stampRef} {
				if ref == nil {
					continue
				}
				inl, err := run.AddDrawingInline(*ref)
				if err != nil {
					return nil, &ExportError{RoomID: sec.Room.ID, Asset: "image", Err: err}
				}
				drawingID++
				inl.X().DocPr.IdAttr = drawingID
				inl.SetSize(imageWidth*measurement.Millimeter, imageHeight*measurement.Millimeter)
				run.AddTab()
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return normalizeZip(buf.Bytes(), pinned)
}

func addDocumentImage(doc *document.Document, a *asset) (*common.ImageRef, error) {
	img, err := common.ImageFromBytes(a.data)
	if err != nil {
		return nil, err
	}
	ref, err := doc.AddImage(img)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func heading(doc *document.Document, text string, size float64) {
	p := doc.AddParagraph()
	p.Properties().SetAlignment(wml.ST_JcCenter)
	r := p.AddRun()
	r.Properties().SetBold(true)
	r.Properties().SetSize(measurement.Distance(size) * measurement.Point)
	r.AddText(text)
}

func textCell(row document.Row, text string, bold bool, c *color.Color) {
	cell := row.AddCell()
	r := cell.AddParagraph().AddRun()
	if bold {
		r.Properties().SetBold(true)
	}
	if c != nil {
		r.Properties().SetColor(*c)
	}
	r.AddText(text)
}

func pairTable(doc *document.Document, pairs []Pair) {
	tbl := doc.AddTable()
	tbl.Properties().SetWidthPercent(100)
	tbl.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, measurement.Zero)
	for i := 0; i < len(pairs); i += 2 {
		row := tbl.AddRow()
		textCell(row, pairs[i].Label, true, nil)
		textCell(row, pairs[i].Value, false, nil)
		if i+1 < len(pairs) {
			textCell(row, pairs[i+1].Label, true, nil)
			textCell(row, pairs[i+1].Value, false, nil)
		}
	}
}

func writeSection(doc *document.Document, g hvac.GeneralInfo, sec RoomSection) {
	heading(doc, "HVAC PERFORMANS KALİFİKASYON RAPORU", 14)
	heading(doc, fmt.Sprintf("%s - %s", g.HospitalName, g.ReportNo), 10)

	pairTable(doc, sec.Header)
	doc.AddParagraph()

	tbl := doc.AddTable()
	tbl.Properties().SetWidthPercent(100)
	tbl.Properties().Borders().SetAll(wml.ST_BorderSingle, color.Auto, measurement.Zero)
	hdr := tbl.AddRow()
	for _, h := range []string{"NO", "TEST ADI", "KABUL KRİTERİ", "TEST SONUCU", "UYGUNLUK"} {
		textCell(hdr, h, true, nil)
	}
	for _, r := range sec.Rows {
		row := tbl.AddRow()
		textCell(row, fmt.Sprint(r.Seq), false, nil)
		textCell(row, r.Test, false, nil)
		textCell(row, r.Criterion, false, nil)
		textCell(row, r.Result, false, nil)
		textCell(row, r.Verdict.Label(), true, verdictColor(r.Verdict))
	}

	p := doc.AddParagraph()
	run := p.AddRun()
	run.Properties().SetBold(true)
	run.AddText(fmt.Sprintf("HAVA TEMİZLİK SINIFI (DIN 1946-4 / ISO 14644-1): %s", sec.Class))
	p = doc.AddParagraph()
	run = p.AddRun()
	run.Properties().SetBold(true)
	if c := verdictColor(sec.Overall); c != nil {
		run.Properties().SetColor(*c)
	}
	run.AddText("GENEL SONUÇ: " + sec.Overall.Label())
	doc.AddParagraph().AddRun().AddText(fmt.Sprintf("Önerilen örnekleme noktası: %d", sec.SamplePoints))

	pairTable(doc, sec.Footer)
	foot := doc.AddParagraph()
	foot.Properties().SetAlignment(wml.ST_JcRight)
	foot.AddRun().AddText(sec.PageLabel())
}

func verdictColor(v Verdict) *color.Color {
	switch v {
	case VerdictPass:
		return &colorPass
	case VerdictFail:
		return &colorFail
	}
	return nil
}

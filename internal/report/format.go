package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"hvac-pq-report/internal/hvac"
)

// Format is an export file type
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts the lower-case extension name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF, FormatDOCX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q: %w", s, hvac.ErrValidation)
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

func (f Format) FileExtension() string {
	return "." + string(f)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName derives the download name from the report number
func FileName(info hvac.GeneralInfo, f Format) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(info.ReportNo, "_"), "_")
	if base == "" {
		base = "hvac-report"
	}
	return base + f.FileExtension()
}

// documentTime is the only timestamp written into an export: the measurement
// date, or a fixed epoch when the date does not parse.
func documentTime(info hvac.GeneralInfo) time.Time {
	if t, err := time.Parse("2006-01-02", strings.TrimSpace(info.MeasurementDate)); err == nil {
		return t.UTC()
	}
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
}

// normalizeZip rewrites an OOXML package so every entry carries the same
// modification time.
func normalizeZip(b []byte, mod time.Time) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: mod})
		if err != nil {
			return nil, err
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"hvac-pq-report/internal/hvac"
)

var (
	// ErrExport marks a renderer failure; match it with errors.Is
	ErrExport = errors.New("export failed")

	// ErrNoRooms is returned for a report without rooms instead of an empty file
	ErrNoRooms = errors.New("report has no rooms")
)

// ExportError names the room and embedded asset that could not be rendered
type ExportError struct {
	RoomID string
	Asset  string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export room %s asset %s: %v", e.RoomID, e.Asset, e.Err)
}

func (e *ExportError) Unwrap() []error { return []error{ErrExport, e.Err} }

// asset is a decoded logo or stamp
type asset struct {
	name   string
	data   []byte
	format string
	width  int
	height int
}

// pdfType is the fpdf image type name for the asset
func (a *asset) pdfType() string {
	if a.format == "jpeg" {
		return "JPG"
	}
	return "PNG"
}

// decodeDataURL parses a base64 "data:image/...;base64," URL and checks that
// the payload is a PNG or JPEG image.
func decodeDataURL(name, s string) (*asset, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("not a base64 image data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return &asset{name: name, data: raw, format: format, width: cfg.Width, height: cfg.Height}, nil
}

// reportAssets decodes the optional logo and stamp. A malformed image is
// attributed to the first room it would have been placed on.
func reportAssets(data *hvac.ReportData) (logo, stamp *asset, err error) {
	roomID := ""
	if len(data.Rooms) > 0 {
		roomID = data.Rooms[0].ID
	}
	if data.GeneralInfo.Logo != "" {
		logo, err = decodeDataURL("logo", data.GeneralInfo.Logo)
		if err != nil {
			return nil, nil, &ExportError{RoomID: roomID, Asset: "logo", Err: err}
		}
	}
	if data.GeneralInfo.Stamp != "" {
		stamp, err = decodeDataURL("stamp", data.GeneralInfo.Stamp)
		if err != nil {
			return nil, nil, &ExportError{RoomID: roomID, Asset: "stamp", Err: err}
		}
	}
	return logo, stamp, nil
}

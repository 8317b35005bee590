package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"hvac-pq-report/internal/hvac"
)

// loadReport reads a report from a .json file or from YAML and refreshes
// every derived value
func loadReport(path string) (*hvac.ReportData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	data := hvac.NewReportData()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, data)
	default:
		err = yaml.Unmarshal(b, data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if data.TestData == nil {
		data.TestData = make(map[string]*hvac.RoomTestData)
	}
	for i, r := range data.Rooms {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("room %d (%s) has no id: %w", i+1, r.RoomNo, hvac.ErrValidation)
		}
	}
	if err := data.Recompute(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

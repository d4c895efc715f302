package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Meta    RunMetadata `json:"meta"`
	Samples *Series     `json:"samples"`
}

// ExportJSON writes a run's metadata and samples as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Meta: *meta, Samples: series})
}

// CopySamples streams the raw samples CSV of a run to w.
func (s *Store) CopySamples(w io.Writer, runID string) error {
	f, err := os.Open(s.Path(runID, samplesFile))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Slot    SlotMetadata         `json:"slot"`
	Record  string               `json:"record"`
	Ticks   []int                `json:"ticks"`
	Series  map[string][]float64 `json:"series"`
	Samples int                  `json:"samples"`
}

// ExportJSON writes one slot, record and history included, as indented JSON.
func (s *Store) ExportJSON(out io.Writer, slotID string) error {
	meta, err := s.Load(slotID)
	if err != nil {
		return err
	}
	record, err := s.LoadRecord(slotID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(slotID)
	if err != nil {
		return err
	}

	data := ExportData{
		Slot:    *meta,
		Record:  record,
		Ticks:   series.Ticks,
		Series:  series.Columns,
		Samples: series.Len(),
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Steps  int           `json:"steps"`
	Frames []FrameRecord `json:"frames"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []FrameRecord) error {
	data := ExportData{
		Run:    meta,
		Steps:  len(frames),
		Frames: frames,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes frames in the same layout as frames.csv.
func ExportCSV(w io.Writer, frames []FrameRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(frameHeader); err != nil {
		return err
	}
	for _, f := range frames {
		if err := cw.Write(f.row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

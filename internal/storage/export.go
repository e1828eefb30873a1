package storage

import (
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/mat"
)

type ExportData struct {
	Metadata  RunMetadata `json:"metadata"`
	Grid      [][]Float   `json:"grid"`
	History   [][]Float   `json:"history,omitempty"`
	Residuals []Float     `json:"residuals"`
}

func toFloats(v []float64) []Float {
	out := make([]Float, len(v))
	for i, x := range v {
		out[i] = Float(x)
	}
	return out
}

func rows(m mat.Matrix) [][]Float {
	r, c := m.Dims()
	out := make([][]Float, r)
	row := make([]float64, c)
	for i := range out {
		out[i] = toFloats(mat.Row(row, i, m))
	}
	return out
}

// Export gathers everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	grid, err := s.LoadGrid(runID)
	if err != nil {
		return nil, err
	}
	hist, err := s.LoadHistory(runID)
	if err != nil {
		return nil, err
	}
	res, err := s.LoadResiduals(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Metadata:  *meta,
		Grid:      rows(grid),
		Residuals: toFloats(res),
	}
	for _, series := range hist.Values {
		data.History = append(data.History, toFloats(series))
	}
	return data, nil
}

// ExportJSON writes a run as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

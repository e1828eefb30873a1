package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/relaxlab/internal/experiment"
	"github.com/san-kum/relaxlab/internal/field"
	"github.com/san-kum/relaxlab/internal/relax"
	"gonum.org/v1/gonum/mat"
)

const (
	metadataFile  = "metadata.json"
	gridFile      = "grid.csv"
	fixedFile     = "fixed.csv"
	historyFile   = "history.csv"
	residualsFile = "residuals.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Sample is a history point as stored on disk.
type Sample struct {
	Name string `json:"name"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type RunMetadata struct {
	ID            string    `json:"id"`
	Scenario      string    `json:"scenario"`
	Description   string    `json:"description"`
	Timestamp     time.Time `json:"timestamp"`
	Size          int       `json:"size"`
	Alpha         Float     `json:"alpha"`
	Tolerance     Float     `json:"tolerance"`
	MaxSweeps     int       `json:"max_sweeps"`
	Traversal     string    `json:"traversal"`
	Workers       int       `json:"workers"`
	Sweeps        int       `json:"sweeps"`
	Converged     bool      `json:"converged"`
	Status        string    `json:"status"`
	FinalResidual Float     `json:"final_residual"`
	Elapsed       float64   `json:"elapsed_seconds"`
	Min           Float     `json:"min"`
	Max           Float     `json:"max"`
	Mean          Float     `json:"mean"`
	Samples       []Sample  `json:"samples,omitempty"`
}

func sampleName(i int) string {
	if i < len(relax.SampleNames) {
		return relax.SampleNames[i]
	}
	return fmt.Sprintf("p%d", i)
}

// Save writes an outcome to a new run directory and returns its id.
func (s *Store) Save(out *experiment.Outcome) (string, error) {
	prob, res := out.Problem, out.Result
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", prob.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	cfg := prob.Config
	stats := field.Stats(res.Grid)
	meta := RunMetadata{
		ID:            runID,
		Scenario:      prob.Name,
		Description:   prob.Description,
		Timestamp:     now,
		Size:          prob.Size(),
		Alpha:         Float(cfg.Alpha),
		Tolerance:     Float(cfg.Tolerance),
		MaxSweeps:     cfg.MaxSweeps,
		Traversal:     cfg.Traversal.String(),
		Workers:       cfg.Workers,
		Sweeps:        res.Sweeps,
		Converged:     res.Converged,
		Status:        res.Status(),
		FinalResidual: Float(res.FinalResidual()),
		Elapsed:       out.Elapsed.Seconds(),
		Min:           Float(stats.Min),
		Max:           Float(stats.Max),
		Mean:          Float(stats.Mean),
	}
	if res.History != nil {
		for i, p := range res.History.Points {
			meta.Samples = append(meta.Samples, Sample{Name: sampleName(i), Row: p.Row, Col: p.Col})
		}
	}

	if err := writeRun(runDir, meta, out); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, out *experiment.Outcome) error {
	prob, res := out.Problem, out.Result
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return err
	}
	if err := writeMatrix(filepath.Join(runDir, gridFile), res.Grid); err != nil {
		return err
	}
	if err := writeMatrix(filepath.Join(runDir, fixedFile), fixedMatrix(prob.Fixed, prob.Size())); err != nil {
		return err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), meta.Samples, res.History); err != nil {
		return err
	}
	return writeResiduals(filepath.Join(runDir, residualsFile), res.Residuals)
}

func fixedMatrix(f relax.Fixed, n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	b := relax.Border(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if b.Fixed(i, j) || (f != nil && f.Fixed(i, j)) {
				m.Set(i, j, 1)
			}
		}
	}
	return m
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeMatrix(path string, m mat.Matrix) error {
	r, c := m.Dims()
	records := make([][]string, r)
	for i := 0; i < r; i++ {
		row := make([]string, c)
		for j := 0; j < c; j++ {
			row[j] = formatFloat(m.At(i, j))
		}
		records[i] = row
	}
	return writeCSV(path, records)
}

func writeHistory(path string, samples []Sample, h *relax.History) error {
	header := []string{"sweep"}
	for _, s := range samples {
		header = append(header, s.Name)
	}
	records := [][]string{header}
	for k := 0; k < h.Len(); k++ {
		row := []string{strconv.Itoa(k + 1)}
		for i := range h.Values {
			row = append(row, formatFloat(h.Values[i][k]))
		}
		records = append(records, row)
	}
	return writeCSV(path, records)
}

func writeResiduals(path string, residuals []float64) error {
	records := [][]string{{"sweep", "max_residual"}}
	for i, r := range residuals {
		records = append(records, []string{strconv.Itoa(i + 1), formatFloat(r)})
	}
	return writeCSV(path, records)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readMatrix(path string) (*mat.Dense, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty grid", path)
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, record := range records {
		if len(record) != cols {
			return nil, fmt.Errorf("%s: row %d has %d values, want %d", path, i, len(record), cols)
		}
		for _, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, i, err)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(rows, cols, data), nil
}

// LoadGrid reads the solved grid of a run.
func (s *Store) LoadGrid(runID string) (*mat.Dense, error) {
	return readMatrix(filepath.Join(s.baseDir, runID, gridFile))
}

// LoadFixed reads the fixed positions of a run, border included.
func (s *Store) LoadFixed(runID string) (*relax.Mask, error) {
	m, err := readMatrix(filepath.Join(s.baseDir, runID, fixedFile))
	if err != nil {
		return nil, err
	}
	return relax.MaskFromDense(m), nil
}

// LoadHistory reads the sample history of a run. Points are taken from
// the run metadata.
func (s *Store) LoadHistory(runID string) (*relax.History, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := readCSV(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}

	h := &relax.History{
		Points: make([]relax.Point, len(meta.Samples)),
		Values: make([][]float64, len(meta.Samples)),
	}
	for i, smp := range meta.Samples {
		h.Points[i] = relax.Point{Row: smp.Row, Col: smp.Col}
	}
	for i := 1; i < len(records); i++ {
		record := records[i]
		for k := range h.Values {
			if k+1 >= len(record) {
				break
			}
			v, err := strconv.ParseFloat(record[k+1], 64)
			if err != nil {
				return nil, fmt.Errorf("history row %d: %w", i, err)
			}
			h.Values[k] = append(h.Values[k], v)
		}
	}
	return h, nil
}

// LoadResiduals reads the per-sweep maximum residuals of a run.
func (s *Store) LoadResiduals(runID string) ([]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, residualsFile))
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			return nil, fmt.Errorf("residual row %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

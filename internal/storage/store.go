package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	samplesFile   = "samples.csv"
	particlesFile = "particles.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string               `json:"id"`
	Preset      string               `json:"preset"`
	Timestamp   time.Time            `json:"timestamp"`
	Seed        int64                `json:"seed"`
	Dt          float64              `json:"dt"`
	Steps       int                  `json:"steps"`
	StepsTaken  int                  `json:"steps_taken"`
	Particles   int                  `json:"particles"`
	Boundary    physics.BoundaryView `json:"boundary"`
	Gravity     dynamo.Vec2          `json:"gravity"`
	Stats       physics.Stats        `json:"stats"`
	MetricNames []string             `json:"metric_names"`
	Metrics     map[string]float64   `json:"metrics"`
}

// Run is everything Save persists about one headless run.
type Run struct {
	Preset string
	Seed   int64
	Dt     float64
	Steps  int
	Result *sim.Result
	System *physics.System
}

// Save writes the run directory and returns its id.
func (s *Store) Save(run Run) (string, error) {
	if run.Result == nil || run.System == nil {
		return "", fmt.Errorf("save run: missing result or system")
	}
	now := s.now()
	name := run.Preset
	if name == "" {
		name = "custom"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	b := run.System.Boundary()
	meta := RunMetadata{
		ID:          runID,
		Preset:      run.Preset,
		Timestamp:   now,
		Seed:        run.Seed,
		Dt:          run.Dt,
		Steps:       run.Steps,
		StepsTaken:  run.Result.StepsTaken,
		Particles:   run.System.Len(),
		Boundary:    physics.BoundaryView{X: b.Center().X, Y: b.Center().Y, Radius: b.Radius()},
		Gravity:     run.System.Gravity(),
		Stats:       run.Result.Stats,
		MetricNames: run.Result.MetricNames,
		Metrics:     run.Result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), run.Result); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), run.System.Particles()); err != nil {
		return "", err
	}
	return runID, nil
}

// createFile writes path through write and reports the close error, which is
// where a failed flush to disk shows up.
func createFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, write)
}

func writeAndClose(wc io.WriteCloser, write func(w io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

func writeJSON(path string, v any) error {
	return createFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeSamples(path string, result *sim.Result) error {
	return createFile(path, func(out io.Writer) error {
		return encodeSamples(out, result)
	})
}

func encodeSamples(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	header := append([]string{"time", "count"}, result.MetricNames...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range result.Samples {
		row := []string{formatFloat(s.Time), strconv.Itoa(s.Count)}
		for _, v := range s.Values {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeParticles(path string, particles []physics.Particle) error {
	return createFile(path, func(out io.Writer) error {
		return encodeParticles(out, particles)
	})
}

func encodeParticles(out io.Writer, particles []physics.Particle) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "x", "y", "prev_x", "prev_y", "radius", "mass", "color"}); err != nil {
		return err
	}
	for i := range particles {
		p := &particles[i]
		pos, prev := p.Position(), p.PreviousPosition()
		row := []string{
			strconv.FormatUint(p.ID(), 10),
			formatFloat(pos.X), formatFloat(pos.Y),
			formatFloat(prev.X), formatFloat(prev.Y),
			formatFloat(p.Radius()), formatFloat(p.Mass()),
			p.Color(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, oldest first. Directories without a valid
// metadata file are skipped.
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Path returns the location of a file inside a run directory.
func (s *Store) Path(runID, file string) string {
	return filepath.Join(s.baseDir, runID, file)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/parallax/internal/sim"
)

// ErrRunNotFound is returned when a run id has no directory.
var ErrRunNotFound = errors.New("run not found")

var frameHeader = []string{
	"frame", "phase", "earth_x", "earth_y",
	"parallax_x", "parallax_y", "offset_x", "offset_y", "highlight",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Frames      int                `json:"frames"`
	Speed       float64            `json:"speed"`
	OrbitRadius float64            `json:"orbit_radius"`
	DistanceX   float64            `json:"distance_x"`
	DistanceY   float64            `json:"distance_y"`
	Metrics     map[string]float64 `json:"metrics"`
}

// FrameRecord is one row of frames.csv.
type FrameRecord struct {
	Frame     int     `json:"frame"`
	Phase     float64 `json:"phase"`
	EarthX    float64 `json:"earth_x"`
	EarthY    float64 `json:"earth_y"`
	ParallaxX float64 `json:"parallax_x"`
	ParallaxY float64 `json:"parallax_y"`
	OffsetX   float64 `json:"offset_x"`
	OffsetY   float64 `json:"offset_y"`
	Highlight float64 `json:"highlight"`
}

// Record flattens a frame. Offsets are taken on the reference strip.
func Record(f sim.Frame) FrameRecord {
	return FrameRecord{
		Frame:     f.Index,
		Phase:     f.Phase,
		EarthX:    f.Earth.X,
		EarthY:    f.Earth.Y,
		ParallaxX: f.Star(sim.StarX).Parallax,
		ParallaxY: f.Star(sim.StarY).Parallax,
		OffsetX:   sim.CelestialOffset(f, sim.StarX, sim.ReferenceStripWidth),
		OffsetY:   sim.CelestialOffset(f, sim.StarY, sim.ReferenceStripWidth),
		Highlight: f.Highlight.Intensity,
	}
}

func (r FrameRecord) row() []string {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		strconv.Itoa(r.Frame), ff(r.Phase), ff(r.EarthX), ff(r.EarthY),
		ff(r.ParallaxX), ff(r.ParallaxY), ff(r.OffsetX), ff(r.OffsetY), ff(r.Highlight),
	}
}

// Save writes metadata.json and frames.csv for a finished run and returns
// its id.
func (s *Store) Save(name string, seed int64, result *sim.Result, metrics map[string]float64) (string, error) {
	if result == nil || len(result.Frames) == 0 {
		return "", sim.ErrNoFrames
	}
	now := time.Now()
	runID, runDir, err := s.newRunDir(name, now)
	if err != nil {
		return "", err
	}

	last := result.Frames[len(result.Frames)-1]
	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   now,
		Seed:        seed,
		Frames:      len(result.Frames),
		Speed:       last.Speed,
		OrbitRadius: last.OrbitRadius,
		DistanceX:   last.Star(sim.StarX).Distance,
		DistanceY:   last.Star(sim.StarY).Distance,
		Metrics:     metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "frames.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range result.Frames {
		if err := w.Write(Record(f).row()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", csvPath, err)
	}

	return runID, nil
}

// newRunDir creates a fresh directory for a run, adding a suffix when two
// runs share a name and a second.
func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

// List returns the metadata of every run, oldest first.
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", metaPath, err)
	}

	return &meta, nil
}

// LoadFrames reads frames.csv back. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	csvPath := filepath.Join(s.baseDir, runID, "frames.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}
		idx, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		vals := make([]float64, len(record)-1)
		ok := true
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		frames = append(frames, FrameRecord{
			Frame: idx, Phase: vals[0], EarthX: vals[1], EarthY: vals[2],
			ParallaxX: vals[3], ParallaxY: vals[4], OffsetX: vals[5], OffsetY: vals[6],
			Highlight: vals[7],
		})
	}

	return frames, nil
}

// Column extracts one named column from frames.
func Column(frames []FrameRecord, name string) ([]float64, error) {
	pick := map[string]func(FrameRecord) float64{
		"phase":      func(r FrameRecord) float64 { return r.Phase },
		"earth_x":    func(r FrameRecord) float64 { return r.EarthX },
		"earth_y":    func(r FrameRecord) float64 { return r.EarthY },
		"parallax_x": func(r FrameRecord) float64 { return r.ParallaxX },
		"parallax_y": func(r FrameRecord) float64 { return r.ParallaxY },
		"offset_x":   func(r FrameRecord) float64 { return r.OffsetX },
		"offset_y":   func(r FrameRecord) float64 { return r.OffsetY },
		"highlight":  func(r FrameRecord) float64 { return r.Highlight },
	}[name]
	if pick == nil {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := make([]float64, len(frames))
	for i, r := range frames {
		out[i] = pick(r)
	}
	return out, nil
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
	"github.com/tfrere/joshua-exhibition-graph/internal/layout"
)

// Store persists layout runs under a base directory, one subdirectory
// per run: metadata.json, positions.csv, links.csv, displacement.csv.
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
	ID            string             `json:"id"`
	Graph         string             `json:"graph"`
	Timestamp     time.Time          `json:"timestamp"`
	Nodes         int                `json:"nodes"`
	Links         int                `json:"links"`
	MaxDistance   float64            `json:"max_distance"`
	VelocityDecay float64            `json:"velocity_decay"`
	StepsTaken    int                `json:"steps_taken"`
	Converged     bool               `json:"converged"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes a finished run. graphName is a label (file path or
// generator description), ids the per-node identifiers parallel to
// result.Nodes.
func (s *Store) Save(graphName string, ids []string, maxDistance, velocityDecay float64, links []force.Link, result *layout.Result) (string, error) {
	runID := fmt.Sprintf("layout_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Graph:         graphName,
		Timestamp:     time.Now(),
		Nodes:         len(result.Nodes),
		Links:         len(links),
		MaxDistance:   maxDistance,
		VelocityDecay: velocityDecay,
		StepsTaken:    result.StepsTaken,
		Converged:     result.Converged,
		Metrics:       result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writePositions(filepath.Join(runDir, "positions.csv"), ids, result.Nodes); err != nil {
		return "", err
	}
	if err := writeLinks(filepath.Join(runDir, "links.csv"), links); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, "displacement.csv"), result.Displacement); err != nil {
		return "", err
	}

	return runID, nil
}

func writePositions(path string, ids []string, nodes []force.Node) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"id", "x", "y", "z", "vx", "vy", "vz", "charge"}); err != nil {
		return err
	}

	for i, n := range nodes {
		id := strconv.Itoa(i)
		if i < len(ids) && ids[i] != "" {
			id = ids[i]
		}
		row := []string{
			id,
			f(n.Position.X), f(n.Position.Y), f(n.Position.Z),
			f(n.Velocity.X), f(n.Velocity.Y), f(n.Velocity.Z),
			f(n.Charge),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeLinks(path string, links []force.Link) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"source", "target"}); err != nil {
		return err
	}
	for _, l := range links {
		if err := w.Write([]string{strconv.Itoa(l.Source), strconv.Itoa(l.Target)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeSeries(path string, values []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"step", "displacement"}); err != nil {
		return err
	}
	for i, v := range values {
		if err := w.Write([]string{strconv.Itoa(i), f(v)}); err != nil {
			return err
		}
	}
	return w.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPositions reads a run's final node state back.
func (s *Store) LoadPositions(runID string) ([]string, []force.Node, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return []string{}, []force.Node{}, nil
	}

	ids := make([]string, 0, len(records)-1)
	nodes := make([]force.Node, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 8 {
			continue
		}
		vals := make([]float64, 7)
		ok := true
		for i := range vals {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		ids = append(ids, rec[0])
		nodes = append(nodes, force.Node{
			Position: force.Vec3{X: vals[0], Y: vals[1], Z: vals[2]},
			Velocity: force.Vec3{X: vals[3], Y: vals[4], Z: vals[5]},
			Charge:   vals[6],
		})
	}
	return ids, nodes, nil
}

// LoadLinks reads a run's link topology back. Runs saved before links
// were persisted have no links.csv; those return an empty slice.
func (s *Store) LoadLinks(runID string) ([]force.Link, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "links.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return []force.Link{}, nil
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	links := make([]force.Link, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		src, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		tgt, err := strconv.Atoi(rec[1])
		if err != nil {
			continue
		}
		links = append(links, force.Link{Source: src, Target: tgt})
	}
	return links, nil
}

// LoadSeries reads the per-step displacement series of a run.
func (s *Store) LoadSeries(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "displacement.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

package export

import (
	"encoding/json"
	"os"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
)

// PositionRecord is the per-node shape the rendering client consumes.
type PositionRecord struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Charge   float64 `json:"charge"`
	Velocity struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"velocity"`
}

// PositionsJSON writes the final node placement as a flat array, one
// record per node, ids parallel to nodes.
func PositionsJSON(path string, ids []string, nodes []force.Node) error {
	records := make([]PositionRecord, len(nodes))
	for i, n := range nodes {
		rec := PositionRecord{
			X:      n.Position.X,
			Y:      n.Position.Y,
			Z:      n.Position.Z,
			Charge: n.Charge,
		}
		if i < len(ids) {
			rec.ID = ids[i]
		}
		rec.Velocity.X = n.Velocity.X
		rec.Velocity.Y = n.Velocity.Y
		rec.Velocity.Z = n.Velocity.Z
		records[i] = rec
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

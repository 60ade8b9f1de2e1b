package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/sim"
)

// Meta describes a finished run. Traces are written for inspection only;
// nothing reads them back.
type Meta struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	FrameDt   float64            `json:"frame_dt"`
	MaxTime   float64            `json:"max_time"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewMeta(result *sim.Result, cfg sim.Config, params map[string]float64) Meta {
	return Meta{
		ID:        uuid.New().String(),
		Scenario:  result.Scenario,
		Timestamp: time.Now().UTC(),
		FrameDt:   cfg.FrameDt,
		MaxTime:   cfg.MaxTime,
		Params:    params,
		Metrics:   result.Metrics,
	}
}

type ExportData struct {
	Meta   Meta                    `json:"meta"`
	Steps  int                     `json:"steps"`
	Times  []float64               `json:"times"`
	Frames []dynamo.Snapshot       `json:"frames"`
	Events []dynamo.CollisionEvent `json:"events"`
}

func WriteJSON(w io.Writer, meta Meta, result *sim.Result) error {
	data := ExportData{
		Meta:   meta,
		Steps:  len(result.Times),
		Times:  result.Times,
		Frames: result.Snapshots,
		Events: result.Events,
	}
	if data.Events == nil {
		data.Events = []dynamo.CollisionEvent{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

var csvHeader = []string{
	"time", "elapsed", "phase",
	"x1", "v1", "x2", "v2",
	"momentum_before", "momentum_after",
	"kinetic_before", "kinetic_after",
	"triggered",
}

// WriteCSV writes one row per recorded frame. Single-body runs leave the
// second body's columns empty.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i, s := range result.Snapshots {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(s.Elapsed),
			s.Phase.String(),
			formatFloat(s.Bodies[0].Position),
			formatFloat(s.Bodies[0].Velocity),
			"", "",
			formatFloat(s.MomentumBefore),
			formatFloat(s.MomentumAfter),
			formatFloat(s.KineticBefore),
			formatFloat(s.KineticAfter),
			strconv.FormatBool(s.HasTriggered),
		}
		if s.Count > 1 {
			row[5] = formatFloat(s.Bodies[1].Position)
			row[6] = formatFloat(s.Bodies[1].Velocity)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/physics"
	"github.com/san-kum/collisionlab/internal/sim"
)

func runScenario(t *testing.T, sc dynamo.Scenario, p dynamo.Params) (*sim.Result, sim.Config) {
	t.Helper()
	cfg := sim.DefaultConfig()
	result, err := sim.New(sc, p).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result, cfg
}

func elasticRun(t *testing.T) (*sim.Result, sim.Config) {
	p := dynamo.DefaultParams()
	return runScenario(t, physics.NewElastic(dynamo.NewBody(4, 5, 300), dynamo.NewBody(4, -3, 700), p), p)
}

func TestWriteJSON(t *testing.T) {
	result, cfg := elasticRun(t)
	meta := NewMeta(result, cfg, map[string]float64{"mass1": 4})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, result); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, err := uuid.Parse(data.Meta.ID); err != nil {
		t.Errorf("run id %q is not a uuid: %v", data.Meta.ID, err)
	}
	if data.Meta.Scenario != "elastic" {
		t.Errorf("scenario = %q", data.Meta.Scenario)
	}
	if data.Steps != len(result.Times) || len(data.Frames) != len(result.Snapshots) {
		t.Errorf("steps %d frames %d, want %d", data.Steps, len(data.Frames), len(result.Times))
	}
	if len(data.Events) != 1 || data.Events[0].Kind != dynamo.EventPair {
		t.Errorf("events = %+v", data.Events)
	}
}

func TestNewMetaUniqueIDs(t *testing.T) {
	result, cfg := elasticRun(t)
	if NewMeta(result, cfg, nil).ID == NewMeta(result, cfg, nil).ID {
		t.Error("two runs share an id")
	}
}

func TestWriteCSV(t *testing.T) {
	result, _ := elasticRun(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != len(result.Snapshots)+1 {
		t.Fatalf("rows = %d, want %d", len(records), len(result.Snapshots)+1)
	}
	if strings.Join(records[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", records[0])
	}
	if records[1][2] != "idle" || records[len(records)-1][2] != "stopped" {
		t.Errorf("phases %s .. %s", records[1][2], records[len(records)-1][2])
	}
	if records[len(records)-1][11] != "true" {
		t.Error("final row not triggered")
	}
}

func TestWriteCSVSingleBody(t *testing.T) {
	p := dynamo.DefaultParams()
	result, _ := runScenario(t, physics.NewWallBounce(dynamo.NewBody(2, 3, 300), dynamo.Wall{Position: 763.2}, p), p)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if records[1][5] != "" || records[1][6] != "" {
		t.Errorf("second body columns = %q, %q", records[1][5], records[1][6])
	}
}

func TestTraceSVG(t *testing.T) {
	p := dynamo.DefaultParams()
	result, _ := runScenario(t, physics.NewWallBounce(dynamo.NewBody(2, 3, 300), dynamo.Wall{Position: 763.2}, p), p)

	svg := TraceSVG(result, 600, 300)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if strings.Count(svg, "<path") != 1 {
		t.Errorf("expected one body path")
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("wall line missing")
	}
	if strings.Count(svg, "<circle") != len(result.Events) {
		t.Errorf("expected %d event markers", len(result.Events))
	}

	if TraceSVG(&sim.Result{}, 10, 10) != "" {
		t.Error("empty result produced output")
	}
}

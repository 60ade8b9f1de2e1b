package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/collisionlab/internal/config"
	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/experiment"
	"github.com/san-kum/collisionlab/internal/sim"
)

// Point is one evaluated combination of parameter values.
type Point struct {
	Params  map[string]float64
	Value   float64
	Events  int
	Stopped bool
}

// GridSearch evaluates every combination of the given parameter values and
// ranks the runs by one metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of runs a search performs.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs the grid on top of base and returns all points, best first.
// Combinations that fail validation are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
) ([]Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d value ranges", len(g.paramNames), len(g.ranges))
	}

	var combos []map[string]float64
	g.searchRecursive(0, make(map[string]float64), &combos)

	var (
		sims   []*sim.Simulator
		params []map[string]float64
	)
	for _, combo := range combos {
		cfg := base.Clone()
		if err := applyParams(cfg, combo); err != nil {
			return nil, err
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(reg, nil); err != nil {
			continue
		}
		sims = append(sims, exp.GetSimulator())
		params = append(params, combo)
	}
	if len(sims) == 0 {
		return nil, fmt.Errorf("optim: no valid parameter combination")
	}

	simCfg := sim.DefaultConfig()
	simCfg.FrameDt = base.FrameDt
	simCfg.MaxTime = base.MaxTime
	simCfg.SubStep = base.SubStep

	results, err := sim.NewEnsemble(sims...).Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(results))
	for i, r := range results {
		val, ok := r.Metrics[metricName]
		if !ok {
			return nil, fmt.Errorf("optim: unknown metric %q", metricName)
		}
		points[i] = Point{
			Params:  params[i],
			Value:   val,
			Events:  len(r.Events),
			Stopped: r.FinalPhase == dynamo.Stopped,
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		if g.Maximize {
			return points[i].Value > points[j].Value
		}
		return points[i].Value < points[j].Value
	})
	return points, nil
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(depth+1, newParams, out)
	}
}

func applyParams(cfg *config.Config, params map[string]float64) error {
	for name, v := range params {
		if err := cfg.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// ParseValues reads a value list as "a,b,c" or an inclusive range
// "start:stop:step".
func ParseValues(list string) ([]float64, error) {
	list = strings.TrimSpace(list)
	if strings.Contains(list, ":") {
		parts := strings.Split(list, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("optim: range %q must be start:stop:step", list)
		}
		var nums [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("optim: range %q: %w", list, err)
			}
			nums[i] = v
		}
		start, stop, step := nums[0], nums[1], nums[2]
		if !(step > 0) || stop < start {
			return nil, fmt.Errorf("optim: range %q is empty", list)
		}
		n := int(math.Floor((stop-start)/step+1e-9)) + 1
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = start + float64(i)*step
		}
		return vals, nil
	}

	var vals []float64
	for _, p := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("optim: value %q: %w", p, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

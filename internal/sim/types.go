package sim

import (
	"time"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

// Config controls a headless run. Frames are spaced FrameDt apart on a
// synthetic host clock; the run ends when the clock stops or MaxTime of
// host time has passed. With SubStep set, frames longer than the clamp
// are split into several ticks instead of losing time to the clamp.
type Config struct {
	FrameDt       float64
	MaxTime       float64
	MaxFrames     int
	ValidateState bool
	SubStep       bool
}

const DefaultMaxFrames = 100_000

func DefaultConfig() Config {
	return Config{
		FrameDt:       1.0 / 60,
		MaxTime:       30,
		MaxFrames:     DefaultMaxFrames,
		ValidateState: true,
	}
}

type Result struct {
	Scenario   string
	Snapshots  []dynamo.Snapshot
	Times      []float64
	Events     []dynamo.CollisionEvent
	Metrics    map[string]float64
	Frames     int
	FinalPhase dynamo.Phase
	Errors     []error
}

// Final returns the last recorded snapshot.
func (r *Result) Final() dynamo.Snapshot {
	if len(r.Snapshots) == 0 {
		return dynamo.Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

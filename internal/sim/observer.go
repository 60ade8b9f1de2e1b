package sim

import (
	"log/slog"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

// LogObserver writes events and phase changes to a structured logger.
// Frames are logged at debug level.
type LogObserver struct {
	log   *slog.Logger
	phase dynamo.Phase
}

func NewLogObserver(log *slog.Logger) *LogObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) OnFrame(s dynamo.Snapshot) {
	if s.Phase != o.phase {
		o.log.Info("phase changed",
			"scenario", s.Scenario,
			"from", o.phase.String(),
			"to", s.Phase.String(),
			"elapsed", s.Elapsed,
		)
		o.phase = s.Phase
	}
	o.log.Debug("frame",
		"scenario", s.Scenario,
		"elapsed", s.Elapsed,
		"x", s.Bodies[0].Position,
		"v", s.Bodies[0].Velocity,
	)
}

func (o *LogObserver) OnEvent(e dynamo.CollisionEvent) {
	o.log.Info("event",
		"kind", e.Kind.String(),
		"t", e.Time,
		slog.Group("velocity",
			slog.Float64("before_a", e.Before[0]),
			slog.Float64("before_b", e.Before[1]),
			slog.Float64("after_a", e.After[0]),
			slog.Float64("after_b", e.After[1]),
		),
	)
}

// Recorder keeps every frame and event it observes.
type Recorder struct {
	Frames []dynamo.Snapshot
	Events []dynamo.CollisionEvent
}

func (r *Recorder) OnFrame(s dynamo.Snapshot)       { r.Frames = append(r.Frames, s) }
func (r *Recorder) OnEvent(e dynamo.CollisionEvent) { r.Events = append(r.Events, e) }

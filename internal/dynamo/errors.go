package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors. The physics core never returns them; they are raised at
// the configuration boundary before values reach a scenario.
var (
	// ErrInvalidMass indicates a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrInvalidDuration indicates a negative force duration.
	ErrInvalidDuration = errors.New("dynamo: duration must not be negative")

	// ErrInvalidRestitution indicates a restitution coefficient outside [0, 1].
	ErrInvalidRestitution = errors.New("dynamo: restitution must be within [0, 1]")

	// ErrInvalidParams indicates a tunable outside its valid range.
	ErrInvalidParams = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState indicates NaN or Inf in a snapshot.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownScenario indicates a scenario name with no registered factory.
	ErrUnknownScenario = errors.New("dynamo: unknown scenario")

	// ErrUnknownParam indicates a parameter name a scenario does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrInvalidTransition indicates a control or configuration call that the
	// clock's current phase does not allow.
	ErrInvalidTransition = errors.New("dynamo: invalid transition")
)

// ConfigError wraps a domain error with the offending field.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func CheckMass(field string, m float64) error {
	if !(m > 0) || math.IsInf(m, 1) {
		return &ConfigError{Field: field, Value: m, Wrapped: ErrInvalidMass}
	}
	return nil
}

func CheckRestitution(e float64) error {
	if !(e >= 0 && e <= 1) {
		return &ConfigError{Field: "restitution", Value: e, Wrapped: ErrInvalidRestitution}
	}
	return nil
}

func CheckDuration(d float64) error {
	if !(d >= 0) {
		return &ConfigError{Field: "duration", Value: d, Wrapped: ErrInvalidDuration}
	}
	return nil
}

// Validate checks the tunables. Safety bounds may be infinite.
func (p Params) Validate() error {
	switch {
	case !(p.Scale > 0):
		return &ConfigError{Field: "scale", Value: p.Scale, Wrapped: ErrInvalidParams}
	case !(p.MaxDt > 0):
		return &ConfigError{Field: "max_dt", Value: p.MaxDt, Wrapped: ErrInvalidParams}
	case !(p.HitDistance >= 0):
		return &ConfigError{Field: "hit_distance", Value: p.HitDistance, Wrapped: ErrInvalidParams}
	case !(p.PostEventDelay >= 0):
		return &ConfigError{Field: "post_event_delay", Value: p.PostEventDelay, Wrapped: ErrInvalidParams}
	case !(p.Extent >= 0):
		return &ConfigError{Field: "extent", Value: p.Extent, Wrapped: ErrInvalidParams}
	case !(p.LeftBound < p.RightBound):
		return &ConfigError{Field: "right_bound", Value: p.RightBound, Wrapped: ErrInvalidParams}
	}
	return nil
}

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/viz"
)

const (
	stripWidth  = 70
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints every Every-th frame as an ASCII track strip. With
// Redraw set it repaints in place instead of scrolling.
type LiveRenderer struct {
	w          io.Writer
	params     dynamo.Params
	trackWidth float64
	Every      int
	Redraw     bool

	frames int
	phase  dynamo.Phase
	events []string
}

func NewLiveRenderer(w io.Writer, p dynamo.Params, trackWidth float64, every int) *LiveRenderer {
	if every < 1 {
		every = 1
	}
	return &LiveRenderer{w: w, params: p, trackWidth: trackWidth, Every: every}
}

func (r *LiveRenderer) OnFrame(s dynamo.Snapshot) {
	changed := s.Phase != r.phase
	r.phase = s.Phase
	r.frames++
	if !changed && r.frames%r.Every != 0 {
		return
	}
	r.render(s)
}

func (r *LiveRenderer) OnEvent(e dynamo.CollisionEvent) {
	line := fmt.Sprintf("%s at t=%.3fs: v %.2f,%.2f -> %.2f,%.2f",
		e.Kind, e.Time, e.Before[0], e.Before[1], e.After[0], e.After[1])
	r.events = append(r.events, line)
	if !r.Redraw {
		fmt.Fprintln(r.w, "  * "+line)
	}
}

func (r *LiveRenderer) render(s dynamo.Snapshot) {
	var b strings.Builder
	strip := viz.Strip(s, r.params, r.trackWidth, stripWidth)

	if !r.Redraw {
		b.WriteString(fmt.Sprintf("  %6.2fs %-8s |%s|%s\n", s.Elapsed, s.Phase, strip, velocities(s)))
		fmt.Fprint(r.w, b.String())
		return
	}

	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  %s  t=%.2fs\n", s.Scenario, s.Phase, s.Elapsed))
	b.WriteString("  " + strings.Repeat("-", stripWidth+2) + "\n")
	b.WriteString("  |" + strip + "|\n")
	b.WriteString("  " + strings.Repeat("-", stripWidth+2) + "\n")
	b.WriteString(" " + velocities(s) + "\n")
	b.WriteString(fmt.Sprintf("  p %.2f -> %.2f   KE %.2f -> %.2f\n",
		s.MomentumBefore, s.MomentumAfter, s.KineticBefore, s.KineticAfter))
	for _, e := range r.events {
		b.WriteString("  * " + e + "\n")
	}
	fmt.Fprint(r.w, b.String())
}

func velocities(s dynamo.Snapshot) string {
	var b strings.Builder
	for i := 0; i < s.Count; i++ {
		b.WriteString(fmt.Sprintf(" v%d=%.2f", i+1, s.Bodies[i].Velocity))
	}
	return b.String()
}

func (r *LiveRenderer) Start() {
	if r.Redraw {
		fmt.Fprint(r.w, hideCursor)
	}
}

func (r *LiveRenderer) Stop() {
	if r.Redraw {
		fmt.Fprint(r.w, showCursor)
	}
}

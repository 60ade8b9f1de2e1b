package viz

import (
	"math"
	"strings"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

// Track projects track coordinates onto a canvas. Width is the track
// length in track units.
type Track struct {
	Width  float64
	Params dynamo.Params
	canvas *Canvas
}

func NewTrack(width float64, p dynamo.Params, cols, rows int) *Track {
	if cols < 1 {
		cols = 1
	}
	if rows < 2 {
		rows = 2
	}
	return &Track{Width: width, Params: p, canvas: NewCanvas(cols, rows)}
}

// PixelX maps a track coordinate to a canvas column, clamped to the canvas.
func (t *Track) PixelX(x float64) int {
	w := t.canvas.PixelWidth()
	px := int(math.Floor(x / t.Width * float64(w)))
	if px < 0 {
		return 0
	}
	if px >= w {
		return w - 1
	}
	return px
}

// Draw renders the floor, the wall and every body of s and returns the
// canvas rows.
func (t *Track) Draw(s dynamo.Snapshot) []string {
	c := t.canvas
	c.Clear()
	floor := c.PixelHeight() - 1
	c.DrawLine(0, floor, c.PixelWidth()-1, floor)

	if s.HasWall {
		c.DashedVLine(t.PixelX(s.Wall), 0, floor-1)
	}

	half := t.Params.Extent / 2
	top := c.PixelHeight() / 3
	for i := 0; i < s.Count && i < len(s.Bodies); i++ {
		x := s.Bodies[i].Position
		if math.IsNaN(x) {
			continue
		}
		c.FillRect(t.PixelX(x-half), top, t.PixelX(x+half)-1, floor-2)
	}
	return c.Lines()
}

// RenderTrack draws one frame of s on a cols x rows braille canvas.
func RenderTrack(s dynamo.Snapshot, p dynamo.Params, trackWidth float64, cols, rows int) string {
	return strings.Join(NewTrack(trackWidth, p, cols, rows).Draw(s), "\n")
}

// Strip renders s as a single line of plain ASCII: '=' for the track, a
// digit per body and '|' for the wall.
func Strip(s dynamo.Snapshot, p dynamo.Params, trackWidth float64, cols int) string {
	if cols < 1 {
		return ""
	}
	line := []byte(strings.Repeat("=", cols))
	cell := func(x float64) int {
		i := int(math.Floor(x / trackWidth * float64(cols)))
		return min(max(i, 0), cols-1)
	}

	half := p.Extent / 2
	for i := 0; i < s.Count && i < len(s.Bodies); i++ {
		x := s.Bodies[i].Position
		if math.IsNaN(x) {
			continue
		}
		lo, hi := cell(x-half), cell(x+half)
		for j := lo; j <= hi; j++ {
			line[j] = byte('1' + i)
		}
	}
	if s.HasWall {
		line[cell(s.Wall)] = '|'
	}
	return string(line)
}

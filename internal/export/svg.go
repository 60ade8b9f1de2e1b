package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/collisionlab/internal/sim"
)

var bodyColors = [2]string{"#00ccff", "#ff8800"}

// TraceSVG plots body position against time, one path per body. A dashed
// line marks the wall and a dot marks each event.
func TraceSVG(result *sim.Result, width, height int) string {
	if len(result.Snapshots) < 2 {
		return ""
	}

	minT, maxT := result.Times[0], result.Times[len(result.Times)-1]
	minX, maxX := result.Snapshots[0].Bodies[0].Position, result.Snapshots[0].Bodies[0].Position
	for _, s := range result.Snapshots {
		for i := 0; i < s.Count; i++ {
			x := s.Bodies[i].Position
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
		}
		if s.HasWall {
			if s.Wall < minX {
				minX = s.Wall
			}
			if s.Wall > maxX {
				maxX = s.Wall
			}
		}
	}

	rangeT := maxT - minT
	rangeX := maxX - minX
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeX == 0 {
		rangeX = 1
	}
	minX -= rangeX * 0.1
	rangeX *= 1.2

	px := func(t float64) float64 { return (t - minT) / rangeT * float64(width) }
	py := func(x float64) float64 { return float64(height) - (x-minX)/rangeX*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	first := result.Snapshots[0]
	for b := 0; b < first.Count && b < len(bodyColors); b++ {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, bodyColors[b]))
		for i, s := range result.Snapshots {
			if i > 0 {
				sb.WriteString(" L")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(result.Times[i]), py(s.Bodies[b].Position)))
		}
		sb.WriteString("\"/>\n")
	}

	if first.HasWall {
		y := py(first.Wall)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#888899" stroke-dasharray="4 4"/>
`, y, width, y))
	}

	for _, ev := range result.Events {
		t := eventHostTime(result, ev.Time)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ff4444"/>
`, px(t), py(ev.Positions[0])))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// eventHostTime maps a simulated event time onto the frame timeline.
func eventHostTime(result *sim.Result, elapsed float64) float64 {
	for i, s := range result.Snapshots {
		if s.Elapsed >= elapsed {
			return result.Times[i]
		}
	}
	return result.Times[len(result.Times)-1]
}

func WriteSVG(w io.Writer, result *sim.Result, width, height int) error {
	_, err := io.WriteString(w, TraceSVG(result, width, height))
	return err
}

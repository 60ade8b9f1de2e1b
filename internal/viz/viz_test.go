package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

func TestCanvasFillRect(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillRect(7, 7, 0, 0)
	for _, line := range c.Lines() {
		if line != strings.Repeat(string(rune(brailleFull)), 4) {
			t.Errorf("row %q not fully lit", line)
		}
	}

	c.Clear()
	c.Set(-1, 0)
	c.Set(100, 100)
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != brailleEmpty && r != '\n' }) {
		t.Error("out of range pixels were drawn")
	}
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != rune(brailleEmpty|0x1|0x80) {
		t.Errorf("cell = %U", got)
	}
}

func TestTrackPixelX(t *testing.T) {
	tr := NewTrack(1000, dynamo.DefaultParams(), 50, 4)
	tests := []struct {
		x    float64
		want int
	}{
		{500, 50},
		{0, 0},
		{-5, 0},
		{2000, 99},
	}
	for _, tt := range tests {
		if got := tr.PixelX(tt.x); got != tt.want {
			t.Errorf("PixelX(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestRenderTrack(t *testing.T) {
	s := dynamo.Snapshot{Count: 2}
	s.Bodies[0].Position = 300
	s.Bodies[1].Position = 700

	out := RenderTrack(s, dynamo.DefaultParams(), 1000, 50, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("rows = %d, want 4", len(lines))
	}
	mid := []rune(lines[2])
	if mid[15] == brailleEmpty || mid[35] == brailleEmpty {
		t.Error("bodies not drawn at their columns")
	}
	if mid[25] != brailleEmpty {
		t.Error("gap between bodies is drawn")
	}
}

func TestStrip(t *testing.T) {
	s := dynamo.Snapshot{Count: 2, HasWall: true, Wall: 900}
	s.Bodies[0].Position = 300
	s.Bodies[1].Position = 700

	got := Strip(s, dynamo.DefaultParams(), 1000, 50)
	if len(got) != 50 {
		t.Fatalf("length = %d", len(got))
	}
	if strings.Count(got, "1") != 11 || got[10] != '1' || got[20] != '1' {
		t.Errorf("body 1 misplaced: %s", got)
	}
	if got[30] != '2' || got[40] != '2' {
		t.Errorf("body 2 misplaced: %s", got)
	}
	if got[45] != '|' {
		t.Errorf("wall misplaced: %s", got)
	}
	if Strip(s, dynamo.DefaultParams(), 1000, 0) != "" {
		t.Error("zero width strip")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme did not fall back")
	}
	cur := ThemeCyberpunk
	for range Themes {
		cur = NextTheme(cur)
	}
	if cur.Name != ThemeCyberpunk.Name {
		t.Errorf("cycling themes ended on %s", cur.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("Sparkline = %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty Sparkline = %q", got)
	}
}

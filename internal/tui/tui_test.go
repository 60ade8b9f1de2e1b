package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/experiment"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func openElastic(t *testing.T) (model, *fakeTime) {
	t.Helper()
	ft := &fakeTime{t: time.Unix(1000, 0)}
	m := *newModel(experiment.NewRegistry(), ft.now)
	m = update(t, m, key("enter"))
	if m.state != stateSim || m.clock == nil {
		t.Fatal("enter did not open the elastic scenario")
	}
	return m, ft
}

func TestMenuNavigation(t *testing.T) {
	m := *newModel(experiment.NewRegistry(), time.Now)
	m = update(t, m, key("j"))
	m = update(t, m, key("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	m = update(t, m, key("enter"))
	if got := m.clock.Scenario().Name(); got != "wall" {
		t.Errorf("opened %s, want wall", got)
	}
	if len(m.paramNames) != 2 || m.paramNames[0] != "mass" {
		t.Errorf("params = %v", m.paramNames)
	}

	m = update(t, m, key("q"))
	if m.state != stateMenu {
		t.Error("q did not return to the menu")
	}
}

func TestParamsEditableOnlyWhenIdle(t *testing.T) {
	m, _ := openElastic(t)
	if m.paramNames[0] != "mass1" {
		t.Fatalf("params = %v", m.paramNames)
	}

	m = update(t, m, key("right"))
	if got := m.clock.GetParams()["mass1"]; got != 4.5 {
		t.Errorf("mass1 = %v, want 4.5", got)
	}
	if m.cfg.Bodies.Mass1 != 4.5 {
		t.Errorf("config mass1 = %v, want 4.5", m.cfg.Bodies.Mass1)
	}

	m = update(t, m, key("s"))
	if m.clock.Phase() != dynamo.Running {
		t.Fatalf("phase = %v, want running", m.clock.Phase())
	}
	m = update(t, m, key("left"))
	if got := m.clock.GetParams()["mass1"]; got != 4.5 {
		t.Errorf("mass1 changed while running: %v", got)
	}
	if m.message == "" {
		t.Error("no message for a refused edit")
	}
}

func TestParamClamp(t *testing.T) {
	m, _ := openElastic(t)
	m = update(t, m, key("tab"))
	for i := 0; i < 20; i++ {
		m = update(t, m, key("right"))
	}
	if got := m.clock.GetParams()["velocity1"]; got != 10 {
		t.Errorf("velocity1 = %v, want clamp at 10", got)
	}
}

func TestTicksDriveClock(t *testing.T) {
	m, ft := openElastic(t)
	m = update(t, m, key("s"))

	for i := 0; i < 3000 && m.clock.Phase() != dynamo.Stopped; i++ {
		ft.t = ft.t.Add(16 * time.Millisecond)
		m = update(t, m, tickMsg{gen: m.gen})
	}
	if m.clock.Phase() != dynamo.Stopped {
		t.Fatal("elastic run never stopped")
	}
	if !m.clock.Snapshot().HasTriggered {
		t.Error("stopped without a collision")
	}
	if len(m.history) == 0 {
		t.Error("no velocity history recorded")
	}

	m = update(t, m, key("s"))
	if m.clock.Phase() != dynamo.Stopped || m.message == "" {
		t.Error("start after stop should require a reset")
	}
	m = update(t, m, key("r"))
	if m.clock.Phase() != dynamo.Idle {
		t.Errorf("phase after reset = %v", m.clock.Phase())
	}
}

func TestPauseFreezesClock(t *testing.T) {
	m, ft := openElastic(t)
	m = update(t, m, key("s"))
	for i := 0; i < 5; i++ {
		ft.t = ft.t.Add(16 * time.Millisecond)
		m = update(t, m, tickMsg{gen: m.gen})
	}
	m = update(t, m, key("p"))
	before := m.clock.Snapshot()

	ft.t = ft.t.Add(time.Second)
	m = update(t, m, tickMsg{gen: m.gen})
	if m.clock.Snapshot().Bodies != before.Bodies {
		t.Error("bodies moved while paused")
	}
	if !m.clock.Snapshot().IsPaused {
		t.Error("snapshot not paused")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m, _ := openElastic(t)
	m = update(t, m, key("s"))
	_, cmd := m.Update(tickMsg{gen: m.gen - 1})
	if cmd != nil {
		t.Error("stale tick rescheduled itself")
	}
	_, cmd = m.Update(tickMsg{gen: m.gen})
	if cmd == nil {
		t.Error("current tick did not reschedule")
	}
}

func TestTicksOnlyWhileRunning(t *testing.T) {
	m, ft := openElastic(t)
	if _, cmd := m.Update(tickMsg{gen: m.gen}); cmd != nil {
		t.Error("idle model scheduled a tick")
	}

	next, cmd := m.Update(key("s"))
	m = next.(model)
	if cmd == nil {
		t.Fatal("start did not schedule a tick")
	}
	started := m.gen

	ft.t = ft.t.Add(16 * time.Millisecond)
	m = update(t, m, tickMsg{gen: m.gen})
	next, cmd = m.Update(key("p"))
	m = next.(model)
	if cmd != nil {
		t.Error("pause scheduled a tick")
	}
	if _, cmd := m.Update(tickMsg{gen: m.gen}); cmd != nil {
		t.Error("paused model rescheduled its tick")
	}

	next, cmd = m.Update(key("p"))
	m = next.(model)
	if cmd == nil {
		t.Fatal("resume did not schedule a tick")
	}
	if m.gen == started {
		t.Error("resume reused the old tick generation")
	}
	if _, cmd := m.Update(tickMsg{gen: started}); cmd != nil {
		t.Error("tick from before the pause was not dropped")
	}
}

func TestViewRenders(t *testing.T) {
	m := *newModel(experiment.NewRegistry(), time.Now)
	if !strings.Contains(m.View(), "inelastic") {
		t.Error("menu does not list scenarios")
	}
	m = update(t, m, key("enter"))
	v := m.View()
	if !strings.Contains(v, "elastic") || !strings.Contains(v, "mass1") {
		t.Errorf("sim view missing content:\n%s", v)
	}
}

func TestLiveRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, dynamo.DefaultParams(), 1000, 2)

	s := dynamo.Snapshot{Scenario: "elastic", Count: 2, Phase: dynamo.Running}
	s.Bodies[0].Position = 300
	s.Bodies[1].Position = 700
	r.OnFrame(s) // phase change
	r.OnFrame(s) // second frame
	r.OnFrame(s) // skipped
	r.OnEvent(dynamo.CollisionEvent{Kind: dynamo.EventPair, Time: 0.5})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "running") || !strings.Contains(lines[0], "111") {
		t.Errorf("frame line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "pair at t=0.500s") {
		t.Errorf("event line = %q", lines[2])
	}
}

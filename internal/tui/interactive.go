package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/collisionlab/internal/config"
	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/experiment"
	"github.com/san-kum/collisionlab/internal/sim"
	"github.com/san-kum/collisionlab/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var scenarioInfo = map[string]string{
	config.Elastic:   "equal exchange, e = 1",
	config.Inelastic: "restitution e in [0, 1]",
	config.Wall:      "rebound off a fixed wall",
	config.Impulse:   "constant force for a window",
}

// paramOrder fixes the display order of the tunable parameters.
var paramOrder = []string{
	"mass1", "velocity1", "mass2", "velocity2", "restitution",
	"mass", "velocity", "force", "duration",
}

type paramRange struct {
	lo, hi, step float64
}

var paramRanges = map[string]paramRange{
	"mass":        {0.5, 10, 0.5},
	"velocity":    {-10, 10, 0.5},
	"restitution": {0, 1, 0.05},
	"force":       {0, 50, 1},
	"duration":    {0, 10, 0.25},
}

func rangeFor(name string) paramRange {
	switch {
	case strings.HasPrefix(name, "mass"):
		return paramRanges["mass"]
	case strings.HasPrefix(name, "velocity"):
		return paramRanges["velocity"]
	}
	return paramRanges[name]
}

type state int

const (
	stateMenu state = iota
	stateSim
)

const historyLen = 60

type model struct {
	state     state
	cursor    int
	scenarios []string
	registry  *experiment.Registry

	cfg         *config.Config
	clock       *sim.Clock
	paramNames  []string
	paramCursor int

	theme   viz.Theme
	history []float64
	message string

	now    func() time.Time
	origin time.Time
	gen    int

	width  int
	height int
}

func NewInteractiveApp() *model {
	return newModel(experiment.NewRegistry(), time.Now)
}

func newModel(r *experiment.Registry, now func() time.Time) *model {
	return &model{
		state:     stateMenu,
		scenarios: config.Scenarios,
		registry:  r,
		theme:     viz.ThemeCyberpunk,
		now:       now,
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd { return nil }

// tickMsg carries the generation of the tick loop that sent it, so a loop
// left over from a previous session dies out.
type tickMsg struct {
	gen int
}

func tick(gen int) tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m model) elapsed() time.Duration {
	return m.now().Sub(m.origin)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim || msg.gen != m.gen {
			return m, nil
		}
		m.frame()
		if m.clock.Phase() != dynamo.Running {
			return m, nil
		}
		return m, tick(m.gen)
	}
	return m, nil
}

// resumeTicks starts a fresh tick loop when the clock is running. Loops
// only live while Running; an older loop's ticks are dropped by gen.
func (m *model) resumeTicks() tea.Cmd {
	if m.clock.Phase() != dynamo.Running {
		return nil
	}
	m.gen++
	return tick(m.gen)
}

func (m *model) frame() {
	s := m.clock.Tick(m.elapsed())
	if s.Phase != dynamo.Running {
		return
	}
	m.history = append(m.history, s.Bodies[0].Velocity)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenarios)-1 {
			m.cursor++
		}
	case "enter", " ":
		if err := m.open(m.scenarios[m.cursor]); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.state = stateSim
		m.gen++
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m *model) open(name string) error {
	cfg := config.ForScenario(name)
	clock, err := experiment.Build(m.registry, cfg)
	if err != nil {
		return err
	}
	m.cfg = cfg
	m.clock = clock
	m.origin = m.now()
	m.paramCursor = 0
	m.history = nil
	m.message = ""

	params := clock.GetParams()
	m.paramNames = nil
	for _, name := range paramOrder {
		if _, ok := params[name]; ok {
			m.paramNames = append(m.paramNames, name)
		}
	}
	return nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		m.clock = nil
		return m, tea.ClearScreen
	case "s":
		if m.clock.Start() {
			return m, m.resumeTicks()
		}
		if m.clock.Phase() == dynamo.Stopped {
			m.message = "run finished, press r to reset"
		}
	case " ", "p":
		if m.clock.Pause() {
			return m, m.resumeTicks()
		}
	case "r":
		m.clock.Reset()
		m.history = nil
	case "t":
		m.theme = viz.NextTheme(m.theme)
	case "tab", "down", "j":
		if len(m.paramNames) > 0 {
			m.paramCursor = (m.paramCursor + 1) % len(m.paramNames)
		}
	case "up", "k":
		if len(m.paramNames) > 0 {
			m.paramCursor = (m.paramCursor + len(m.paramNames) - 1) % len(m.paramNames)
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	}
	return m, nil
}

// adjust nudges the selected parameter by one step. The clock refuses
// changes outside Idle and Stopped.
func (m *model) adjust(dir float64) {
	if len(m.paramNames) == 0 {
		return
	}
	name := m.paramNames[m.paramCursor]
	r := rangeFor(name)
	cur := m.clock.GetParams()[name]
	next := math.Round((cur+dir*r.step)/r.step) * r.step
	next = math.Min(math.Max(next, r.lo), r.hi)

	if err := m.clock.SetParam(name, next); err != nil {
		if errors.Is(err, dynamo.ErrInvalidTransition) {
			m.message = "pause is not enough, reset to edit"
		} else {
			m.message = err.Error()
		}
		return
	}
	_ = m.cfg.Set(name, next)
	m.history = nil
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render("c o l l i s i o n l a b") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.scenarios {
		desc := scenarioInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	if m.message != "" {
		b.WriteString("\n      " + red.Render(m.message) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")

	return b.String()
}

func (m model) viewSim() string {
	s := m.clock.Snapshot()
	p := m.clock.Params()

	cols := m.width - 6
	if cols < 50 {
		cols = 50
	}

	var b strings.Builder

	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	b.WriteString(fmt.Sprintf("\n   %s  %s  %s\n",
		accent.Render(s.Scenario), viz.PhaseBadge(s.Phase), dim.Render(fmt.Sprintf("t=%.2fs", s.Elapsed))))

	if r := m.clock.Remaining(); r >= 0 {
		frac := 1 - r/p.PostEventDelay
		b.WriteString(fmt.Sprintf("   stop in %s %s\n", viz.ProgressBar(frac, 20), dim.Render(fmt.Sprintf("%.2fs", r))))
	} else if s.Scenario == config.Impulse {
		frac := 0.0
		if m.cfg.Duration > 0 {
			frac = s.AppliedTime / m.cfg.Duration
		}
		b.WriteString(fmt.Sprintf("   force   %s %s\n", viz.ProgressBar(frac, 20),
			dim.Render(fmt.Sprintf("J=%.2f N·s", s.Impulse))))
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	track := viz.RenderTrack(s, p, m.cfg.Layout.TrackWidth, cols, 5)
	body := lipgloss.NewStyle().Foreground(m.theme.Body1)
	for _, line := range strings.Split(track, "\n") {
		b.WriteString("   " + body.Render(line) + "\n")
	}
	b.WriteString("\n")

	for i := 0; i < s.Count; i++ {
		st := s.Bodies[i]
		b.WriteString(fmt.Sprintf("   %s x=%s v=%s\n",
			dim.Render(fmt.Sprintf("body %d", i+1)),
			white.Render(fmt.Sprintf("%7.1f", st.Position)),
			white.Render(fmt.Sprintf("%6.2f", st.Velocity))))
	}

	b.WriteString(fmt.Sprintf("\n   %s %s → %s   %s %s → %s\n",
		viz.MetricLabel.Render("p"),
		viz.MetricValue.Render(fmt.Sprintf("%.2f", s.MomentumBefore)),
		viz.MetricValue.Render(fmt.Sprintf("%.2f", s.MomentumAfter)),
		viz.MetricLabel.Render("KE"),
		viz.MetricValue.Render(fmt.Sprintf("%.2f", s.KineticBefore)),
		viz.MetricValue.Render(fmt.Sprintf("%.2f", s.KineticAfter))))
	if s.HasTriggered && s.Scenario != config.Impulse {
		lost := s.EnergyLost()
		style := green
		if lost > 1e-9 {
			style = yellow
		}
		b.WriteString("   " + dim.Render("energy lost ") + style.Render(fmt.Sprintf("%.2f J", lost)) + "\n")
	}

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("v₁"), cyan.Render(viz.Sparkline(m.history, 24))))
	}

	b.WriteString("\n   " + viz.Separator(40) + "\n")
	editable := s.Phase == dynamo.Idle || s.Phase == dynamo.Stopped
	params := m.clock.GetParams()
	for i, name := range m.paramNames {
		val := fmt.Sprintf("%7.2f", params[name])
		switch {
		case i == m.paramCursor && editable:
			b.WriteString("   " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + magenta.Render(val) + "\n")
		case i == m.paramCursor:
			b.WriteString("   " + dim.Render("▸ ") + dim.Render(fmt.Sprintf("%-12s", name)) + dim.Render(val) + "\n")
		default:
			b.WriteString("     " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(val) + "\n")
		}
	}

	if m.message != "" {
		b.WriteString("\n   " + yellow.Render(m.message) + "\n")
	}

	b.WriteString("\n   " + viz.KeyHint.Render("s start  space pause  r reset  tab/←→ params  t theme  q menu") + "\n")

	return b.String()
}

func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

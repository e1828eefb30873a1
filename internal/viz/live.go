package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/relaxlab/internal/field"
	"github.com/san-kum/relaxlab/internal/relax"
	"github.com/san-kum/relaxlab/internal/scenario"
)

const (
	width        = 64
	height       = 24
	tickInterval = time.Second / 20
	maxPerTick   = 64
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Live steps a solver one tick at a time and shows the grid relaxing.
type Live struct {
	build    func() (*scenario.Problem, error)
	prob     *scenario.Problem
	solver   *relax.Solver
	running  bool
	arrows   bool
	showHelp bool
	perTick  int
	width    int
	err      error
}

// NewLive builds the first problem. build is called again on every reset
// and must return a fresh grid each time.
func NewLive(build func() (*scenario.Problem, error)) (Live, error) {
	m := Live{build: build, running: true, perTick: 1, width: width}
	if err := m.reset(); err != nil {
		return Live{}, err
	}
	return m, nil
}

func (m *Live) reset() error {
	prob, err := m.build()
	if err != nil {
		return err
	}
	s, err := relax.New(prob.Grid, prob.Fixed, prob.Source, prob.Config)
	if err != nil {
		return err
	}
	m.prob, m.solver = prob, s
	return nil
}

func (m Live) Init() tea.Cmd { return tick() }

// Update handles keys and advances the solve on every tick.
func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			m.running = false
			m.solver.Sweep()
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "a":
			m.arrows = !m.arrows
		case "t":
			NextTheme()
		case "+", "=":
			m.perTick = min(2*m.perTick, maxPerTick)
		case "-", "_":
			m.perTick = max(m.perTick/2, 1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-50, 8)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Live) step() {
	for i := 0; i < m.perTick && !m.solver.Done(); i++ {
		m.solver.Sweep()
	}
	if m.solver.Done() {
		m.running = false
	}
}

// Solver exposes the solver being stepped.
func (m Live) Solver() *relax.Solver { return m.solver }

func (m Live) status() string {
	if m.solver.Done() {
		return m.solver.Result().Status()
	}
	if m.running {
		return "running"
	}
	return "paused"
}

// LogResiduals maps residuals to log10 so the chart spans their decades.
// Zero and non-finite values are pinned to the float64 range.
func LogResiduals(res []float64) []float64 {
	out := make([]float64, len(res))
	for i, r := range res {
		switch {
		case math.IsNaN(r) || math.IsInf(r, 0):
			out[i] = math.Log10(math.MaxFloat64)
		case r <= 0:
			out[i] = math.Log10(math.SmallestNonzeroFloat64)
		default:
			out[i] = math.Log10(r)
		}
	}
	return out
}

func (m Live) grid() string {
	psi := m.solver.Grid()
	if !m.arrows {
		return HeatMap(psi, m.prob.Fixed, m.width)
	}
	n := m.prob.Size()
	c := NewCanvas(m.width/2, m.width/4)
	stride := max(n/16, 1)
	u, v := field.Velocity(psi)
	c.Flow(field.Sample(u, v, stride), m.prob.Fixed, n, stride)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(c.String())
}

// View renders the grid beside the solve statistics.
func (m Live) View() string {
	res := m.solver.Result()
	cfg := m.solver.Config()

	var s strings.Builder
	s.WriteString(Title(strings.ToUpper(m.prob.Name)) + "\n")
	s.WriteString(helpStyle.UnsetMarginTop().Render(m.prob.Description) + "\n\n")
	s.WriteString(Status(m.status()) + "\n\n")
	s.WriteString(Label("Sweep") + Value(fmt.Sprintf("%d / %d", res.Sweeps, cfg.MaxSweeps)) + "\n")
	s.WriteString(Label("Residual") + Value(fmt.Sprintf("%.3e", res.FinalResidual())) + "\n")
	s.WriteString(Label("Tolerance") + Value(fmt.Sprintf("%.0e", cfg.Tolerance)) + "\n")
	s.WriteString(Label("Alpha") + Value(fmt.Sprintf("%.4f", cfg.Alpha)) + "\n")
	s.WriteString(Label("Traversal") + Value(cfg.Traversal.String()) + "\n")
	s.WriteString(Label("Per tick") + Value(fmt.Sprintf("%d", m.perTick)) + "\n")
	s.WriteString(Label("Theme") + Value(CurrentTheme.Name) + "\n\n")
	s.WriteString(ProgressBar(float64(res.Sweeps)/float64(cfg.MaxSweeps), 30) + "\n")

	if len(res.Residuals) > 1 {
		chart := asciigraph.Plot(LogResiduals(res.Residuals),
			asciigraph.Height(6), asciigraph.Width(36), asciigraph.Caption("log10 residual"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause S:Step R:Reset\nA:Arrows T:Theme +/-:Speed\n?:Help Q:Quit"))

	gridView := panelStyle.Render(m.grid())
	if !m.arrows {
		st := field.Stats(m.solver.Grid())
		gridView = lipgloss.JoinVertical(lipgloss.Left, gridView, Legend(st.Min, st.Max, 20))
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, gridView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space  pause or resume
  S      single sweep
  R      rebuild the problem
  A      heat map or flow arrows
  T      next colour theme
  + -    sweeps per tick
  Q      quit
`

// RunLive runs the live view until the user quits.
func RunLive(m Live) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(46)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Title renders a heading in the current theme.
func Title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Primary).Render(s)
}

// Label renders a dimmed field name padded to a fixed width.
func Label(s string) string { return labelStyle.Render(s) }

// Value renders a field value.
func Value(s string) string { return valueStyle.Render(s) }

// Status colours a solve status: converged, exhausted, running or paused.
func Status(s string) string {
	st := lipgloss.NewStyle().Bold(true)
	switch s {
	case "converged":
		st = st.Foreground(CurrentTheme.Success)
	case "exhausted", "paused":
		st = st.Foreground(CurrentTheme.Warning)
	case "running":
		st = st.Foreground(CurrentTheme.Accent)
	default:
		st = st.Foreground(CurrentTheme.Error)
	}
	return st.Render(strings.ToUpper(s))
}

// Gradient returns the colour at t in [0, 1] of the three stop gradient of
// theme. t is clamped; NaN maps to the error colour.
func Gradient(theme Theme, t float64) lipgloss.Color {
	if math.IsNaN(t) {
		return theme.Error
	}
	t = math.Max(0, math.Min(1, t))

	lo, hi, f := theme.Low, theme.Mid, 2*t
	if t > 0.5 {
		lo, hi, f = theme.Mid, theme.High, 2*t-1
	}
	a, errA := colorful.Hex(string(lo))
	b, errB := colorful.Hex(string(hi))
	if errA != nil || errB != nil {
		return theme.Text
	}
	return lipgloss.Color(a.BlendLab(b, f).Clamped().Hex())
}

// ProgressBar renders a filled bar for percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(bar)
}

// Separator renders a horizontal rule.
func Separator(width int) string {
	if width < 7 {
		width = 7
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(left + " ◆ " + right)
}

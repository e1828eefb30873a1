package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/relaxlab/internal/field"
	"github.com/san-kum/relaxlab/internal/relax"
	"gonum.org/v1/gonum/mat"
)

// cellStep returns the sampling step that fits n grid positions into at
// most cols terminal cells.
func cellStep(n, cols int) int {
	if cols <= 0 || cols >= n {
		return 1
	}
	return (n + cols - 1) / cols
}

// HeatMap renders psi with one two-character cell per sampled position,
// the last row at the top so y increases upward. width is the terminal
// width to fit; 0 draws every position. Interior positions that fixed
// reports are hatched. fixed may be nil.
func HeatMap(psi mat.Matrix, fixed relax.Fixed, width int) string {
	n, _ := psi.Dims()
	if n == 0 {
		return ""
	}
	step := cellStep(n, width/2)
	s := field.Stats(psi)
	span := s.Max - s.Min

	theme := CurrentTheme
	var b strings.Builder
	for row := n - 1; row >= 0; row -= step {
		for col := 0; col < n; col += step {
			t := 0.5
			if span > 0 {
				t = (psi.At(row, col) - s.Min) / span
			}
			st := lipgloss.NewStyle().Background(Gradient(theme, t))
			cell := "  "
			if fixed != nil && row > 0 && col > 0 && row < n-1 && col < n-1 && fixed.Fixed(row, col) {
				st = st.Foreground(theme.Muted)
				cell = "░░"
			}
			b.WriteString(st.Render(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Legend renders the gradient with its end values.
func Legend(lo, hi float64, width int) string {
	if width < 2 {
		width = 2
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		t := float64(i) / float64(width-1)
		b.WriteString(lipgloss.NewStyle().Background(Gradient(CurrentTheme, t)).Render(" "))
	}
	return fmt.Sprintf("%.3g %s %.3g", lo, b.String(), hi)
}

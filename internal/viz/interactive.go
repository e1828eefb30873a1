package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/relaxlab/internal/scenario"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Picker is a scenario menu. It quits once a scenario is chosen or the
// user gives up.
type Picker struct {
	entries []scenario.Entry
	cursor  int
	choice  string
}

func NewPicker(entries []scenario.Entry) Picker {
	return Picker{entries: entries}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.entries) > 0 {
			p.choice = p.entries[p.cursor].Name
		}
		return p, tea.Quit
	}
	return p, nil
}

// Choice returns the chosen scenario, empty if none was picked.
func (p Picker) Choice() string { return p.choice }

func (p Picker) View() string {
	var b strings.Builder
	b.WriteString("\n\n    " + Title("RELAXLAB") + "\n    " + dimStyle.Render("successive over-relaxation") + "\n    " + Separator(27) + "\n\n")
	for i, e := range p.entries {
		desc := e.Description
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", e.Name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dimStyle.Render(fmt.Sprintf("  %-10s", e.Name)), dimStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + dimStyle.Render(" navigate  ") + keyStyle.Render("enter") + dimStyle.Render(" select  ") + keyStyle.Render("q") + dimStyle.Render(" quit") + "\n")
	return b.String()
}

// RunPicker shows the menu and returns the chosen scenario name.
func RunPicker(entries []scenario.Entry) (string, error) {
	final, err := tea.NewProgram(NewPicker(entries), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	return final.(Picker).Choice(), nil
}

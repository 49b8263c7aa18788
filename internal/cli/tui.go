package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mewc/pkg/mewc"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StrategyListModel - Interactive strategy selection
// =============================================================================

// StrategyListModel is the bubbletea model behind solve --interactive.
type StrategyListModel struct {
	Strategies []mewc.Strategy
	Cursor     int
	Selected   *mewc.Strategy

	// Vertices and Edges describe the loaded instance in the header.
	Vertices int
	Edges    int
}

// NewStrategyListModel creates a picker over all strategies with the cursor
// on current.
func NewStrategyListModel(current mewc.Strategy, vertices, edges int) StrategyListModel {
	m := StrategyListModel{
		Strategies: mewc.Strategies(),
		Vertices:   vertices,
		Edges:      edges,
	}
	for i, s := range m.Strategies {
		if s == current {
			m.Cursor = i
		}
	}
	return m
}

func (m StrategyListModel) Init() tea.Cmd {
	return nil
}

func (m StrategyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Strategies)-1 {
				m.Cursor++
			}
		case "enter":
			s := m.Strategies[m.Cursor]
			m.Selected = &s
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StrategyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Strategy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d vertices, %d edges", m.Vertices, m.Edges)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, s := range m.Strategies {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-13s  %s", cursor, s, listDimStyle.Render(s.Description()))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Strategies[m.Cursor] == mewc.Exact && m.Edges > exactWarnEdges {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render("  exact search may not finish on dense graphs this size; set --timeout"))
		b.WriteString("\n")
	}
	return b.String()
}

// exactWarnEdges is the edge count above which the picker warns that the
// exact search may run for a long time.
const exactWarnEdges = 5000

// pickStrategy runs the picker. ok is false when the user quits without
// choosing.
func pickStrategy(current mewc.Strategy, vertices, edges int) (s mewc.Strategy, ok bool, err error) {
	final, err := tea.NewProgram(NewStrategyListModel(current, vertices, edges)).Run()
	if err != nil {
		return "", false, err
	}
	m, _ := final.(StrategyListModel)
	if m.Selected == nil {
		return "", false, nil
	}
	return *m.Selected, true, nil
}

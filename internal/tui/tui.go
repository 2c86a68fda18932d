package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/audityzer-org/audityzer/internal/engine"
)

type modelT struct {
	findings []engine.FileFinding
	cursor   int
}

func initialModel(findings []engine.FileFinding) modelT { return modelT{findings: findings} }

func (m modelT) Init() tea.Cmd { return nil }

func (m modelT) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.findings)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m modelT) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Findings (%d)\n\n", len(m.findings))
	for i, f := range m.findings {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s[%s] %s:%d:%d %s (%s)\n", marker, f.Severity, f.File, f.Line, f.Column, f.Title, f.Detector)
	}
	if len(m.findings) > 0 {
		f := m.findings[m.cursor]
		fmt.Fprintf(&b, "\n%s\n", f.Description)
		if f.Suggestion != "" {
			fmt.Fprintf(&b, "fix: %s\n", f.Suggestion)
		}
	}
	b.WriteString("\nj/k to move, q to quit\n")
	return b.String()
}

// Run launches a minimal findings browser.
func Run(findings []engine.FileFinding) error {
	p := tea.NewProgram(initialModel(findings))
	_, err := p.Run()
	return err
}

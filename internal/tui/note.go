// Package tui holds the interactive terminal prompt for jotting a note.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxRecent is how many of today's notes are shown above the input.
const maxRecent = 5

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	recentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	savedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// NoteModel is a single-line note prompt.
type NoteModel struct {
	input    textinput.Model
	recent   []string
	done     bool
	quitting bool
}

// NewNoteModel creates the prompt. recent are today's notes, oldest first;
// only the last few are shown.
func NewNoteModel(recent []string) NoteModel {
	in := textinput.New()
	in.Placeholder = "What are you working on?"
	in.CharLimit = 500
	in.Width = 60
	in.Focus()

	if len(recent) > maxRecent {
		recent = recent[len(recent)-maxRecent:]
	}
	return NoteModel{input: in, recent: recent}
}

// Init implements tea.Model.
func (m NoteModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m NoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			// Don't submit an empty note
			if strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			m.done = true
			m.input.Blur()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m NoteModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Time for a quick update"))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(savedStyle.Render("✓ Noted"))
		b.WriteString("\n")
		return b.String()
	}

	for _, r := range m.recent {
		b.WriteString(recentStyle.Render("  · " + r))
		b.WriteString("\n")
	}
	if len(m.recent) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter to save · esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// Result returns the trimmed note and whether the user submitted it.
func (m NoteModel) Result() (string, bool) {
	if !m.done || m.quitting {
		return "", false
	}
	return strings.TrimSpace(m.input.Value()), true
}

// PromptNote runs the prompt on in/out and returns the note, if any.
func PromptNote(in io.Reader, out io.Writer, recent []string) (string, bool, error) {
	p := tea.NewProgram(NewNoteModel(recent), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("running note prompt: %w", err)
	}
	text, ok := final.(NoteModel).Result()
	return text, ok, nil
}

package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type inputModel struct {
	input      textinput.Model
	question   string
	suggestion string
	hint       string
	done       bool
	cancelled  bool
}

func newInputModel(question, suggestion string) inputModel {
	ti := textinput.New()
	ti.Placeholder = suggestion
	if suggestion != "" {
		ti.ShowSuggestions = true
		ti.SetSuggestions([]string{suggestion})
	}
	ti.Focus()
	ti.CharLimit = 512
	ti.SetWidth(60)

	m := inputModel{input: ti, question: strings.TrimSpace(question), suggestion: suggestion}
	if suggestion != "" {
		m.hint = "tab to reuse the last value"
	}
	return m
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "tab":
			// textinput only completes a non-empty prefix.
			if m.input.Value() == "" && m.suggestion != "" {
				m.input.SetValue(m.suggestion)
				m.input.CursorEnd()
				return m, nil
			}
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	s := questionStyle.Render(m.question) + "\n" + m.input.View()
	if m.hint != "" {
		s += "\n" + hintStyle.Render(m.hint)
	}
	return tea.NewView(s)
}

// TerminalAsker asks with an interactive text input.
type TerminalAsker struct {
	In  io.Reader
	Out io.Writer
}

// Ask runs a text input program until enter, esc or ctrl+c.
func (t *TerminalAsker) Ask(question, suggestion string) (string, error) {
	var opts []tea.ProgramOption
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out), tea.WithColorProfile(colorprofile.Detect(t.Out, os.Environ())))
	}
	final, err := tea.NewProgram(newInputModel(question, suggestion), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("running prompt: %w", err)
	}
	m := final.(inputModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	value := m.input.Value()
	if t.Out != nil {
		// The program clears its view on exit; echo the answer for the scrollback.
		fmt.Fprintf(t.Out, "%s%s\n", question, value)
	}
	return value, nil
}

package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sox/interpreter-go/pkg/interpreter"
	"sox/interpreter-go/pkg/parser"
	"sox/interpreter-go/pkg/runtime"
)

var (
	accentColor = lipgloss.Color("#8B5CF6")
	outputColor = lipgloss.Color("#10B981")
	errorColor  = lipgloss.Color("#EF4444")
	mutedColor  = lipgloss.Color("#6B7280")

	promptStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	outputStyle = lipgloss.NewStyle().Foreground(outputColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	headerStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput  textinput.Model
	session    *replSession
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	width      int
	height     int
	quitting   bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "previous input")),
	Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "next input")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate")),
	CtrlC: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	CtrlD: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "quit")),
	CtrlL: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
}

// replSession keeps one interpreter alive across inputs so definitions and
// variables persist.
type replSession struct {
	interp *interpreter.Interpreter
	out    *bytes.Buffer
}

func newREPLSession() *replSession {
	out := &bytes.Buffer{}
	return &replSession{
		interp: interpreter.New(interpreter.WithStdout(out)),
		out:    out,
	}
}

func (s *replSession) reset() {
	s.out = &bytes.Buffer{}
	s.interp = interpreter.New(interpreter.WithStdout(s.out))
}

// bindings lists the global environment, one `name = value` line per binding.
func (s *replSession) bindings() string {
	env := s.interp.GlobalEnvironment()
	var lines []string
	for _, name := range env.Keys() {
		value, err := env.Get(name)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", name, runtime.ToString(value)))
	}
	return strings.Join(lines, "\n")
}

// eval runs one input line. A bare expression is retried with a trailing
// semicolon so `1 + 2` works without ceremony.
func (s *replSession) eval(input string) (string, bool) {
	program, err := parser.Parse(input)
	if err != nil && !strings.HasSuffix(strings.TrimSpace(input), ";") && !strings.HasSuffix(strings.TrimSpace(input), "}") {
		if retried, retryErr := parser.Parse(input + ";"); retryErr == nil {
			program, err = retried, nil
		}
	}
	if err != nil {
		return err.Error(), true
	}

	s.out.Reset()
	value, runErr := s.interp.Evaluate(program)
	printed := strings.TrimSuffix(s.out.String(), "\n")
	if runErr != nil {
		if printed != "" {
			return printed + "\n" + runErr.Error(), true
		}
		return runErr.Error(), true
	}

	var parts []string
	if printed != "" {
		parts = append(parts, printed)
	}
	if _, isNil := value.(runtime.NilValue); !isNil {
		parts = append(parts, "=> "+runtime.ToString(value))
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), false
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "sox> "

	return replModel{
		textInput:  ti,
		session:    newREPLSession(),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.session.eval(input)
			m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	switch strings.Fields(input)[0] {
	case ":help", ":h":
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "commands: :help :env :clear :reset :quit",
		})
	case ":env", ":e":
		m.history = append(m.history, historyEntry{input: input, output: m.session.bindings()})
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":reset", ":r":
		m.session.reset()
		m.history = append(m.history, historyEntry{input: input, output: "environment reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("unknown command: %s", input),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("sox " + version))
	b.WriteString(mutedStyle.Render("  :help for commands, ctrl+c to quit"))
	b.WriteString("\n\n")

	for _, entry := range m.history {
		if entry.input != "" {
			b.WriteString(promptStyle.Render("sox> "))
			b.WriteString(entry.input)
			b.WriteString("\n")
		}
		if entry.output != "" {
			if entry.isErr {
				b.WriteString(errorStyle.Render(entry.output))
			} else {
				b.WriteString(outputStyle.Render(entry.output))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(m.textInput.View())
	b.WriteString("\n")
	return b.String()
}

func runREPL() int {
	program := tea.NewProgram(newREPLModel())
	if _, err := program.Run(); err != nil {
		fmt.Println("repl error:", err)
		return exitSwErr
	}
	return exitOK
}

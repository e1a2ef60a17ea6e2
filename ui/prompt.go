package ui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wifibear/macbear/internal/iface"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter runs the interactive prompts on the given terminal streams.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompter) run(m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m, tea.WithInput(p.In), tea.WithOutput(p.Out))
	return prog.Run()
}

// PickInterface asks the operator to choose one interface.
func (p Prompter) PickInterface(items []iface.Interface) (string, error) {
	final, err := p.run(NewPicker(items))
	if err != nil {
		return "", fmt.Errorf("interface prompt: %w", err)
	}
	m := final.(Picker)
	if m.Aborted {
		return "", ErrAborted
	}
	return m.Chosen, nil
}

// Confirm asks a yes/no question; anything but yes is no.
func (p Prompter) Confirm(question string) (bool, error) {
	final, err := p.run(NewConfirm(question))
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return final.(Confirm).Yes, nil
}

// Ask reads one line of free text.
func (p Prompter) Ask(question string) (string, error) {
	final, err := p.run(NewInput(question))
	if err != nil {
		return "", fmt.Errorf("input prompt: %w", err)
	}
	m := final.(Input)
	if m.Aborted {
		return "", ErrAborted
	}
	return strings.TrimSpace(m.Value), nil
}

// Picker is a cursor list over interfaces. Number keys select directly.
type Picker struct {
	Items   []iface.Interface
	Cursor  int
	Chosen  string
	Aborted bool
}

func NewPicker(items []iface.Interface) Picker {
	return Picker{Items: items}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.Aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Items)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Items) == 0 {
			m.Aborted = true
			return m, tea.Quit
		}
		m.Chosen = m.Items[m.Cursor].Name
		return m, tea.Quit
	default:
		if n, err := strconv.Atoi(key.String()); err == nil && n >= 1 && n <= len(m.Items) {
			m.Cursor = n - 1
			m.Chosen = m.Items[m.Cursor].Name
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Picker) View() string {
	if m.Chosen != "" || m.Aborted {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Available interfaces:") + "\n\n")
	for i, it := range m.Items {
		line := fmt.Sprintf("%d. %-16s (MAC: %s)", i+1, it.Name, MACOrUnknown(it.MAC))
		if i == m.Cursor {
			sb.WriteString(selectedRowStyle.Render("> "+line) + "\n")
		} else {
			sb.WriteString(normalRowStyle.Render("  "+line) + "\n")
		}
	}
	sb.WriteString("\n" + keyStyle.Render("↑/↓") + helpStyle.Render(" move  ") +
		keyStyle.Render("enter") + helpStyle.Render(" select  ") +
		keyStyle.Render("esc") + helpStyle.Render(" cancel") + "\n")
	return sb.String()
}

// Confirm is a [y/N] question.
type Confirm struct {
	Question string
	Yes      bool
	done     bool
}

func NewConfirm(question string) Confirm {
	return Confirm{Question: question}
}

func (m Confirm) Init() tea.Cmd { return nil }

func (m Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "y":
		m.Yes = true
	case "n", "enter", "esc", "ctrl+c":
		m.Yes = false
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m Confirm) View() string {
	if m.done {
		return ""
	}
	return m.Question + " " + helpStyle.Render("[y/N]") + " "
}

// Input reads a single line of text.
type Input struct {
	Question string
	Value    string
	Aborted  bool
	done     bool
}

func NewInput(question string) Input {
	return Input{Question: question}
}

func (m Input) Init() tea.Cmd { return nil }

func (m Input) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Aborted = true
		m.done = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if r := []rune(m.Value); len(r) > 0 {
			m.Value = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.Value += " "
	case tea.KeyRunes:
		m.Value += string(key.Runes)
	}
	return m, nil
}

func (m Input) View() string {
	if m.done {
		return ""
	}
	return m.Question + " " + m.Value + keyStyle.Render("_")
}

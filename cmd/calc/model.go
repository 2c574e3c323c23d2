package main

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskcalc/internal/display"
	"deskcalc/internal/engine"
	"deskcalc/internal/keymap"
)

var (
	screenFG  = lipgloss.Color("#E8E3D9")
	mutedFG   = lipgloss.Color("#8A857B")
	keyBG     = lipgloss.Color("#2B2B2B")
	pressedBG = lipgloss.Color("#D08A3E")
	errorFG   = lipgloss.Color("#FF6B6B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(mutedFG)

	displayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(screenFG).
			Width(keypadWidth).
			Align(lipgloss.Right)

	displayErrorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(errorFG).
				Width(keypadWidth).
				Align(lipgloss.Right)

	previewStyle = lipgloss.NewStyle().
			Foreground(mutedFG).
			Width(keypadWidth).
			Align(lipgloss.Right)

	keyStyle = lipgloss.NewStyle().
			Background(keyBG).
			Foreground(screenFG).
			Width(keyWidth).
			Align(lipgloss.Center)

	keyPressedStyle = keyStyle.
			Background(pressedBG).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedFG)
)

type model struct {
	state   engine.State
	pressed string
}

func newModel() model {
	return model{state: engine.New()}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		name := msg.String()

		switch name {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

		if ev, ok := keymap.Translate(name); ok {
			m.state = m.state.Apply(ev)
			if cell, ok := cellFor(name); ok {
				m.pressed = cell.input
			}
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}

		cell, ok := keyAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		if ev, ok := keymap.Translate(cell.input); ok {
			m.state = m.state.Apply(ev)
			m.pressed = cell.input
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	margin := strings.Repeat(" ", keypadLeft)

	shown := display.Format(m.state.Display)
	screen := displayStyle.Render(shown)
	if m.state.IsError() {
		screen = displayErrorStyle.Render(shown)
	}

	var b strings.Builder
	b.WriteString(margin + titleStyle.Render("deskcalc") + "\n")
	b.WriteString("\n")
	b.WriteString(margin + screen + "\n")
	b.WriteString(margin + previewStyle.Render(m.previewLine()) + "\n")
	b.WriteString("\n")
	b.WriteString(renderKeypad(m.pressed) + "\n")
	b.WriteString("\n")
	b.WriteString(margin + helpStyle.Render("0-9 . + - * / enter | c clear | backspace | q quit") + "\n")
	return b.String()
}

// previewLine shows the held operand and its pending operation, "5 +"
// style, while the second operand is being keyed in.
func (m model) previewLine() string {
	if m.state.PreviousValue == nil || m.state.Operation == engine.OpNone {
		return ""
	}

	operand := display.Format(strconv.FormatFloat(*m.state.PreviousValue, 'f', -1, 64))
	return operand + " " + m.state.Operation.Symbol()
}

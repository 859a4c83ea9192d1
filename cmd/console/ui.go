package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/story-locations/pkg/render"
	"github.com/jwebster45206/story-locations/pkg/world"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "Type a direction, or /help..."

var (
	panelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	placeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow
)

// Explorer is the BubbleTea model for walking the world map.
// https://github.com/charmbracelet/bubbletea
type Explorer struct {
	world    *world.Registry
	current  int
	input    textinput.Model
	viewport viewport.Model
	history  []string
	status   string
	ready    bool
	width    int

	copyToClipboard func(string) error
}

func NewExplorer(reg *world.Registry, start int) Explorer {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 200
	ti.Focus()

	m := Explorer{
		world:           reg,
		current:         start,
		input:           ti,
		viewport:        viewport.New(80, 20),
		width:           80,
		copyToClipboard: clipboard.WriteAll,
	}
	m.look()
	return m
}

func (m Explorer) Init() tea.Cmd {
	return textinput.Blink
}

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		m.viewport.Width = m.width
		m.viewport.Height = msg.Height - 6
		m.input.Width = m.width - 4
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if input == "" {
				return m, nil
			}
			if input == "/quit" {
				return m, tea.Quit
			}
			m.handleInput(input)
			return m, nil
		}
	}

	m.input, tiCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m Explorer) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LOCATIONS") + "\n")
	b.WriteString(m.viewport.View() + "\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	b.WriteString(m.input.View())
	return panelStyle.Render(b.String())
}

func (m *Explorer) handleInput(input string) {
	m.status = ""
	m.history = append(m.history, userStyle.Render("> "+input))

	switch input {
	case "/help":
		m.say("Type a direction to move. Commands: /look, /exits, /copy, /quit")
	case "/look":
		m.look()
	case "/exits":
		m.listExits()
	case "/copy":
		m.copyDescription()
	default:
		if strings.HasPrefix(input, "/") {
			m.fail(fmt.Sprintf("Unknown command %s", input))
			break
		}
		m.move(input)
	}
	m.refresh()
}

func (m *Explorer) here() (*world.Location, bool) {
	return m.world.Get(m.current)
}

func (m *Explorer) look() {
	loc, ok := m.here()
	if !ok {
		m.fail(fmt.Sprintf("Location %d does not exist.", m.current))
		return
	}
	m.history = append(m.history, placeStyle.Render(render.Describe(loc, m.world, m.textWidth())))
	m.refresh()
}

func (m *Explorer) listExits() {
	loc, ok := m.here()
	if !ok {
		m.fail(fmt.Sprintf("Location %d does not exist.", m.current))
		return
	}
	exits := loc.Exits()
	if len(exits) == 0 {
		m.say("There are no exits.")
		return
	}
	lines := make([]string, 0, len(exits))
	for _, exit := range exits {
		lines = append(lines, render.ExitLine(exit, m.world))
	}
	m.say(strings.Join(lines, "\n"))
}

func (m *Explorer) move(input string) {
	loc, ok := m.here()
	if !ok {
		m.fail(fmt.Sprintf("Location %d does not exist.", m.current))
		return
	}

	direction, ok := matchExit(loc, input)
	if !ok {
		m.fail("You can't go that way.")
		return
	}
	dest, _ := loc.Exit(direction)
	if !m.world.Contains(dest) {
		m.fail(fmt.Sprintf("The way %s leads nowhere (location %d does not exist).", render.ExitLabel(direction), dest))
		return
	}

	m.current = dest
	m.look()
}

func (m *Explorer) copyDescription() {
	loc, ok := m.here()
	if !ok {
		m.fail(fmt.Sprintf("Location %d does not exist.", m.current))
		return
	}
	if err := m.copyToClipboard(loc.Description()); err != nil {
		m.fail("Could not copy to clipboard: " + err.Error())
		return
	}
	m.status = "Description copied to clipboard."
}

// matchExit finds the exit named by input: an exact name first, then any exit
// with the same display label ("north" matches "N").
func matchExit(loc *world.Location, input string) (string, bool) {
	if _, ok := loc.Exit(input); ok {
		return input, true
	}
	label := render.ExitLabel(input)
	for _, exit := range loc.Exits() {
		if strings.EqualFold(render.ExitLabel(exit.Direction), label) {
			return exit.Direction, true
		}
	}
	return "", false
}

func (m *Explorer) say(text string) {
	m.history = append(m.history, wordwrap.String(text, m.textWidth()))
}

func (m *Explorer) fail(text string) {
	m.history = append(m.history, errorStyle.Render(wordwrap.String(text, m.textWidth())))
}

func (m *Explorer) textWidth() int {
	if m.width < 24 {
		return 20
	}
	return m.width - 4
}

func (m *Explorer) refresh() {
	m.viewport.SetContent(strings.Join(m.history, "\n\n"))
	m.viewport.GotoBottom()
}

// Command keypanelsim runs the keypad panel in a terminal. The LCD is drawn
// from an in-memory grid and the keyboard stands in for the 4x4 keypad.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harveysanders/keypanel/keypanel/config"
	"github.com/harveysanders/keypanel/keypanel/keypad"
	"github.com/harveysanders/keypanel/keypanel/lcd"
	"github.com/harveysanders/keypanel/keypanel/panel"
	"github.com/harveysanders/keypanel/keypanel/periph"
)

const tickInterval = 20 * time.Millisecond

var (
	lcdStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4AD1FF")).
			Background(lipgloss.Color("#1C3A1C")).
			Foreground(lipgloss.Color("#C8F7C5")).
			Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	beepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD14A")).Bold(true)
)

type keyMap struct {
	Keypad key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Keypad: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
				"a", "b", "c", "d", "A", "B", "C", "D", "*", "#"),
			key.WithHelp("0-9 a-d * #", "keypad"),
		),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "scroll up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "scroll down")),
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "scroll left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll right")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// light is a periph.Switch that only remembers its state.
type light struct{ on bool }

func (l *light) Set(on bool) { l.on = on }

type model struct {
	panel   *panel.Panel
	grid    *lcd.Grid
	queue   *keypad.Queue
	keys    keyMap
	buzzer  *light
	led     *light
	commits <-chan panel.Entry
	last    string
}

func (m *model) Init() tea.Cmd { return tick() }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.panel.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.panel.ScrollDown()
		case key.Matches(msg, m.keys.Left):
			m.panel.ScrollLeft()
		case key.Matches(msg, m.keys.Right):
			m.panel.ScrollRight()
		case key.Matches(msg, m.keys.Keypad):
			m.queue.PushString(strings.ToUpper(msg.String()))
		}
	case tickMsg:
		m.panel.Tick()
		select {
		case e := <-m.commits:
			m.last = e.Text
		default:
		}
		return m, tick()
	}
	return m, nil
}

func (m *model) View() string {
	col, row, visible := m.grid.Cursor()
	lines := make([]string, m.grid.Rows())
	for r := range lines {
		line := m.grid.Line(r)
		if visible && r == row && col < len(line) {
			line = line[:col] + cursorStyle.Render(line[col:col+1]) + line[col+1:]
		}
		lines[r] = line
	}

	var b strings.Builder
	b.WriteString(lcdStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	state := fmt.Sprintf("state: %s", m.panel.Menu().State())
	if m.led.on {
		state += "  led: on"
	}
	b.WriteString(dimStyle.Render(state))
	if m.buzzer.on {
		b.WriteString("  " + beepStyle.Render("beep"))
	}
	if m.last != "" {
		b.WriteString("\n" + dimStyle.Render("last commit: "+m.last))
	}
	b.WriteString("\n\n")
	for _, k := range []key.Binding{m.keys.Keypad, m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Quit} {
		h := k.Help()
		b.WriteString(dimStyle.Render(h.Key+" "+h.Desc) + "  ")
	}
	return b.String()
}

func newModel(cfg config.Config, clock panel.Clock, logger *slog.Logger) *model {
	grid := lcd.NewGrid(cfg.Display.Columns, cfg.Display.Rows)
	queue := &keypad.Queue{}
	outputs := periph.NewRegistry(logger)
	buzzer, led := &light{}, &light{}
	commits := make(chan panel.Entry, 8)

	opts := panel.OptionsFrom(cfg)
	opts.Outputs = outputs
	opts.Buzzer = outputs.Register("buzzer", buzzer)
	opts.LED = outputs.Register("led", led)
	opts.Commits = commits

	p := panel.New(grid, queue, clock, opts, logger)
	p.Init()
	return &model{
		panel:   p,
		grid:    grid,
		queue:   queue,
		keys:    newKeyMap(),
		buzzer:  buzzer,
		led:     led,
		commits: commits,
	}
}

func main() {
	configPath := flag.String("config", "keypanel/config.toml", "path to the panel configuration")
	logPath := flag.String("log", "keypanelsim.log", "log file")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	m := newModel(cfg, panel.NewSystemClock(), logger)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "keypanelsim:", err)
		os.Exit(1)
	}
}

// Package menu implements the keypad driven menu: a small state machine
// over fixed screens plus a text entry screen with an editable cursor.
package menu

import (
	"io"
	"log/slog"
)

// State is a menu screen.
type State uint8

const (
	Main State = iota
	Sub
	Settings
	About
	Input
)

func (s State) String() string {
	switch s {
	case Main:
		return "main"
	case Sub:
		return "sub"
	case Settings:
		return "settings"
	case About:
		return "about"
	case Input:
		return "input"
	}
	return "unknown"
}

// Result describes what a key did.
type Result uint8

const (
	// Ignored means no rule matched the key.
	Ignored Result = iota
	// Unchanged means a rule matched but nothing visible changed, e.g. a
	// character dropped because the editor is full.
	Unchanged
	// Redrawn means the current screen was rendered.
	Redrawn
	// Committed means input was committed and the commit notice is shown
	// instead of the Main screen.
	Committed
)

// Display is what the menu needs from the screen.
type Display interface {
	Show(text string)
	Columns() int
	Rows() int
	PlaceCursor(col, row int)
	ShowCursor(on bool)
}

// Labels are the fixed texts of each screen. Every entry of a line list
// takes one display row.
type Labels struct {
	Main         []string `toml:"main"`
	Sub          []string `toml:"sub"`
	Settings     []string `toml:"settings"`
	About        []string `toml:"about"`
	Prompt       string   `toml:"prompt"`
	CommitPrefix string   `toml:"commit_prefix"`
}

// DefaultLabels returns the stock 16x2 texts.
func DefaultLabels() Labels {
	return Labels{
		Main:         []string{"1.Sub Menu", "2.Settings"},
		Sub:          []string{"Sub Menu Active", "#.Back"},
		Settings:     []string{"Settings Menu", "#.Back"},
		About:        []string{"About This App", "Ver 1.0"},
		Prompt:       "Enter Text:",
		CommitPrefix: "Input: ",
	}
}

// Options configure a Machine.
type Options struct {
	Labels Labels
	// CursorKeys makes 'A' and 'D' move the input cursor instead of being
	// typed.
	CursorKeys bool
	// OnCommit receives the text committed with '#'.
	OnCommit func(text string)
	// InputLimit is the editor capacity used when the display reports no
	// geometry.
	InputLimit int
}

// Machine is the menu state machine. It starts on Main and never stops.
type Machine struct {
	display Display
	logger  *slog.Logger
	opts    Options

	state  State
	editor *Editor
}

// New returns a Machine on the Main screen. Nothing is drawn until Refresh.
func New(display Display, opts Options, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	def := DefaultLabels()
	if opts.Labels.Main == nil {
		opts.Labels.Main = def.Main
	}
	if opts.Labels.Sub == nil {
		opts.Labels.Sub = def.Sub
	}
	if opts.Labels.Settings == nil {
		opts.Labels.Settings = def.Settings
	}
	if opts.Labels.About == nil {
		opts.Labels.About = def.About
	}
	if opts.Labels.Prompt == "" {
		opts.Labels.Prompt = def.Prompt
	}
	if opts.Labels.CommitPrefix == "" {
		opts.Labels.CommitPrefix = def.CommitPrefix
	}
	return &Machine{display: display, logger: logger, opts: opts, state: Main}
}

func (m *Machine) State() State { return m.state }

// Editor returns the live input editor, or nil outside the Input screen.
func (m *Machine) Editor() *Editor { return m.editor }

// HandleKey applies one key event.
func (m *Machine) HandleKey(key byte) Result {
	switch m.state {
	case Main:
		switch key {
		case '1':
			return m.enter(Sub)
		case '2':
			return m.enter(Settings)
		case '3':
			return m.enter(About)
		case '*':
			return m.enter(Input)
		}
	case Sub, Settings, About:
		if key == '#' {
			return m.enter(Main)
		}
	case Input:
		return m.handleInput(key)
	}
	return Ignored
}

func (m *Machine) handleInput(key byte) Result {
	if m.opts.CursorKeys {
		switch key {
		case 'A':
			return m.edited(m.editor.MoveLeft())
		case 'D':
			return m.edited(m.editor.MoveRight())
		}
	}
	switch {
	case isDigit(key) || (key >= 'A' && key <= 'D'):
		ok := m.editor.Insert(key)
		if !ok {
			m.logger.Debug("menu:input-full", slog.Int("limit", m.editor.Limit()))
		}
		return m.edited(ok)
	case key == '*':
		return m.edited(m.editor.DeleteBack())
	case key == '#':
		return m.commit()
	}
	return Ignored
}

func (m *Machine) edited(changed bool) Result {
	if !changed {
		return Unchanged
	}
	m.Refresh()
	return Redrawn
}

func (m *Machine) commit() Result {
	text := m.editor.String()
	m.display.ShowCursor(false)
	m.state = Main
	m.editor = nil
	m.logger.Info("menu:commit", slog.Int("len", len(text)))
	m.display.Show(m.opts.Labels.CommitPrefix + text)
	if m.opts.OnCommit != nil {
		m.opts.OnCommit(text)
	}
	return Committed
}

func (m *Machine) enter(s State) Result {
	m.logger.Debug("menu:enter", slog.String("from", m.state.String()), slog.String("to", s.String()))
	if m.state == Input && s != Input {
		m.editor = nil
	}
	m.state = s
	if s == Input {
		m.editor = NewEditor(m.inputLimit())
		m.editor.Clear()
	} else {
		m.display.ShowCursor(false)
	}
	m.Refresh()
	return Redrawn
}

// inputLimit leaves the first row for the prompt.
func (m *Machine) inputLimit() int {
	if cells := m.display.Columns() * m.display.Rows(); cells > 0 {
		return cells - 1
	}
	return m.opts.InputLimit
}

// Refresh redraws the current screen from scratch.
func (m *Machine) Refresh() {
	cols := m.display.Columns()
	switch m.state {
	case Main:
		m.display.Show(layout(m.opts.Labels.Main, cols))
	case Sub:
		m.display.Show(layout(m.opts.Labels.Sub, cols))
	case Settings:
		m.display.Show(layout(m.opts.Labels.Settings, cols))
	case About:
		m.display.Show(layout(m.opts.Labels.About, cols))
	case Input:
		m.display.Show(layout([]string{m.opts.Labels.Prompt}, cols) + m.editor.String())
		m.placeCursor()
	}
}

// placeCursor puts the hardware cursor on the editor cursor. Input starts
// on the row below the prompt; positions past the grid clamp to the last
// cell.
func (m *Machine) placeCursor() {
	cols, rows := m.display.Columns(), m.display.Rows()
	if cols <= 0 || rows <= 0 {
		return
	}
	pos := m.editor.Cursor()
	row := 1 + pos/cols
	col := pos % cols
	if row >= rows {
		row, col = rows-1, cols-1
	}
	m.display.PlaceCursor(col, row)
}

// layout pads or truncates each line to cols so it fills one logical line.
func layout(lines []string, cols int) string {
	if cols <= 0 {
		return ""
	}
	buf := make([]byte, 0, len(lines)*cols)
	for _, l := range lines {
		if len(l) > cols {
			l = l[:cols]
		}
		buf = append(buf, l...)
		for i := len(l); i < cols; i++ {
			buf = append(buf, ' ')
		}
	}
	return string(buf)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

package menu

import (
	"strings"
	"testing"

	"github.com/harveysanders/keypanel/keypanel/lcd"
)

func newMachine(t *testing.T, opts Options) (*Machine, *lcd.Screen, *lcd.Grid) {
	t.Helper()
	g := lcd.NewGrid(16, 2)
	s := lcd.NewScreen(g, nil)
	s.Init()
	m := New(s, opts, nil)
	m.Refresh()
	return m, s, g
}

func press(m *Machine, keys string) {
	for i := 0; i < len(keys); i++ {
		m.HandleKey(keys[i])
	}
}

func TestMainScreenOnRefresh(t *testing.T) {
	_, _, g := newMachine(t, Options{})
	if got := g.Line(0); got != "1.Sub Menu      " {
		t.Fatalf("row 0 = %q", got)
	}
	if got := g.Line(1); got != "2.Settings      " {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestSubMenuRoundTrip(t *testing.T) {
	m, _, g := newMachine(t, Options{})
	if r := m.HandleKey('1'); r != Redrawn || m.State() != Sub {
		t.Fatalf("'1' = %v, state %v", r, m.State())
	}
	if got := strings.TrimSpace(g.Line(0)); got != "Sub Menu Active" {
		t.Fatalf("row 0 = %q", got)
	}
	if r := m.HandleKey('#'); r != Redrawn || m.State() != Main {
		t.Fatalf("'#' = %v, state %v", r, m.State())
	}
	if got := strings.TrimSpace(g.Line(0)); got != "1.Sub Menu" {
		t.Fatalf("row 0 = %q", got)
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		keys string
		want State
	}{
		{keys: "2", want: Settings},
		{keys: "3", want: About},
		{keys: "2#", want: Main},
		{keys: "3#", want: Main},
		{keys: "*", want: Input},
		{keys: "21", want: Settings},
		{keys: "3*", want: About},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			m, _, _ := newMachine(t, Options{})
			press(m, tt.keys)
			if m.State() != tt.want {
				t.Fatalf("state = %v, want %v", m.State(), tt.want)
			}
		})
	}
}

func TestUnmatchedKeysAreIgnored(t *testing.T) {
	m, _, g := newMachine(t, Options{})
	writes, clears := g.Writes, g.Clears
	for _, k := range []byte("0456789ABCD#") {
		if r := m.HandleKey(k); r != Ignored {
			t.Fatalf("HandleKey(%q) = %v, want Ignored", k, r)
		}
	}
	if g.Writes != writes || g.Clears != clears {
		t.Fatal("ignored key rendered on Main")
	}
	m.HandleKey('1')
	writes, clears = g.Writes, g.Clears
	for _, k := range []byte("123*ABCD0") {
		if r := m.HandleKey(k); r != Ignored {
			t.Fatalf("Sub HandleKey(%q) = %v, want Ignored", k, r)
		}
	}
	if g.Writes != writes || g.Clears != clears {
		t.Fatal("ignored key rendered")
	}
	if m.State() != Sub {
		t.Fatalf("state = %v", m.State())
	}
}

func TestEnterInput(t *testing.T) {
	m, _, g := newMachine(t, Options{})
	if m.Editor() != nil {
		t.Fatal("editor live outside Input")
	}
	m.HandleKey('*')
	if m.State() != Input {
		t.Fatalf("state = %v", m.State())
	}
	e := m.Editor()
	if e == nil || e.Len() != 0 || e.Cursor() != 0 {
		t.Fatalf("editor = %+v", e)
	}
	if e.Limit() != 31 {
		t.Fatalf("limit = %d, want 31", e.Limit())
	}
	if got := strings.TrimSpace(g.Line(0)); got != "Enter Text:" {
		t.Fatalf("row 0 = %q", got)
	}
	m.HandleKey('A')
	if e.String() != "A" || e.Cursor() != 1 {
		t.Fatalf("editor = %q cursor %d", e.String(), e.Cursor())
	}
	if got := g.Line(1); got != "A               " {
		t.Fatalf("row 1 = %q", got)
	}
	if col, row, _ := g.Cursor(); col != 1 || row != 1 {
		t.Fatalf("cursor = (%d, %d), want (1, 1)", col, row)
	}
}

func TestInputEditingKeys(t *testing.T) {
	m, _, g := newMachine(t, Options{})
	press(m, "*12B")
	if r := m.HandleKey('*'); r != Redrawn {
		t.Fatalf("delete = %v", r)
	}
	if got := m.Editor().String(); got != "12" {
		t.Fatalf("editor = %q", got)
	}
	if got := g.Line(1)[:2]; got != "12" {
		t.Fatalf("row 1 = %q", g.Line(1))
	}
	if r := m.HandleKey('#'); r != Committed {
		t.Fatalf("commit = %v", r)
	}
}

func TestCursorKeys(t *testing.T) {
	m, _, g := newMachine(t, Options{CursorKeys: true})
	press(m, "*AB")
	e := m.Editor()
	if e.String() != "B" {
		t.Fatalf("editor = %q, 'A' must not be typed with cursor keys", e.String())
	}
	if r := m.HandleKey('A'); r != Redrawn || e.Cursor() != 0 {
		t.Fatalf("'A' = %v cursor %d", r, e.Cursor())
	}
	if r := m.HandleKey('A'); r != Unchanged {
		t.Fatalf("'A' at 0 = %v, want Unchanged", r)
	}
	if col, row, _ := g.Cursor(); col != 0 || row != 1 {
		t.Fatalf("cursor = (%d, %d), want (0, 1)", col, row)
	}
	m.HandleKey('C')
	if e.String() != "CB" {
		t.Fatalf("editor = %q", e.String())
	}
	m.HandleKey('D')
	if m.HandleKey('D') != Unchanged || e.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", e.Cursor())
	}
}

func TestMoveLeftDeleteBackScenario(t *testing.T) {
	m, _, _ := newMachine(t, Options{CursorKeys: true})
	press(m, "*BC")
	e := m.Editor()
	press(m, "A*")
	if e.String() != "C" || e.Cursor() != 0 {
		t.Fatalf("editor = %q cursor %d, want %q cursor 0", e.String(), e.Cursor(), "C")
	}
}

func TestInputLimit(t *testing.T) {
	m, _, g := newMachine(t, Options{})
	m.HandleKey('*')
	press(m, strings.Repeat("7", 31))
	e := m.Editor()
	if e.Len() != 31 {
		t.Fatalf("len = %d", e.Len())
	}
	writes := g.Writes
	if r := m.HandleKey('8'); r != Unchanged {
		t.Fatalf("insert past limit = %v, want Unchanged", r)
	}
	if e.Len() != 31 || strings.Contains(e.String(), "8") {
		t.Fatalf("editor changed past limit: %q", e.String())
	}
	if g.Writes != writes {
		t.Fatal("dropped key rendered")
	}
	// Cursor past the grid clamps to the last cell.
	if col, row, _ := g.Cursor(); col != 15 || row != 1 {
		t.Fatalf("cursor = (%d, %d), want (15, 1)", col, row)
	}
}

func TestCursorWrapsToNextRow(t *testing.T) {
	g := lcd.NewGrid(16, 4)
	s := lcd.NewScreen(g, nil)
	s.Init()
	m := New(s, Options{}, nil)
	m.HandleKey('*')
	press(m, strings.Repeat("1", 17))
	if col, row, _ := g.Cursor(); col != 1 || row != 2 {
		t.Fatalf("cursor = (%d, %d), want (1, 2)", col, row)
	}
}

func TestCommit(t *testing.T) {
	var committed []string
	m, _, g := newMachine(t, Options{OnCommit: func(s string) { committed = append(committed, s) }})
	press(m, "*42")
	g.ShowCursor(true)
	if r := m.HandleKey('#'); r != Committed {
		t.Fatalf("'#' = %v", r)
	}
	if m.State() != Main || m.Editor() != nil {
		t.Fatalf("state = %v editor = %v", m.State(), m.Editor())
	}
	if _, _, on := g.Cursor(); on {
		t.Fatal("cursor visible after commit")
	}
	if got := strings.TrimSpace(g.Line(0)); got != "Input: 42" {
		t.Fatalf("row 0 = %q", got)
	}
	if len(committed) != 1 || committed[0] != "42" {
		t.Fatalf("committed = %q", committed)
	}
	m.Refresh()
	if got := strings.TrimSpace(g.Line(0)); got != "1.Sub Menu" {
		t.Fatalf("row 0 after refresh = %q", got)
	}
}

func TestReenterInputStartsEmpty(t *testing.T) {
	m, _, _ := newMachine(t, Options{})
	press(m, "*99#*")
	if m.Editor().Len() != 0 {
		t.Fatalf("editor = %q", m.Editor().String())
	}
}

func TestCustomLabels(t *testing.T) {
	m, _, g := newMachine(t, Options{Labels: Labels{
		Main:   []string{"Safe locked", "* to unlock a long label"},
		Prompt: "PIN:",
	}})
	if got := g.Line(1); got != "* to unlock a lo" {
		t.Fatalf("row 1 = %q", got)
	}
	m.HandleKey('*')
	if got := strings.TrimSpace(g.Line(0)); got != "PIN:" {
		t.Fatalf("row 0 = %q", got)
	}
	m.HandleKey('1')
	m.HandleKey('#')
	if got := strings.TrimSpace(g.Line(0)); got != "Input: 1" {
		t.Fatalf("commit uses default prefix, row 0 = %q", got)
	}
}

func TestNotReadyDisplay(t *testing.T) {
	s := lcd.NewScreen(lcd.NewGrid(0, 0), nil)
	s.Init()
	var committed string
	m := New(s, Options{InputLimit: 31, OnCommit: func(text string) { committed = text }}, nil)
	m.Refresh()
	press(m, "*12")
	if m.State() != Input {
		t.Fatalf("state = %v, want Input", m.State())
	}
	if got := m.Editor().String(); got != "12" {
		t.Fatalf("editor = %q, want %q", got, "12")
	}
	press(m, "#")
	if committed != "12" {
		t.Fatalf("committed %q, want %q", committed, "12")
	}
	press(m, "1")
	if m.State() != Sub {
		t.Fatalf("state = %v, want Sub", m.State())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Main: "main", Sub: "sub", Settings: "settings", About: "about", Input: "input", State(9): "unknown"} {
		if s.String() != want {
			t.Fatalf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

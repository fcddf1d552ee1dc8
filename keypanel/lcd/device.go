// Package lcd drives a fixed-size character display from a text buffer of
// any length.
//
// The buffer has no line breaks. It is cut into logical lines exactly as
// wide as the display and a scroll window selects which of them are shown:
//
//	dev := lcd.NewGrid(16, 2)
//	screen := lcd.NewScreen(dev, logger)
//	screen.Init()
//	screen.Print("a long status message that does not fit")
//	screen.ScrollUp()
package lcd

// Device is the capability set the Screen needs from a physical display.
//
// A device that is not ready reports zero columns or rows. The Screen turns
// every operation into a no-op in that case.
type Device interface {
	// WriteAt writes text starting at the given cell. Text past the end of
	// the row is the device's problem; the Screen never sends any.
	WriteAt(col, row int, text []byte)
	// Clear blanks every cell.
	Clear()
	// SetCursor moves the hardware cursor to a cell.
	SetCursor(col, row int)
	// ShowCursor toggles the hardware cursor.
	ShowCursor(on bool)
	Columns() int
	Rows() int
}

// Grid is an in-memory Device. It backs the desktop simulator and tests.
type Grid struct {
	cols, rows int
	cells      [][]byte

	cursorCol, cursorRow int
	cursorOn             bool

	// Writes counts WriteAt calls and Clears counts Clear calls.
	Writes int
	Clears int
}

// NewGrid returns a blank grid. Non-positive dimensions yield a grid that
// reports itself as not ready.
func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{cols: cols, rows: rows, cells: make([][]byte, rows)}
	for r := range g.cells {
		g.cells[r] = make([]byte, cols)
	}
	g.blank()
	return g
}

func (g *Grid) blank() {
	for _, row := range g.cells {
		for i := range row {
			row[i] = ' '
		}
	}
}

func (g *Grid) WriteAt(col, row int, text []byte) {
	g.Writes++
	if row < 0 || row >= g.rows || col < 0 {
		return
	}
	for i, c := range text {
		if col+i >= g.cols {
			break
		}
		g.cells[row][col+i] = c
	}
}

func (g *Grid) Clear() {
	g.Clears++
	g.blank()
}

func (g *Grid) SetCursor(col, row int) {
	g.cursorCol, g.cursorRow = col, row
}

func (g *Grid) ShowCursor(on bool) { g.cursorOn = on }

func (g *Grid) Columns() int { return g.cols }

func (g *Grid) Rows() int { return g.rows }

// Line returns the contents of a row, or "" if row is out of range.
func (g *Grid) Line(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	return string(g.cells[row])
}

// Cursor reports the hardware cursor position and visibility.
func (g *Grid) Cursor() (col, row int, visible bool) {
	return g.cursorCol, g.cursorRow, g.cursorOn
}

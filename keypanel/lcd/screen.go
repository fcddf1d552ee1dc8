package lcd

import (
	"io"
	"log/slog"
)

// Screen holds every printed character as one stream and maps a window of
// it onto the Device.
//
// Scroll offsets are always clamped: vertical to [0, max(0, lines-rows)]
// and horizontal to the overflow of the widest visible line.
type Screen struct {
	dev    Device
	logger *slog.Logger

	cols, rows int
	buf        []byte

	vertical   int
	horizontal int
}

// NewScreen returns a Screen bound to dev. Call Init before use.
func NewScreen(dev Device, logger *slog.Logger) *Screen {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Screen{dev: dev, logger: logger}
}

// Init reads the device geometry and clears it. A device reporting no
// geometry leaves the Screen inert.
func (s *Screen) Init() {
	s.cols, s.rows = 0, 0
	if s.dev != nil {
		s.cols, s.rows = s.dev.Columns(), s.dev.Rows()
	}
	if !s.ready() {
		s.logger.Warn("lcd:not-ready", slog.Int("cols", s.cols), slog.Int("rows", s.rows))
		return
	}
	s.buf = s.buf[:0]
	s.vertical, s.horizontal = 0, 0
	s.dev.Clear()
}

func (s *Screen) ready() bool {
	return s.dev != nil && s.cols > 0 && s.rows > 0
}

// Ready reports whether Init found a usable device.
func (s *Screen) Ready() bool { return s.ready() }

func (s *Screen) Columns() int { return s.cols }

func (s *Screen) Rows() int { return s.rows }

// Len is the number of buffered characters.
func (s *Screen) Len() int { return len(s.buf) }

// Text returns a copy of the buffer.
func (s *Screen) Text() string { return string(s.buf) }

// TotalLines is ceil(Len / Columns).
func (s *Screen) TotalLines() int {
	if s.cols <= 0 {
		return 0
	}
	return (len(s.buf) + s.cols - 1) / s.cols
}

// Offsets returns the vertical and horizontal scroll indices.
func (s *Screen) Offsets() (vertical, horizontal int) {
	return s.vertical, s.horizontal
}

func (s *Screen) maxVertical() int {
	return max(0, s.TotalLines()-s.rows)
}

// maxHorizontal is the overflow of the longest visible line. A row shows the
// buffer from its first character to the end, so the first visible row is
// always the longest.
func (s *Screen) maxHorizontal() int {
	start := s.vertical * s.cols
	if start >= len(s.buf) {
		return 0
	}
	return max(0, len(s.buf)-start-s.cols)
}

// Print appends text and snaps the window to the newest content.
func (s *Screen) Print(text string) {
	if !s.ready() {
		return
	}
	s.buf = append(s.buf, text...)
	s.snap()
	s.Render()
}

// Show replaces the buffer with text and renders once.
func (s *Screen) Show(text string) {
	if !s.ready() {
		return
	}
	s.buf = append(s.buf[:0], text...)
	s.snap()
	s.Render()
}

func (s *Screen) snap() {
	s.vertical = s.maxVertical()
	s.horizontal = 0
}

// Clear empties the buffer, resets scrolling and blanks the device.
func (s *Screen) Clear() {
	if !s.ready() {
		return
	}
	s.buf = s.buf[:0]
	s.vertical, s.horizontal = 0, 0
	s.dev.Clear()
}

// ScrollUp moves the window one line towards the start of the buffer.
// It reports whether the window moved.
func (s *Screen) ScrollUp() bool { return s.scrollVertical(-1) }

// ScrollDown moves the window one line towards the end of the buffer.
func (s *Screen) ScrollDown() bool { return s.scrollVertical(1) }

// ScrollLeft moves the window one character left.
func (s *Screen) ScrollLeft() bool { return s.scrollHorizontal(-1) }

// ScrollRight moves the window one character right.
func (s *Screen) ScrollRight() bool { return s.scrollHorizontal(1) }

func (s *Screen) scrollVertical(delta int) bool {
	if !s.ready() {
		return false
	}
	next := clamp(s.vertical+delta, 0, s.maxVertical())
	if next == s.vertical {
		return false
	}
	s.vertical = next
	// A different window may have less overflow.
	s.horizontal = min(s.horizontal, s.maxHorizontal())
	s.Render()
	return true
}

func (s *Screen) scrollHorizontal(delta int) bool {
	if !s.ready() {
		return false
	}
	next := clamp(s.horizontal+delta, 0, s.maxHorizontal())
	if next == s.horizontal {
		return false
	}
	s.horizontal = next
	s.Render()
	return true
}

// Render clears the device once and writes every visible logical line.
// Rows past the end of the buffer stay blank.
func (s *Screen) Render() {
	if !s.ready() {
		return
	}
	s.dev.Clear()
	total := s.TotalLines()
	for r := 0; r < s.rows; r++ {
		line := s.vertical + r
		if line >= total {
			break
		}
		s.dev.WriteAt(0, r, s.visible(line))
	}
}

// visible returns the slice of the buffer shown for a logical line.
func (s *Screen) visible(line int) []byte {
	seg := s.buf[line*s.cols:]
	if len(seg) <= s.cols {
		return seg
	}
	if s.horizontal >= len(seg) {
		return nil
	}
	seg = seg[s.horizontal:]
	if len(seg) > s.cols {
		seg = seg[:s.cols]
	}
	return seg
}

// PlaceCursor moves the hardware cursor, clamped to the grid.
func (s *Screen) PlaceCursor(col, row int) {
	if !s.ready() {
		return
	}
	s.dev.SetCursor(clamp(col, 0, s.cols-1), clamp(row, 0, s.rows-1))
}

// ShowCursor toggles the hardware cursor.
func (s *Screen) ShowCursor(on bool) {
	if !s.ready() {
		return
	}
	s.dev.ShowCursor(on)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

//go:build tinygo

package lcd

import (
	"tinygo.org/x/drivers/hd44780i2c"
)

// HD44780 adapts an I2C backpacked HD44780 character LCD to Device.
type HD44780 struct {
	dev     *hd44780i2c.Device
	columns int
	rows    int
}

// NewHD44780 wraps a configured device. Pass the same geometry the device
// was configured with; a nil device yields a Device that is not ready.
func NewHD44780(dev *hd44780i2c.Device, columns, rows int) *HD44780 {
	if dev == nil {
		columns, rows = 0, 0
	}
	return &HD44780{dev: dev, columns: columns, rows: rows}
}

func (h *HD44780) WriteAt(col, row int, text []byte) {
	if h.dev == nil || len(text) == 0 {
		return
	}
	// Truncate in-place, no allocation
	if len(text) > h.columns-col {
		text = text[:max(0, h.columns-col)]
	}
	h.dev.SetCursor(uint8(col), uint8(row))
	h.dev.Print(text)
}

func (h *HD44780) Clear() {
	if h.dev == nil {
		return
	}
	h.dev.ClearDisplay()
}

func (h *HD44780) SetCursor(col, row int) {
	if h.dev == nil {
		return
	}
	h.dev.SetCursor(uint8(col), uint8(row))
}

func (h *HD44780) ShowCursor(on bool) {
	if h.dev == nil {
		return
	}
	h.dev.CursorOn(on)
}

func (h *HD44780) Columns() int { return h.columns }

func (h *HD44780) Rows() int { return h.rows }

//go:build tinygo

package keypad

import (
	"machine"

	"tinygo.org/x/drivers/keypad4x4"
)

// Pins lists the row and column lines of a 4x4 keypad, top-left first.
// The key on Rows[0] and Columns[0] is driver code 0.
type Pins struct {
	Rows    [4]machine.Pin
	Columns [4]machine.Pin
}

// NewMatrix4x4 configures the keypad4x4 driver on pins and wraps it in a
// Matrix.
func NewMatrix4x4(pins Pins, layout Layout) *Matrix {
	p := driverOrder(pins.Rows, pins.Columns)
	dev := keypad4x4.NewDevice(p[0], p[1], p[2], p[3], p[4], p[5], p[6], p[7])
	dev.Configure()
	return NewMatrix(dev.GetKey, layout)
}

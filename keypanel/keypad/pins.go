package keypad

// driverOrder lists row and column lines in the argument order of
// keypad4x4.NewDevice. The driver reports code row*4+col, so Rows[0] with
// Columns[0] is code 0, the top-left key of the layout.
func driverOrder[P any](rows, columns [4]P) [8]P {
	return [8]P{
		rows[0], rows[1], rows[2], rows[3],
		columns[0], columns[1], columns[2], columns[3],
	}
}

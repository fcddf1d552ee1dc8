// Package keypad turns matrix keypad scans into discrete key events.
package keypad

// Keypad is polled once per loop tick. PollKey never blocks and reports
// false when no new key was pressed.
type Keypad interface {
	PollKey() (key byte, ok bool)
}

// NoKey is the raw scan value for "nothing pressed".
const NoKey = 255

// DefaultLayout is the legend of a 4x4 membrane keypad, row-major.
const DefaultLayout = "123A456B789C*0#D"

// Layout maps raw key indices to key legends.
type Layout string

// Key returns the legend for a raw index.
func (l Layout) Key(index uint8) (byte, bool) {
	if int(index) >= len(l) {
		return 0, false
	}
	return l[index], true
}

// Matrix reports a key once per press. A held key is not repeated; it must
// be released (or another key pressed) before it is reported again.
type Matrix struct {
	scan   func() uint8
	layout Layout
	last   uint8
}

// NewMatrix wraps a raw scanner returning a key index or NoKey.
func NewMatrix(scan func() uint8, layout Layout) *Matrix {
	if layout == "" {
		layout = DefaultLayout
	}
	return &Matrix{scan: scan, layout: layout, last: NoKey}
}

func (m *Matrix) PollKey() (byte, bool) {
	if m == nil || m.scan == nil {
		return 0, false
	}
	idx := m.scan()
	if idx == m.last {
		return 0, false
	}
	m.last = idx
	if idx == NoKey {
		return 0, false
	}
	return m.layout.Key(idx)
}

// Queue is a Keypad fed by Push. The simulator and tests use it.
type Queue struct {
	keys []byte
}

// Push queues keys in order.
func (q *Queue) Push(keys ...byte) {
	q.keys = append(q.keys, keys...)
}

// PushString queues every byte of s.
func (q *Queue) PushString(s string) {
	q.keys = append(q.keys, s...)
}

// Len is the number of pending keys.
func (q *Queue) Len() int { return len(q.keys) }

func (q *Queue) PollKey() (byte, bool) {
	if len(q.keys) == 0 {
		return 0, false
	}
	k := q.keys[0]
	q.keys = q.keys[1:]
	return k, true
}

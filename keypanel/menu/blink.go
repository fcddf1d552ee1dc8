package menu

// DefaultBlinkInterval is the cursor blink period in milliseconds.
const DefaultBlinkInterval = 250

// Blinker toggles cursor visibility on a fixed interval without blocking.
type Blinker struct {
	Interval uint32

	last    uint32
	visible bool
}

// Update is called every tick with the current time. While active is false
// the cursor is forced hidden. Update reports whether visibility changed.
func (b *Blinker) Update(now uint32, active bool) bool {
	if !active {
		changed := b.visible
		b.visible = false
		return changed
	}
	interval := b.Interval
	if interval == 0 {
		interval = DefaultBlinkInterval
	}
	if now-b.last < interval {
		return false
	}
	b.last = now
	b.visible = !b.visible
	return true
}

// Visible reports the current cursor visibility.
func (b *Blinker) Visible() bool { return b.visible }

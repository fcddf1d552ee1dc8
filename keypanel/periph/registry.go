// Package periph keeps the simple on/off outputs of the board (LEDs,
// buzzers) in one registry addressed by handles.
package periph

import (
	"io"
	"log/slog"
)

// Switch is an on/off output. machine.Pin satisfies it.
type Switch interface {
	Set(on bool)
}

// Handle identifies a registered output. The zero Handle is never issued
// and every operation on it is a no-op.
type Handle int

type output struct {
	name  string
	sw    Switch
	on    bool
	until uint32 // pulse end, valid while pulsing
	pulse bool
}

// Registry owns every registered output.
type Registry struct {
	outputs []output
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	return &Registry{logger: logger}
}

// Register adds sw, switches it off and returns its handle. A nil Switch
// returns the zero Handle.
func (r *Registry) Register(name string, sw Switch) Handle {
	if sw == nil {
		r.logger.Warn("periph:not-configured", slog.String("name", name))
		return 0
	}
	sw.Set(false)
	r.outputs = append(r.outputs, output{name: name, sw: sw})
	r.logger.Info("periph:registered", slog.String("name", name), slog.Int("handle", len(r.outputs)))
	return Handle(len(r.outputs))
}

func (r *Registry) get(h Handle) *output {
	if h <= 0 || int(h) > len(r.outputs) {
		return nil
	}
	return &r.outputs[h-1]
}

// Len is the number of registered outputs.
func (r *Registry) Len() int { return len(r.outputs) }

// Name returns the registration name of h, or "" if unknown.
func (r *Registry) Name(h Handle) string {
	if o := r.get(h); o != nil {
		return o.name
	}
	return ""
}

// On reports whether h is currently switched on.
func (r *Registry) On(h Handle) bool {
	if o := r.get(h); o != nil {
		return o.on
	}
	return false
}

// Set switches h and cancels a running pulse.
func (r *Registry) Set(h Handle, on bool) {
	o := r.get(h)
	if o == nil {
		return
	}
	o.pulse = false
	o.set(on)
}

// Pulse switches h on now and off once Update sees a time at or past
// now+ms. Pulsing never blocks.
func (r *Registry) Pulse(h Handle, now, ms uint32) {
	o := r.get(h)
	if o == nil || ms == 0 {
		return
	}
	o.set(true)
	o.pulse = true
	o.until = now + ms
}

// Update ends expired pulses. Call it once per loop tick.
func (r *Registry) Update(now uint32) {
	for i := range r.outputs {
		o := &r.outputs[i]
		// Signed difference keeps the comparison correct across a wrap.
		if o.pulse && int32(now-o.until) >= 0 {
			o.pulse = false
			o.set(false)
		}
	}
}

func (o *output) set(on bool) {
	if o.on == on {
		return
	}
	o.on = on
	o.sw.Set(on)
}

// Package panel runs the display, keypad and menu as one cooperative
// control loop.
//
// A Panel is built once with every collaborator it uses and then ticked
// from the main loop:
//
//	p := panel.New(screen, keys, panel.NewSystemClock(), opts, logger)
//	p.Init()
//	for {
//		p.Tick()
//		time.Sleep(5 * time.Millisecond)
//	}
package panel

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/harveysanders/keypanel/keypanel/config"
	"github.com/harveysanders/keypanel/keypanel/keypad"
	"github.com/harveysanders/keypanel/keypanel/lcd"
	"github.com/harveysanders/keypanel/keypanel/menu"
	"github.com/harveysanders/keypanel/keypanel/periph"
)

// Entry is one committed line of input.
type Entry struct {
	Text        string `json:"text"`
	SinceBootMS uint32 `json:"since_boot_ms"`
}

// Options configure a Panel. The zero value is usable.
type Options struct {
	BlinkInterval uint32 // ms, defaults to menu.DefaultBlinkInterval
	NoticeHold    uint32 // ms a notice stays up before the menu returns
	BeepMS        uint32
	PromptPoll    time.Duration
	CursorKeys    bool
	Labels        menu.Labels
	// InputLimit caps typed input while the display is missing.
	InputLimit int

	// Outputs holds the buzzer and LED. Zero handles disable them.
	Outputs *periph.Registry
	Buzzer  periph.Handle
	LED     periph.Handle

	// Status is drained for status messages from other goroutines.
	Status <-chan lcd.Message
	// Commits receives committed entries. Sends never block; an entry is
	// dropped if the channel is full.
	Commits chan<- Entry
}

// OptionsFrom maps the UI section of a Config to Options.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		BlinkInterval: cfg.UI.BlinkIntervalMS,
		NoticeHold:    cfg.UI.NoticeHoldMS,
		BeepMS:        cfg.UI.BeepMS,
		CursorKeys:    cfg.UI.CursorKeys,
		Labels:        cfg.UI.Labels,
		InputLimit:    cfg.Display.Columns*cfg.Display.Rows - 1,
	}
}

// Panel owns the display, keypad and menu state.
type Panel struct {
	screen *lcd.Screen
	keys   keypad.Keypad
	clock  Clock
	menu   *menu.Machine
	blink  menu.Blinker
	opts   Options
	logger *slog.Logger

	notice   bool
	noticeAt uint32
}

// New builds a Panel drawing on dev. keys may be nil, in which case no key
// is ever reported.
func New(dev lcd.Device, keys keypad.Keypad, clock Clock, opts Options, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	if opts.Outputs == nil {
		opts.Outputs = periph.NewRegistry(logger)
	}
	if opts.PromptPoll <= 0 {
		opts.PromptPoll = 50 * time.Millisecond
	}
	p := &Panel{
		screen: lcd.NewScreen(dev, logger),
		keys:   keys,
		clock:  clock,
		blink:  menu.Blinker{Interval: opts.BlinkInterval},
		opts:   opts,
		logger: logger,
	}
	p.menu = menu.New(p.screen, menu.Options{
		Labels:     opts.Labels,
		CursorKeys: opts.CursorKeys,
		OnCommit:   p.commit,
		InputLimit: opts.InputLimit,
	}, logger)
	return p
}

// Init reads the display geometry and draws the Main screen.
func (p *Panel) Init() {
	p.screen.Init()
	p.menu.Refresh()
	p.logger.Info("panel:init",
		slog.Bool("display", p.screen.Ready()),
		slog.Bool("keypad", p.keys != nil),
		slog.Int("cols", p.screen.Columns()),
		slog.Int("rows", p.screen.Rows()),
	)
}

// Tick runs one cooperative step: poll one key, update the cursor blink,
// and render at most once. It never blocks.
func (p *Panel) Tick() {
	now := p.clock.NowMillis()
	rendered := false

	if key, ok := p.poll(); ok {
		p.opts.Outputs.Pulse(p.opts.Buzzer, now, p.opts.BeepMS)
		res := p.menu.HandleKey(key)
		p.logger.Debug("panel:key", slog.String("key", string(key)), slog.String("state", p.menu.State().String()))
		switch res {
		case menu.Redrawn:
			rendered = true
			p.notice = false
		case menu.Committed:
			rendered = true
			p.arm(now)
		}
	}

	input := p.menu.State() == menu.Input
	if p.blink.Update(now, input) {
		p.screen.ShowCursor(p.blink.Visible())
	}

	if !rendered && !input {
		rendered = p.drainStatus(now)
	}
	if !rendered && p.notice && now-p.noticeAt >= p.opts.NoticeHold {
		p.notice = false
		p.menu.Refresh()
	}

	p.opts.Outputs.Set(p.opts.LED, input)
	p.opts.Outputs.Update(now)
}

func (p *Panel) poll() (byte, bool) {
	if p.keys == nil {
		return 0, false
	}
	return p.keys.PollKey()
}

func (p *Panel) drainStatus(now uint32) bool {
	select {
	case msg := <-p.opts.Status:
		p.screen.Show(msg.Text(p.screen.Columns()))
		p.arm(now)
		return true
	default:
		return false
	}
}

func (p *Panel) arm(now uint32) {
	p.notice = true
	p.noticeAt = now
}

func (p *Panel) commit(text string) {
	if p.opts.Commits == nil {
		return
	}
	select {
	case p.opts.Commits <- Entry{Text: text, SinceBootMS: p.clock.NowMillis()}:
	default:
		p.logger.Warn("panel:commit-dropped", slog.Int("len", len(text)))
	}
}

// Prompt shows label, echoes typed keys below it and returns the text once
// '#' is pressed; '*' deletes. It blocks until then or until ctx is done,
// so it must not be called from Tick. The menu screen is redrawn on return.
func (p *Panel) Prompt(ctx context.Context, label string) (string, error) {
	head := lcd.Message{Line1: []byte(label)}.Text(p.screen.Columns())
	p.screen.ShowCursor(false)
	p.screen.Show(head)
	text, err := keypad.ReadLine(ctx, p.keys, '#', '*', p.opts.PromptPoll, func(s string) {
		p.screen.Show(head + s)
	})
	p.menu.Refresh()
	return text, err
}

func (p *Panel) Screen() *lcd.Screen { return p.screen }

func (p *Panel) Menu() *menu.Machine { return p.menu }

// Print appends text to the display buffer.
func (p *Panel) Print(text string) { p.screen.Print(text) }

// Clear empties the display buffer.
func (p *Panel) Clear() { p.screen.Clear() }

func (p *Panel) Render() { p.screen.Render() }

func (p *Panel) ScrollUp() bool { return p.screen.ScrollUp() }

func (p *Panel) ScrollDown() bool { return p.screen.ScrollDown() }

func (p *Panel) ScrollLeft() bool { return p.screen.ScrollLeft() }

func (p *Panel) ScrollRight() bool { return p.screen.ScrollRight() }

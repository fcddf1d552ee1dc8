// Package config loads the panel configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/harveysanders/keypanel/keypanel/keypad"
	"github.com/harveysanders/keypanel/keypanel/menu"
)

// Config is the whole panel configuration.
type Config struct {
	Display Display `toml:"display"`
	Keypad  Keypad  `toml:"keypad"`
	UI      UI      `toml:"ui"`
	Pins    Pins    `toml:"pins"`
	Network Network `toml:"network"`
}

// Display describes the character LCD.
type Display struct {
	Columns int `toml:"columns"`
	Rows    int `toml:"rows"`
	// Addresses are probed in order.
	Addresses []int `toml:"addresses"`
	// SDA and SCL are the I2C0 pins.
	SDA int `toml:"sda"`
	SCL int `toml:"scl"`
}

// Keypad describes the 4x4 matrix keypad wiring.
type Keypad struct {
	Rows    [4]int `toml:"rows"`
	Columns [4]int `toml:"columns"`
	Layout  string `toml:"layout"`
}

// UI tunes the menu.
type UI struct {
	BlinkIntervalMS uint32      `toml:"blink_interval_ms"`
	NoticeHoldMS    uint32      `toml:"notice_hold_ms"`
	BeepMS          uint32      `toml:"beep_ms"`
	CursorKeys      bool        `toml:"cursor_keys"`
	Labels          menu.Labels `toml:"labels"`
}

// Pins of the simple outputs. A negative pin disables the output.
type Pins struct {
	Buzzer int `toml:"buzzer"`
	LED    int `toml:"led"`
}

// Network configures MQTT publishing of committed input.
type Network struct {
	Enabled  bool   `toml:"enabled"`
	Hostname string `toml:"hostname"`
	Broker   string `toml:"broker"`
	Topic    string `toml:"topic"`
	ClientID string `toml:"client_id"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Default returns the configuration of a 16x2 LCD on I2C0 (GP4/GP5) and a
// keypad on GP6..GP13.
func Default() Config {
	return Config{
		Display: Display{
			Columns:   16,
			Rows:      2,
			Addresses: []int{0x27, 0x3F},
			SDA:       4,
			SCL:       5,
		},
		Keypad: Keypad{
			Rows:    [4]int{6, 7, 8, 9},
			Columns: [4]int{10, 11, 12, 13},
			Layout:  keypad.DefaultLayout,
		},
		UI: UI{
			BlinkIntervalMS: menu.DefaultBlinkInterval,
			NoticeHoldMS:    2000,
			BeepMS:          50,
			Labels:          menu.DefaultLabels(),
		},
		Pins: Pins{
			Buzzer: 15,
			LED:    21,
		},
		Network: Network{
			Hostname: "keypanel",
			Topic:    "keypanel/input",
			ClientID: "tinygo-keypanel",
		},
	}
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load reads and parses the file at path. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	return Parse(content)
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.Display.Columns <= 0 || c.Display.Columns > 255 {
		errs = append(errs, fmt.Errorf("display.columns %d out of range", c.Display.Columns))
	}
	if c.Display.Rows <= 0 || c.Display.Rows > 255 {
		errs = append(errs, fmt.Errorf("display.rows %d out of range", c.Display.Rows))
	}
	if len(c.Keypad.Layout) != 16 {
		errs = append(errs, fmt.Errorf("keypad.layout must have 16 keys, got %d", len(c.Keypad.Layout)))
	}
	seen := make(map[int]bool, 8)
	for _, p := range append(c.Keypad.Rows[:], c.Keypad.Columns[:]...) {
		if seen[p] {
			errs = append(errs, fmt.Errorf("keypad pin %d used twice", p))
		}
		seen[p] = true
	}
	if c.Network.Enabled {
		if c.Network.Hostname == "" {
			errs = append(errs, errors.New("network.hostname is empty"))
		}
		if !hasPort(c.Network.Broker) {
			errs = append(errs, fmt.Errorf("network.broker %q needs host:port", c.Network.Broker))
		}
		if c.Network.Password != "" && c.Network.Username == "" {
			errs = append(errs, errors.New("network.password requires network.username"))
		}
	}
	return errors.Join(errs...)
}

func hasPort(addr string) bool {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return i > 0 && i < len(addr)-1
		}
	}
	return false
}

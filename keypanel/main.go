//go:build tinygo

package main

import (
	_ "embed"
	"errors"
	"log/slog"
	"machine"
	"time"

	"tinygo.org/x/drivers/buzzer"
	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/harveysanders/keypanel/keypanel/config"
	"github.com/harveysanders/keypanel/keypanel/cyw43439"
	"github.com/harveysanders/keypanel/keypanel/keypad"
	"github.com/harveysanders/keypanel/keypanel/lcd"
	"github.com/harveysanders/keypanel/keypanel/mqtt"
	"github.com/harveysanders/keypanel/keypanel/panel"
	"github.com/harveysanders/keypanel/keypanel/periph"
)

//go:embed config.toml
var configTOML []byte

const tickInterval = 5 * time.Millisecond

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Parse(configTOML)
	if err != nil {
		// Print error in a loop in case the serial monitor is not
		// ready before the initial messages
		printErrForever(logger, "parse config", slog.Any("reason", err))
	}

	// A missing LCD leaves the panel running without output.
	var dev lcd.Device = lcd.NewHD44780(nil, 0, 0)
	err = machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.Pin(cfg.Display.SDA),
		SCL: machine.Pin(cfg.Display.SCL),
	})
	if err != nil {
		logger.Error("configure I2C", slog.Any("reason", err))
	} else if hd, err := configureLCD(machine.I2C0, cfg.Display, logger); err != nil {
		logger.Error("configure LCD", slog.Any("reason", err))
	} else {
		dev = lcd.NewHD44780(hd, cfg.Display.Columns, cfg.Display.Rows)
	}

	var pins keypad.Pins
	for i := range pins.Rows {
		pins.Rows[i] = machine.Pin(cfg.Keypad.Rows[i])
		pins.Columns[i] = machine.Pin(cfg.Keypad.Columns[i])
	}
	keys := keypad.NewMatrix4x4(pins, keypad.Layout(cfg.Keypad.Layout))

	outputs := periph.NewRegistry(logger)
	opts := panel.OptionsFrom(cfg)
	opts.Outputs = outputs
	if cfg.Pins.Buzzer >= 0 {
		opts.Buzzer = outputs.Register("buzzer", newBuzzer(machine.Pin(cfg.Pins.Buzzer), logger))
	}
	if cfg.Pins.LED >= 0 {
		led := machine.Pin(cfg.Pins.LED)
		led.Configure(machine.PinConfig{Mode: machine.PinOutput})
		opts.LED = outputs.Register("led", led)
	}

	if cfg.Network.Enabled {
		status := make(chan lcd.Message, 4)
		// Buffered so a commit never waits on the network.
		entries := make(chan panel.Entry, 8)
		opts.Status, opts.Commits = status, entries
		go publish(cfg, entries, status, logger)
	}

	p := panel.New(dev, keys, panel.NewSystemClock(), opts, logger)
	p.Init()
	for {
		p.Tick()
		time.Sleep(tickInterval)
	}
}

// configureLCD takes a preconfigured I2C peripheral and initializes the
// HD44780 on the first configured address that acknowledges.
func configureLCD(i2c *machine.I2C, cfg config.Display, logger *slog.Logger) (*hd44780i2c.Device, error) {
	probe := []byte{0}
	for _, a := range cfg.Addresses {
		logger.Info("lcd:probing", slog.Int("addr", a))
		if err := i2c.Tx(uint16(a), nil, probe); err != nil {
			continue
		}
		dev := hd44780i2c.New(i2c, uint8(a))
		err := dev.Configure(hd44780i2c.Config{
			Width:  uint8(cfg.Columns),
			Height: uint8(cfg.Rows),
		})
		if err != nil {
			return nil, err
		}
		dev.BacklightOn(true)
		return &dev, nil
	}
	return nil, errors.New("LCD not found on configured addresses")
}

// buzzerSwitch drives an active buzzer as a periph.Switch.
type buzzerSwitch struct {
	dev    buzzer.Device
	logger *slog.Logger
}

func newBuzzer(pin machine.Pin, logger *slog.Logger) *buzzerSwitch {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &buzzerSwitch{dev: buzzer.New(pin), logger: logger}
}

func (b *buzzerSwitch) Set(on bool) {
	var err error
	if on {
		err = b.dev.On()
	} else {
		err = b.dev.Off()
	}
	if err != nil {
		b.logger.Error("buzzer", slog.Any("reason", err))
	}
}

func publish(cfg config.Config, entries <-chan panel.Entry, status chan<- lcd.Message, logger *slog.Logger) {
	lcd.Send(status, "Joining Wi-Fi", cfg.Network.Hostname)
	stack, err := cyw43439.Connect(cyw43439.Config{
		Hostname:    cfg.Network.Hostname,
		MaxTCPPorts: 1,
		Logger:      logger,
	})
	if err != nil {
		lcd.Send(status, "Wi-Fi failed", "")
		logger.Error("wifi", slog.Any("reason", err))
		return
	}
	c := mqtt.Client{
		ID:                cfg.Network.ClientID,
		Topic:             cfg.Network.Topic,
		Username:          cfg.Network.Username,
		Password:          cfg.Network.Password,
		Logger:            logger,
		Timeout:           5 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		TCPBufSize:        2030, // MTU - ethhdr - iphdr - tcphdr
		Columns:           cfg.Display.Columns,
	}
	if err := c.ConnectAndPublish(stack, cfg.Network.Broker, entries, status); err != nil {
		lcd.Send(status, "MQTT failed", "")
		logger.Error("connect to MQTT broker", slog.Any("reason", err))
	}
}

// printErrForever prints to serial @ 1hz. It blocks forever.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}

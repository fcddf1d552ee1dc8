// Package mqtt publishes committed keypad entries to an MQTT broker.
package mqtt

import (
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"time"
)

// Client publishes entries on Topic.
type Client struct {
	ID                string
	Topic             string
	Timeout           time.Duration
	TCPBufSize        int
	HeartbeatInterval time.Duration
	Username          string // optional
	Password          string // optional, requires Username
	Logger            *slog.Logger
	// Columns is the display width status lines are cut to.
	Columns int
}

func (c *Client) setDefaults() error {
	if c.Topic == "" {
		return errors.New("empty topic")
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}
	if c.Columns <= 0 {
		c.Columns = 16
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.TCPBufSize <= 0 {
		c.TCPBufSize = 2030 // MTU - ethhdr - iphdr - tcphdr
	}
	return nil
}

// addrLine is the status row announcing the panel's own address.
func addrLine(a netip.Addr, cols int) string {
	if !a.IsValid() || a.IsUnspecified() {
		return truncate("no address", cols)
	}
	return truncate(a.String(), cols)
}

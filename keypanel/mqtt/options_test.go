package mqtt

import (
	"net/netip"
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	c := Client{Topic: "keypanel/input"}
	if err := c.setDefaults(); err != nil {
		t.Fatalf("setDefaults() error = %v", err)
	}
	if c.Logger == nil {
		t.Fatal("nil logger left in place")
	}
	c.Logger.Info("mqtt:test") // must not panic
	if c.Columns != 16 || c.HeartbeatInterval != 30*time.Second || c.Timeout != 5*time.Second || c.TCPBufSize != 2030 {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestSetDefaultsKeepsSettings(t *testing.T) {
	c := Client{Topic: "t", Columns: 20, Timeout: time.Second, TCPBufSize: 512}
	if err := c.setDefaults(); err != nil {
		t.Fatalf("setDefaults() error = %v", err)
	}
	if c.Columns != 20 || c.Timeout != time.Second || c.TCPBufSize != 512 {
		t.Fatalf("settings overwritten: %+v", c)
	}
}

func TestSetDefaultsRejectsEmptyTopic(t *testing.T) {
	var c Client
	if err := c.setDefaults(); err == nil {
		t.Fatal("expected error for empty topic")
	}
}

func TestAddrLine(t *testing.T) {
	tests := []struct {
		addr netip.Addr
		cols int
		want string
	}{
		{netip.MustParseAddr("192.168.1.42"), 16, "192.168.1.42"},
		{netip.MustParseAddr("192.168.100.142"), 8, "192.168."},
		{netip.AddrFrom4([4]byte{}), 16, "no address"},
		{netip.Addr{}, 16, "no address"},
	}
	for _, tt := range tests {
		if got := addrLine(tt.addr, tt.cols); got != tt.want {
			t.Fatalf("addrLine(%v, %d) = %q, want %q", tt.addr, tt.cols, got, tt.want)
		}
	}
}

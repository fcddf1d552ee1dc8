package mqtt

import "testing"

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		addr       string
		host, port string
		wantErr    bool
	}{
		{addr: "10.0.0.9:1883", host: "10.0.0.9", port: "1883"},
		{addr: "broker.local:8883", host: "broker.local", port: "8883"},
		{addr: "[::1]:1883", host: "[::1]", port: "1883"},
		{addr: "10.0.0.9", wantErr: true},
		{addr: ":1883", wantErr: true},
		{addr: "host:", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port, err := splitHostPort(tt.addr)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("splitHostPort(%q) expected error", tt.addr)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitHostPort(%q) error = %v", tt.addr, err)
			}
			if host != tt.host || port != tt.port {
				t.Fatalf("splitHostPort(%q) = %q, %q", tt.addr, host, port)
			}
		})
	}
}

func TestParsePort(t *testing.T) {
	tests := map[string]uint16{
		"1883":  1883,
		"65535": 65535,
		"65536": 0,
		"99999": 0,
		"18a3":  0,
		"":      0,
	}
	for in, want := range tests {
		if got := parsePort(in); got != want {
			t.Fatalf("parsePort(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Connect Failed: timeout", 16); got != "Connect Failed: " {
		t.Fatalf("truncate() = %q", got)
	}
	if got := truncate("ok", 16); got != "ok" {
		t.Fatalf("truncate() = %q", got)
	}
}

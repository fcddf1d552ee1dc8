//go:build tinygo

// Package cyw43439 brings up Wi-Fi on a Raspberry Pi Pico W and exposes the
// lneto network stack the publisher dials through.
//
// Credentials are set at link time:
//
//	tinygo flash -target=pico-w \
//	  -ldflags="-X github.com/harveysanders/keypanel/keypanel/cyw43439.ssid=home -X github.com/harveysanders/keypanel/keypanel/cyw43439.pass=secret" \
//	  ./keypanel
//
// Adapted from the soypat/cyw43439 examples:
// https://github.com/soypat/cyw43439/tree/main/examples/common
package cyw43439

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"runtime"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/lneto/x/xnet"
)

const mtu = cyw43439.MTU

var (
	ssid string
	pass string
)

// Config describes how to join the network.
type Config struct {
	Hostname string
	// JoinAttempts bounds the WPA2 join retries. Zero retries forever.
	JoinAttempts int
	// MaxTCPPorts is the number of TCP ports the stack can open.
	MaxTCPPorts int
	// RequestedAddr is asked for during DHCP and used as a static address
	// when DHCP fails.
	RequestedAddr netip.Addr
	Logger        *slog.Logger
}

// Stack is a joined Wi-Fi device with its network stack.
type Stack struct {
	s       xnet.StackAsync
	dev     *cyw43439.Device
	log     *slog.Logger
	sendbuf []byte
}

// Connect initializes the radio, joins the network named by the linker
// flags, and completes DHCP.
func Connect(cfg Config) (*Stack, error) {
	if cfg.Hostname == "" {
		return nil, errors.New("empty hostname")
	}
	if ssid == "" {
		return nil, errors.New("no ssid: set it with -ldflags -X")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}

	start := time.Now()
	dev := cyw43439.NewPicoWDevice()
	dev.SetLogger(logger)
	if err := dev.Init(cyw43439.DefaultWifiConfig()); err != nil {
		return nil, errors.New("wifi init failed:" + err.Error())
	}
	logger.Info("wifi:init", slog.Duration("duration", time.Since(start)))

	if err := join(dev, cfg.JoinAttempts, logger); err != nil {
		return nil, err
	}

	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, errors.New("get hardware address:" + err.Error())
	}
	logger.Info("wifi:joined", slog.String("mac", net.HardwareAddr(mac[:]).String()))

	stack := &Stack{dev: dev, log: logger, sendbuf: make([]byte, mtu)}
	err = stack.s.Reset(xnet.StackConfig{
		Hostname:        cfg.Hostname,
		MaxTCPConns:     max(1, cfg.MaxTCPPorts),
		RandSeed:        time.Since(start).Nanoseconds(),
		HardwareAddress: mac,
		MTU:             mtu,
	})
	if err != nil {
		return nil, errors.New("stack reset:" + err.Error())
	}
	dev.RecvEthHandle(func(pkt []byte) error {
		return stack.s.Demux(pkt, 0)
	})

	// DHCP needs packets flowing.
	go stack.Loop()
	if err := stack.dhcp(cfg.RequestedAddr); err != nil {
		return nil, err
	}
	return stack, nil
}

func join(dev *cyw43439.Device, attempts int, logger *slog.Logger) error {
	logger.Info("wifi:joining", slog.String("ssid", ssid), slog.Bool("open", len(pass) == 0))
	for i := 1; ; i++ {
		err := dev.JoinWPA2(ssid, pass)
		if err == nil {
			return nil
		}
		logger.Error("wifi:join-failed", slog.Int("attempt", i), slog.String("err", err.Error()))
		if attempts > 0 && i >= attempts {
			return errors.New("wifi join failed:" + err.Error())
		}
		time.Sleep(5 * time.Second)
	}
}

func (s *Stack) dhcp(requested netip.Addr) error {
	if !requested.IsValid() {
		requested = netip.AddrFrom4([4]byte{})
	}
	if !requested.Is4() {
		return errors.New("only dhcpv4 supported")
	}

	rstack := s.s.StackRetrying(50 * time.Millisecond)
	s.log.Info("dhcp:starting")
	results, err := rstack.DoDHCPv4(requested.As4(), 3*time.Second, 3)
	if err != nil {
		if requested.IsUnspecified() {
			return errors.New("dhcp failed:" + err.Error())
		}
		s.log.Info("dhcp:static", slog.String("ip", requested.String()))
		s.s.SetIPAddr(requested)
		return nil
	}
	if err := s.s.AssimilateDHCPResults(results); err != nil {
		return errors.New("assimilate dhcp:" + err.Error())
	}
	gatewayHW, err := rstack.DoResolveHardwareAddress6(results.Router, 500*time.Millisecond, 4)
	if err != nil {
		return errors.New("resolve gateway:" + err.Error())
	}
	s.s.SetGateway6(gatewayHW)
	s.log.Info("dhcp:complete",
		slog.String("ip", results.AssignedAddr.String()),
		slog.String("router", results.Router.String()),
		slog.Uint64("lease_sec", uint64(results.TLease)),
	)
	return nil
}

// Loop moves packets between the radio and the stack forever. It yields
// between iterations so the panel loop keeps running on TinyGo's single
// core scheduler.
func (s *Stack) Loop() {
	for {
		send, recv, _ := s.recvAndSend()
		if send == 0 && recv == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		runtime.Gosched()
	}
}

func (s *Stack) recvAndSend() (send, recv int, err error) {
	gotPacket, errRecv := s.dev.PollOne()
	if gotPacket {
		recv = 1
	}
	if errRecv != nil {
		s.log.Error("stack:poll", slog.String("err", errRecv.Error()))
	}

	send, err = s.s.Encapsulate(s.sendbuf, -1, 0)
	if err != nil {
		s.log.Error("stack:encapsulate", slog.Int("plen", send), slog.String("err", err.Error()))
	} else {
		err = errRecv
	}
	if send == 0 {
		return send, recv, err
	}
	if err = s.dev.SendEth(s.sendbuf[:send]); err != nil {
		s.log.Error("stack:send", slog.Int("plen", send), slog.String("err", err.Error()))
	}
	return send, recv, err
}

// LnetoStack returns the underlying stack for dialing and DNS.
func (s *Stack) LnetoStack() *xnet.StackAsync {
	return &s.s
}

// Addr is the assigned IP address.
func (s *Stack) Addr() netip.Addr {
	return s.s.Addr()
}

//go:build tinygo

package mqtt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"runtime"
	"time"

	"github.com/soypat/lneto/tcp"
	mqtt "github.com/soypat/natiu-mqtt"

	"github.com/harveysanders/keypanel/keypanel/cyw43439"
	"github.com/harveysanders/keypanel/keypanel/lcd"
	"github.com/harveysanders/keypanel/keypanel/panel"
)

var pubFlags, _ = mqtt.NewPublishFlags(mqtt.QoS0, false, false)

// ConnectAndPublish resolves addr ("host:port"), keeps an MQTT session up
// and publishes every entry received on entries as JSON. Progress is
// reported on status. It only returns on a configuration error.
func (c *Client) ConnectAndPublish(
	stack *cyw43439.Stack,
	addr string,
	entries <-chan panel.Entry,
	status chan<- lcd.Message,
) error {
	const pollTime = 5 * time.Millisecond
	if err := c.setDefaults(); err != nil {
		return err
	}
	local := stack.Addr()
	c.Logger.Info("wifi:ready", slog.String("ip", local.String()))
	lcd.Send(status, "Wi-Fi ready", addrLine(local, c.Columns))

	host, portStr, err := splitHostPort(addr)
	if err != nil {
		return errors.New("parsing host:port from " + addr + ": " + err.Error())
	}
	port := parsePort(portStr)
	if port == 0 {
		return errors.New("invalid port in " + addr)
	}

	lnetoStack := stack.LnetoStack()
	rstack := lnetoStack.StackRetrying(pollTime)

	brokerAddr, err := netip.ParseAddr(host)
	if err != nil {
		c.Logger.Info("dns:resolving", slog.String("host", host))
		addrs, err := rstack.DoLookupIP(host, 5*time.Second, 3)
		if err != nil {
			return errors.New("dns lookup for " + host + ": " + err.Error())
		}
		if len(addrs) == 0 {
			return errors.New("dns lookup for " + host + ": no addresses returned")
		}
		brokerAddr = addrs[0]
	}
	c.Logger.Info("mqtt:broker", slog.String("ip", brokerAddr.String()), slog.Uint64("port", uint64(port)))

	cfg := mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 1024)},
		OnPub: func(_ mqtt.Header, varPub mqtt.VariablesPublish, _ io.Reader) error {
			c.Logger.Info("mqtt:received", slog.String("topic", string(varPub.TopicName)))
			return nil
		},
	}
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(c.ID))
	if c.Username != "" {
		varconn.Username = []byte(c.Username)
		if c.Password != "" {
			varconn.Password = []byte(c.Password)
		}
	}
	client := mqtt.NewClient(cfg)

	var conn tcp.Conn
	err = conn.Configure(tcp.ConnConfig{
		RxBuf:             make([]byte, c.TCPBufSize),
		TxBuf:             make([]byte, c.TCPBufSize),
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return errors.New("tcp configure:" + err.Error())
	}

	closeConn := func(reason string) {
		c.Logger.Error("tcp:closing", slog.String("reason", reason))
		conn.Close()
		for i := 0; i < 50 && !conn.State().IsClosed(); i++ {
			time.Sleep(100 * time.Millisecond)
		}
		conn.Abort()
	}

	server := netip.AddrPortFrom(brokerAddr, port)
	pubVar := mqtt.VariablesPublish{TopicName: []byte(c.Topic)}

	for {
		localPort := uint16(lnetoStack.Prand32()>>17) + 1024
		lcd.Send(status, "Connecting...", truncate(addr, c.Columns))
		err = rstack.DoDialTCP(&conn, localPort, server, 10*time.Second, 3)
		if err != nil {
			c.Logger.Error("tcp:dial-failed", slog.String("err", err.Error()))
			closeConn("dial failed")
			time.Sleep(2 * time.Second)
			continue
		}

		conn.SetDeadline(time.Now().Add(c.Timeout))
		if err = client.StartConnect(&conn, &varconn); err != nil {
			c.Logger.Error("mqtt:start-connect-failed", slog.String("err", err.Error()))
			lcd.Send(status, "Connect Failed", truncate(err.Error(), c.Columns))
			closeConn("connect failed")
			continue
		}
		for retries := 50; retries > 0 && !client.IsConnected(); retries-- {
			time.Sleep(100 * time.Millisecond)
			if err = client.HandleNext(); err != nil {
				c.Logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		}
		if !client.IsConnected() {
			lcd.Send(status, "Connect Failed", "Timed out")
			closeConn("connect timed out")
			continue
		}

		c.Logger.Info("mqtt:connected")
		lcd.Send(status, "MQTT Connected", truncate(c.Topic, c.Columns))
		c.publishLoop(client, &conn, &pubVar, lnetoStack.Prand32, entries)

		c.Logger.Error("mqtt:disconnected", slog.Any("reason", client.Err()))
		lcd.Send(status, "Disconnected", "Reconnecting...")
		closeConn("disconnected")
		runtime.Gosched()
	}
}

// publishLoop runs until the session drops.
func (c *Client) publishLoop(
	client *mqtt.Client,
	conn *tcp.Conn,
	pubVar *mqtt.VariablesPublish,
	rand func() uint32,
	entries <-chan panel.Entry,
) {
	heartbeat := time.NewTicker(c.HeartbeatInterval)
	defer heartbeat.Stop()
	for client.IsConnected() {
		select {
		case entry := <-entries:
			payload, err := json.Marshal(entry)
			if err != nil {
				c.Logger.Error("mqtt:marshal-failed", slog.Any("reason", err))
				continue
			}
			conn.SetDeadline(time.Now().Add(c.Timeout))
			pubVar.PacketIdentifier = uint16(rand())
			if err = client.PublishPayload(pubFlags, *pubVar, payload); err != nil {
				c.Logger.Error("mqtt:publish-failed", slog.Any("reason", err))
				continue
			}
			c.Logger.Info("mqtt:published", slog.Uint64("packetID", uint64(pubVar.PacketIdentifier)), slog.Int("len", len(entry.Text)))
			if err = client.HandleNext(); err != nil {
				c.Logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		case <-heartbeat.C:
			// Nothing published for a while: keep the session alive.
			if err := client.HandleNext(); err != nil {
				c.Logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		default:
			// TinyGo runs on a single core; let the panel loop run.
			runtime.Gosched()
		}
	}
}

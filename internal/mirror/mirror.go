// Package mirror republishes every command sent to the vehicle on an MQTT
// topic so it can be watched remotely.
package mirror

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/acs-rover/joyserial/command"
	"github.com/acs-rover/joyserial/controller"
)

// Config is the mqtt section of the CLI.
type Config struct {
	Broker         string        `help:"MQTT broker URL to mirror sent commands to (empty disables)" env:"JOYSERIAL_MQTT_BROKER"`
	Topic          string        `help:"Topic commands are published on" default:"joyserial/commands" env:"JOYSERIAL_MQTT_TOPIC"`
	ClientID       string        `help:"MQTT client id" default:"joyserial" env:"JOYSERIAL_MQTT_CLIENT_ID"`
	ConnectTimeout time.Duration `help:"Broker connect timeout" default:"5s" env:"JOYSERIAL_MQTT_CONNECT_TIMEOUT"`
	WriteTimeout   time.Duration `help:"Give up on a single publish after this long" default:"500ms" env:"JOYSERIAL_MQTT_WRITE_TIMEOUT"`
	Queue          int           `help:"Commands buffered for publishing before new ones are dropped" default:"64" env:"JOYSERIAL_MQTT_QUEUE"`
}

// Publisher is the part of mqtt.Client the mirror needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Mirror is a dispatch.Observer. Commands are handed to a publishing
// goroutine through a bounded queue; when the queue is full they are dropped
// so a stalled broker never holds up the dispatch loop.
type Mirror struct {
	pub     Publisher
	topic   string
	queue   chan string
	done    chan struct{}
	dropped atomic.Int64
}

// New starts a Mirror publishing to topic. depth bounds the queue; values
// below 1 mean 1. Close stops it.
func New(pub Publisher, topic string, depth int) *Mirror {
	m := &Mirror{
		pub:   pub,
		topic: topic,
		queue: make(chan string, max(depth, 1)),
		done:  make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Mirror) run() {
	defer close(m.done)
	for payload := range m.queue {
		m.pub.Publish(m.topic, 0, false, payload)
	}
}

// Observe queues every command sent this cycle without blocking.
func (m *Mirror) Observe(_ []controller.Snapshot, sent []command.Command) {
	for _, c := range sent {
		select {
		case m.queue <- hex.EncodeToString(c):
		default:
			m.dropped.Add(1)
		}
	}
}

// Dropped reports how many commands were not mirrored because the queue was full.
func (m *Mirror) Dropped() int64 {
	return m.dropped.Load()
}

// Close stops accepting commands and waits for the queued ones to be handed
// to the publisher. Observe must not be called afterwards.
func (m *Mirror) Close() {
	close(m.queue)
	<-m.done
}

// Connect dials the broker and returns a Mirror and a function that
// drains and disconnects it.
func Connect(cfg Config, logger *slog.Logger) (*Mirror, func(), error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetWriteTimeout(cfg.WriteTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("MQTT connection lost", "broker", cfg.Broker, "error", err)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.ConnectTimeout) {
		return nil, nil, fmt.Errorf("mqtt: connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.Broker, err)
	}
	logger.Info("Mirroring commands to MQTT", "broker", cfg.Broker, "topic", cfg.Topic)

	m := New(client, cfg.Topic, cfg.Queue)
	stop := func() {
		m.Close()
		if n := m.Dropped(); n > 0 {
			logger.Warn("Mirrored commands dropped during session", "count", n)
		}
		client.Disconnect(250)
	}
	return m, stop, nil
}

// Package bridge forwards board events from the internal bus to an MQTT
// broker so downstream consumers (warehouse displays, notification
// services) can follow the dispatch board without polling it.
package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/fleetyard/dispatchboard/core/events"
	"github.com/fleetyard/dispatchboard/infra/logger"
	"github.com/fleetyard/dispatchboard/internal/eventbus"
)

// Config defines the connection parameters for the MQTT bridge.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("dispatchboard-%s", uuid.NewString()[:8])
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "dispatchboard"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required when the bridge is enabled")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Bridge relays bus events to MQTT topics.
type Bridge struct {
	cli    pahoClient
	bus    eventbus.EventBus
	sub    <-chan eventbus.Event
	log    logger.Logger
	prefix string
	qos    byte
	done   chan struct{}
}

// New connects to the broker and starts relaying events from the bus.
func New(cfg Config, bus eventbus.EventBus) (*Bridge, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	cli := newMQTTClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("bridge: connect: %w", tok.Error())
	}

	b := &Bridge{
		cli:    cli,
		bus:    bus,
		sub:    bus.Subscribe(),
		log:    logger.New("mqtt-bridge"),
		prefix: cfg.TopicPrefix,
		qos:    cfg.QoS,
		done:   make(chan struct{}),
	}
	go b.run()
	return b, nil
}

func (b *Bridge) run() {
	defer close(b.done)
	for ev := range b.sub {
		topic, payload, ok := b.encode(ev)
		if !ok {
			continue
		}
		if tok := b.cli.Publish(topic, b.qos, false, payload); tok.Wait() && tok.Error() != nil {
			b.log.Errorf("publish %s: %v", topic, tok.Error())
		}
	}
}

// encode maps a bus event onto its topic and JSON payload. Unknown event
// types are skipped.
func (b *Bridge) encode(ev eventbus.Event) (string, []byte, bool) {
	var suffix string
	switch ev.(type) {
	case events.AssignmentEvent:
		suffix = "assignments"
	case events.RemovalEvent:
		suffix = "removals"
	case events.JobEvent:
		suffix = "jobs"
	case events.WeekEvent:
		suffix = "weeks"
	case events.ReloadEvent:
		suffix = "reloads"
	default:
		return "", nil, false
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		b.log.Errorf("encode %T: %v", ev, err)
		return "", nil, false
	}
	return b.prefix + "/" + suffix, payload, true
}

// Close detaches from the bus and disconnects from the broker.
func (b *Bridge) Close() error {
	b.bus.Unsubscribe(b.sub)
	<-b.done
	b.cli.Disconnect(250)
	return nil
}

package notify

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ceulain/sunshine-core/internal/contract"
	"github.com/ceulain/sunshine-core/internal/infrastructure/mqtt"
)

// Publisher sends a payload to an MQTT topic.
// *mqtt.Client satisfies it.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// ChangeMessage is the JSON payload of a forwarded change.
type ChangeMessage struct {
	URI       string `json:"uri"`
	Timestamp string `json:"timestamp"`
}

// MQTTForwarder republishes changes as MQTT messages on
// sunshine/change/<path segments>.
type MQTTForwarder struct {
	pub Publisher
	qos byte

	mu     sync.Mutex
	id     string
	logger Logger
	now    func() time.Time
}

// NewMQTTForwarder creates a forwarder publishing at the given QoS.
func NewMQTTForwarder(pub Publisher, qos byte) (*MQTTForwarder, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &MQTTForwarder{pub: pub, qos: qos, now: time.Now}, nil
}

// SetLogger sets a logger for publish failures.
func (f *MQTTForwarder) SetLogger(logger Logger) {
	f.mu.Lock()
	f.logger = logger
	f.mu.Unlock()
}

// Attach registers the forwarder at the provider root with descendant
// delivery, so it hears every change. Attaching twice is a no-op.
func (f *MQTTForwarder) Attach(resolver *Resolver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.id != "" {
		return nil
	}

	id, err := resolver.Register(contract.BaseURI, true, f)
	if err != nil {
		return fmt.Errorf("attaching mqtt forwarder: %w", err)
	}
	f.id = id
	return nil
}

// Detach removes the forwarder from resolver.
func (f *MQTTForwarder) Detach(resolver *Resolver) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.id == "" {
		return
	}
	resolver.Unregister(f.id)
	f.id = ""
}

// OnChange publishes the change. Failures are logged, never returned:
// a broker outage must not fail the mutation that caused the change.
func (f *MQTTForwarder) OnChange(uri contract.URI) {
	payload, err := json.Marshal(ChangeMessage{
		URI:       uri.String(),
		Timestamp: f.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		f.logError("encoding change message failed", uri, err)
		return
	}

	topic := mqtt.Topics{}.Change(uri.PathSegments()...)
	if err := f.pub.Publish(topic, payload, f.qos, false); err != nil {
		f.logError("forwarding change failed", uri, err)
	}
}

func (f *MQTTForwarder) logError(msg string, uri contract.URI, err error) {
	f.mu.Lock()
	logger := f.logger
	f.mu.Unlock()
	if logger != nil {
		logger.Error(msg, "uri", uri.String(), "error", err)
	}
}

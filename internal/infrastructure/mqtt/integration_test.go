//go:build integration

package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// Integration tests against a running MQTT broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -count=1 -v ./internal/infrastructure/mqtt/...

func connectTest(t *testing.T, clientID string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.Broker.ClientID = clientID

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

func TestIntegration_Connect(t *testing.T) {
	client := connectTest(t, "sunshine-int-connect")

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !errors.Is(client.HealthCheck(context.Background()), ErrNotConnected) {
		t.Error("HealthCheck() after Close() should report ErrNotConnected")
	}
}

func TestIntegration_ConnectRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19999

	if _, err := Connect(cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestIntegration_SubscriptionTracking(t *testing.T) {
	client := connectTest(t, "sunshine-int-sub-track")

	topics := []string{
		Topics{}.CommandRefresh(),
		Topics{}.Change("weather"),
		Topics{}.AllChanges(),
	}
	for _, topic := range topics {
		if err := client.Subscribe(topic, 1, func(string, []byte) error { return nil }); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", topic, err)
		}
	}
	if client.SubscriptionCount() != len(topics) {
		t.Errorf("SubscriptionCount() = %d, want %d", client.SubscriptionCount(), len(topics))
	}

	if err := client.Unsubscribe(topics[0]); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if client.HasSubscription(topics[0]) {
		t.Errorf("HasSubscription(%s) = true after unsubscribe", topics[0])
	}
}

func TestIntegration_ChangeRoundtrip(t *testing.T) {
	pub := connectTest(t, "sunshine-int-pub")
	sub := connectTest(t, "sunshine-int-sub")

	var mu sync.Mutex
	received := make(map[string]string)
	done := make(chan struct{})
	var once sync.Once

	err := sub.Subscribe(Topics{}.AllChanges(), 1, func(topic string, payload []byte) error {
		mu.Lock()
		received[topic] = string(payload)
		n := len(received)
		mu.Unlock()
		if n == 2 {
			once.Do(func() { close(done) })
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := pub.PublishDefault(Topics{}.Change("weather", "94043"), []byte(`{"n":1}`)); err != nil {
		t.Fatalf("PublishDefault() error = %v", err)
	}
	if err := pub.PublishDefault(Topics{}.Change("location"), []byte(`{"n":2}`)); err != nil {
		t.Fatalf("PublishDefault() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for change messages")
	}

	mu.Lock()
	defer mu.Unlock()
	if received["sunshine/change/weather/94043"] != `{"n":1}` {
		t.Errorf("weather change payload = %q", received["sunshine/change/weather/94043"])
	}
}

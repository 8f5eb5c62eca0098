package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceulain/sunshine-core/internal/contract"
	"github.com/ceulain/sunshine-core/internal/infrastructure/logging"
	"github.com/ceulain/sunshine-core/internal/infrastructure/mqtt"
	"github.com/ceulain/sunshine-core/internal/weather"
)

// fakeRefresher records refreshed locations and fails for "bad".
type fakeRefresher struct {
	mu        sync.Mutex
	locations []string
}

func (f *fakeRefresher) Refresh(_ context.Context, location string) (weather.Result, error) {
	f.mu.Lock()
	f.locations = append(f.locations, location)
	f.mu.Unlock()
	if location == "bad" {
		return weather.Result{}, errors.New("upstream down")
	}
	return weather.Result{
		Location: contract.Location{LocationSetting: location, CityName: "Mountain View"},
		Inserted: 14,
		Removed:  2,
		Took:     1500 * time.Millisecond,
	}, nil
}

func (f *fakeRefresher) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.locations...)
}

// publishRecorder captures published refresh summaries.
type publishRecorder struct {
	mu        sync.Mutex
	topics    []string
	summaries []refreshSummary
}

func (p *publishRecorder) publish(topic string, payload []byte) error {
	var s refreshSummary
	if err := json.Unmarshal(payload, &s); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.summaries = append(p.summaries, s)
	return nil
}

func (p *publishRecorder) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.summaries)
}

func startLoop(t *testing.T, loop *refreshLoop) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestRefreshLoop_StartupAndCommands(t *testing.T) {
	fake := &fakeRefresher{}
	pub := &publishRecorder{}
	loop := newRefreshLoop(fake, "94043", 0, logging.Discard())
	loop.SetPublisher(pub.publish)
	startLoop(t, loop)

	require.NoError(t, loop.HandleCommand(mqtt.Topics{}.CommandRefresh(), []byte(" london ")))
	require.NoError(t, loop.HandleCommand(mqtt.Topics{}.CommandRefresh(), nil))

	require.Eventually(t, func() bool { return pub.count() == 3 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"94043", "london", "94043"}, fake.seen())

	pub.mu.Lock()
	defer pub.mu.Unlock()
	for _, topic := range pub.topics {
		assert.Equal(t, "sunshine/system/refresh", topic)
	}
	first := pub.summaries[0]
	assert.Equal(t, "94043", first.Location)
	assert.Equal(t, "Mountain View", first.City)
	assert.Equal(t, 14, first.Inserted)
	assert.Equal(t, int64(2), first.Removed)
	assert.Equal(t, int64(1500), first.TookMS)
	assert.Empty(t, first.Error)
	assert.NotEmpty(t, first.Timestamp)
}

func TestRefreshLoop_FailureIsPublished(t *testing.T) {
	fake := &fakeRefresher{}
	pub := &publishRecorder{}
	loop := newRefreshLoop(fake, "bad", 0, logging.Discard())
	loop.SetPublisher(pub.publish)
	startLoop(t, loop)

	require.Eventually(t, func() bool { return pub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, "bad", pub.summaries[0].Location)
	assert.Equal(t, "upstream down", pub.summaries[0].Error)
	assert.Zero(t, pub.summaries[0].Inserted)
}

func TestRefreshLoop_Interval(t *testing.T) {
	fake := &fakeRefresher{}
	loop := newRefreshLoop(fake, "94043", 20*time.Millisecond, logging.Discard())
	startLoop(t, loop)

	require.Eventually(t, func() bool { return len(fake.seen()) >= 3 }, 2*time.Second, 10*time.Millisecond)
	for _, location := range fake.seen() {
		assert.Equal(t, "94043", location)
	}
}

func TestRefreshLoop_RequestDropsWhenQueueFull(t *testing.T) {
	loop := newRefreshLoop(&fakeRefresher{}, "94043", 0, logging.Discard())

	for i := 0; i < pendingRequests; i++ {
		require.True(t, loop.Request("94043"), "request %d", i)
	}
	assert.False(t, loop.Request("94043"))
}

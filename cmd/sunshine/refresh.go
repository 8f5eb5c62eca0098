package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ceulain/sunshine-core/internal/infrastructure/logging"
	"github.com/ceulain/sunshine-core/internal/infrastructure/mqtt"
	"github.com/ceulain/sunshine-core/internal/weather"
)

// pendingRequests bounds queued on-demand refreshes. Requests arriving
// while the queue is full are dropped; a refresh is already pending.
const pendingRequests = 8

// refresher is the part of *weather.Syncer the loop drives.
type refresher interface {
	Refresh(ctx context.Context, locationSetting string) (weather.Result, error)
}

// refreshSummary is published to the system refresh topic after each run.
type refreshSummary struct {
	Location  string `json:"location"`
	City      string `json:"city,omitempty"`
	Inserted  int    `json:"inserted"`
	Removed   int64  `json:"removed"`
	TookMS    int64  `json:"took_ms"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// refreshLoop refreshes the preferred location at startup, on every
// interval tick, and whenever a refresh command arrives.
type refreshLoop struct {
	syncer   refresher
	location string
	interval time.Duration
	requests chan string
	log      *logging.Logger

	publish func(topic string, payload []byte) error
}

func newRefreshLoop(syncer refresher, location string, interval time.Duration, log *logging.Logger) *refreshLoop {
	return &refreshLoop{
		syncer:   syncer,
		location: location,
		interval: interval,
		requests: make(chan string, pendingRequests),
		log:      log,
	}
}

// SetPublisher sets where refresh summaries go. Must be called before Run.
func (l *refreshLoop) SetPublisher(publish func(topic string, payload []byte) error) {
	l.publish = publish
}

// Request queues a refresh of locationSetting, or of the preferred
// location when it is blank. It never blocks.
func (l *refreshLoop) Request(locationSetting string) bool {
	locationSetting = strings.TrimSpace(locationSetting)
	if locationSetting == "" {
		locationSetting = l.location
	}
	select {
	case l.requests <- locationSetting:
		return true
	default:
		l.log.Warn("refresh request dropped, queue full", "location", locationSetting)
		return false
	}
}

// HandleCommand is the MQTT handler for the refresh command topic.
// The payload, when present, names the location to refresh.
func (l *refreshLoop) HandleCommand(_ string, payload []byte) error {
	l.Request(string(payload))
	return nil
}

// Run blocks until ctx is cancelled. A zero interval disables the
// periodic refresh.
func (l *refreshLoop) Run(ctx context.Context) {
	var tick <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	l.refresh(ctx, l.location)

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			l.refresh(ctx, l.location)
		case location := <-l.requests:
			l.refresh(ctx, location)
		}
	}
}

func (l *refreshLoop) refresh(ctx context.Context, location string) {
	result, err := l.syncer.Refresh(ctx, location)

	summary := refreshSummary{
		Location:  location,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		l.log.Error("forecast refresh failed", "location", location, "error", err)
		summary.Error = err.Error()
	} else {
		summary.City = result.Location.CityName
		summary.Inserted = result.Inserted
		summary.Removed = result.Removed
		summary.TookMS = result.Took.Milliseconds()
	}

	if l.publish == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		l.log.Error("encoding refresh summary", "error", err)
		return
	}
	if err := l.publish(mqtt.Topics{}.SystemRefresh(), payload); err != nil {
		l.log.Warn("publishing refresh summary failed", "error", err)
	}
}

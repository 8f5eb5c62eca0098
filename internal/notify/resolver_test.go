package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceulain/sunshine-core/internal/contract"
)

// recorder is an observer that records every identifier it hears.
type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) OnChange(uri contract.URI) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, uri.String())
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

type logEntry struct {
	level string
	msg   string
}

type testLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *testLogger) Error(msg string, _ ...any) { l.add("error", msg) }
func (l *testLogger) Debug(msg string, _ ...any) { l.add("debug", msg) }

func (l *testLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, msg})
}

func (l *testLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func TestRegisterNilObserver(t *testing.T) {
	_, err := NewResolver().Register(contract.BaseURI, true, nil)
	assert.ErrorIs(t, err, ErrNilObserver)
}

func TestNotifyChangeMatching(t *testing.T) {
	weather := contract.WeatherEntry.ContentURI()
	location := contract.LocationEntry.ContentURI()
	weather94043 := contract.BuildWeatherLocation("94043")
	weatherDay := contract.BuildWeatherLocationWithDate("94043", 16440)

	tests := []struct {
		name        string
		observe     contract.URI
		descendants bool
		changed     contract.URI
		want        bool
	}{
		{"same identifier", weather, false, weather, true},
		{"observer below change", weather94043, false, weather, true},
		{"observer far below change", weatherDay, false, weather, true},
		{"change below observer without descendants", weather, false, weather94043, false},
		{"change below observer with descendants", weather, true, weatherDay, true},
		{"root with descendants hears everything", contract.BaseURI, true, location, true},
		{"sibling collection", location, true, weather, false},
		{"sibling location", contract.BuildWeatherLocation("10001"), true, weather94043, false},
		{"query ignored", weather94043, false, contract.BuildWeatherLocationWithStartDate("94043", 16440), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			rec := &recorder{}
			_, err := r.Register(tt.observe, tt.descendants, rec)
			require.NoError(t, err)

			r.NotifyChange(tt.changed)

			if tt.want {
				assert.Equal(t, []string{tt.changed.String()}, rec.got())
			} else {
				assert.Empty(t, rec.got())
			}
		})
	}
}

func TestNotifyChangeOrder(t *testing.T) {
	r := NewResolver()
	var order []int
	for i := range 3 {
		_, err := r.Register(contract.BaseURI, true, ObserverFunc(func(contract.URI) {
			order = append(order, i)
		}))
		require.NoError(t, err)
	}

	r.NotifyChange(contract.WeatherEntry.ContentURI())
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestUnregister(t *testing.T) {
	r := NewResolver()
	rec := &recorder{}
	id, err := r.Register(contract.BaseURI, true, rec)
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	assert.True(t, r.Unregister(id))
	assert.False(t, r.Unregister(id), "second unregister")
	assert.Equal(t, 0, r.Len())

	r.NotifyChange(contract.WeatherEntry.ContentURI())
	assert.Empty(t, rec.got())
}

func TestObserverPanicIsContained(t *testing.T) {
	r := NewResolver()
	logger := &testLogger{}
	r.SetLogger(logger)

	_, err := r.Register(contract.BaseURI, true, ObserverFunc(func(contract.URI) { panic("boom") }))
	require.NoError(t, err)
	rec := &recorder{}
	_, err = r.Register(contract.BaseURI, true, rec)
	require.NoError(t, err)

	r.NotifyChange(contract.LocationEntry.ContentURI())

	assert.Len(t, rec.got(), 1, "observer after the panicking one still runs")
	assert.Equal(t, 1, logger.count("error"))
	assert.Equal(t, 1, logger.count("debug"))
}

func TestRegisterFromObserver(t *testing.T) {
	r := NewResolver()
	_, err := r.Register(contract.BaseURI, true, ObserverFunc(func(contract.URI) {
		r.Register(contract.BaseURI, true, &recorder{}) //nolint:errcheck // observer is non-nil
	}))
	require.NoError(t, err)

	r.NotifyChange(contract.BaseURI)
	assert.Equal(t, 2, r.Len())
}

func TestConcurrentNotify(t *testing.T) {
	r := NewResolver()
	rec := &recorder{}
	_, err := r.Register(contract.BaseURI, true, rec)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.NotifyChange(contract.WeatherEntry.ContentURI())
		}()
	}
	wg.Wait()
	assert.Len(t, rec.got(), 20)
}

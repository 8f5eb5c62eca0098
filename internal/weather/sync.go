package weather

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ceulain/sunshine-core/internal/contract"
	"github.com/ceulain/sunshine-core/internal/provider"
)

// Fetcher returns raw daily forecast JSON. *Client satisfies it.
type Fetcher interface {
	FetchForecast(ctx context.Context, location, units string, days int) ([]byte, error)
}

// Recorder receives the outcome of each refresh.
// *influxdb.Client satisfies it.
type Recorder interface {
	RecordForecast(loc contract.Location, records []contract.WeatherRecord)
	RecordRefresh(locationSetting string, inserted int, took time.Duration)
}

// Logger interface for optional logging support.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// SyncOptions controls what each refresh asks upstream for.
type SyncOptions struct {
	Days  int
	Units string
}

// Result summarizes one refresh.
type Result struct {
	Location contract.Location
	Inserted int
	Removed  int64
	Took     time.Duration
}

// Syncer refreshes stored forecasts from upstream.
//
// Refreshes of different locations may run concurrently; each refresh is
// a short sequence of provider calls and relies on the store for
// atomicity.
type Syncer struct {
	provider *provider.Provider
	fetcher  Fetcher
	opts     SyncOptions

	mu       sync.RWMutex
	recorder Recorder
	logger   Logger

	now func() time.Time
}

// NewSyncer creates a syncer that stores forecasts through p.
func NewSyncer(p *provider.Provider, fetcher Fetcher, opts SyncOptions) *Syncer {
	return &Syncer{provider: p, fetcher: fetcher, opts: opts, now: time.Now}
}

// SetRecorder sets an optional telemetry recorder.
func (s *Syncer) SetRecorder(r Recorder) {
	s.mu.Lock()
	s.recorder = r
	s.mu.Unlock()
}

// SetLogger sets a logger for refresh outcomes.
func (s *Syncer) SetLogger(logger Logger) {
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}

// Refresh fetches the forecast for locationSetting and replaces the stored
// rows of that location with it. Rows older than yesterday are pruned for
// every location.
func (s *Syncer) Refresh(ctx context.Context, locationSetting string) (Result, error) {
	start := s.now()
	locationSetting = strings.TrimSpace(locationSetting)
	if locationSetting == "" {
		return Result{}, ErrEmptyLocation
	}

	raw, err := s.fetcher.FetchForecast(ctx, locationSetting, s.opts.Units, s.opts.Days)
	if err != nil {
		return Result{}, fmt.Errorf("refreshing %s: %w", locationSetting, err)
	}
	forecast, err := ParseForecast(raw)
	if err != nil {
		return Result{}, fmt.Errorf("refreshing %s: %w", locationSetting, err)
	}

	loc := contract.Location{
		LocationSetting: locationSetting,
		CityName:        forecast.City,
		Latitude:        forecast.Latitude,
		Longitude:       forecast.Longitude,
	}
	loc.ID, err = s.AddLocation(ctx, loc)
	if err != nil {
		return Result{}, fmt.Errorf("refreshing %s: %w", locationSetting, err)
	}

	removed, err := s.prune(ctx, loc.ID, forecast)
	if err != nil {
		return Result{}, fmt.Errorf("refreshing %s: %w", locationSetting, err)
	}

	records := make([]contract.WeatherRecord, len(forecast.Days))
	rows := make([]contract.Values, len(forecast.Days))
	for i, d := range forecast.Days {
		records[i] = d.Record(loc.ID)
		rows[i] = records[i].ToValues()
	}

	inserted, err := s.provider.BulkInsert(ctx, contract.WeatherEntry.ContentURI(), rows)
	if err != nil {
		return Result{}, fmt.Errorf("refreshing %s: %w", locationSetting, err)
	}

	result := Result{Location: loc, Inserted: inserted, Removed: removed, Took: s.now().Sub(start)}

	s.mu.RLock()
	recorder, logger := s.recorder, s.logger
	s.mu.RUnlock()

	if recorder != nil {
		recorder.RecordForecast(loc, records)
		recorder.RecordRefresh(locationSetting, inserted, result.Took)
	}
	if logger != nil {
		if inserted < len(rows) {
			logger.Warn("forecast rows skipped", "location", locationSetting, "skipped", len(rows)-inserted)
		}
		logger.Info("forecast refreshed",
			"location", locationSetting,
			"city", loc.CityName,
			"inserted", inserted,
			"removed", removed,
			"took", result.Took,
		)
	}
	return result, nil
}

// AddLocation returns the id of the stored location with loc's setting,
// inserting loc first when none exists.
func (s *Syncer) AddLocation(ctx context.Context, loc contract.Location) (int64, error) {
	locations := contract.LocationEntry.ContentURI()

	cursor, err := s.provider.Read(ctx, locations,
		[]string{contract.ColumnID},
		contract.ColumnLocationSetting+" = ?", []any{loc.LocationSetting}, "")
	if err != nil {
		return 0, fmt.Errorf("looking up location: %w", err)
	}
	defer cursor.Close() //nolint:errcheck // cursor was never watched

	var found []contract.Location
	if err := cursor.Decode(&found); err != nil {
		return 0, fmt.Errorf("looking up location: %w", err)
	}
	if len(found) > 0 {
		return found[0].ID, nil
	}

	item, err := s.provider.Insert(ctx, locations, loc.ToValues())
	if err != nil {
		return 0, fmt.Errorf("adding location: %w", err)
	}
	return contract.IDFromURI(item)
}

// prune deletes the location's rows from the first forecast day on, then
// every row older than yesterday.
func (s *Syncer) prune(ctx context.Context, locationID int64, forecast *Forecast) (int64, error) {
	weather := contract.WeatherEntry.ContentURI()
	var removed int64

	if len(forecast.Days) > 0 {
		first := forecast.Days[0].Date
		for _, d := range forecast.Days[1:] {
			first = min(first, d.Date)
		}
		n, err := s.provider.Delete(ctx, weather,
			contract.ColumnLocationKey+" = ? AND "+contract.ColumnDate+" >= ?",
			[]any{locationID, first})
		if err != nil {
			return 0, fmt.Errorf("replacing forecast: %w", err)
		}
		removed += n
	}

	yesterday := contract.NormalizeDate(s.now()) - 1
	n, err := s.provider.Delete(ctx, weather, contract.ColumnDate+" < ?", []any{yesterday})
	if err != nil {
		return 0, fmt.Errorf("pruning old forecast: %w", err)
	}
	return removed + n, nil
}

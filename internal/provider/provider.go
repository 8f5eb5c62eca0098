package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/ceulain/sunshine-core/internal/contract"
	"github.com/ceulain/sunshine-core/internal/notify"
	"github.com/ceulain/sunshine-core/internal/store"
)

// Notifier broadcasts changes and keeps observer registrations.
// *notify.Resolver satisfies it.
type Notifier interface {
	NotifyChange(uri contract.URI)
	Register(uri contract.URI, descendants bool, observer notify.Observer) (string, error)
	Unregister(id string) bool
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Provider routes resource identifiers to the store.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - Calls block on the store; there is no internal queue.
//   - Notifications are raised on the calling goroutine after the mutation
//     has committed.
type Provider struct {
	engine   store.Engine
	notifier Notifier
	matcher  *Matcher
	builder  *QueryBuilder

	logger   Logger
	loggerMu sync.RWMutex
}

// New creates a provider over engine that reports changes to notifier.
func New(engine store.Engine, notifier Notifier) (*Provider, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	if notifier == nil {
		return nil, ErrNilNotifier
	}
	return &Provider{
		engine:   engine,
		notifier: notifier,
		matcher:  DefaultMatcher(),
		builder:  NewQueryBuilder(),
	}, nil
}

// SetLogger sets a logger for operation tracing.
func (p *Provider) SetLogger(logger Logger) {
	p.loggerMu.Lock()
	p.logger = logger
	p.loggerMu.Unlock()
}

func (p *Provider) getLogger() Logger {
	p.loggerMu.RLock()
	defer p.loggerMu.RUnlock()
	return p.logger
}

func (p *Provider) debug(msg string, args ...any) {
	if logger := p.getLogger(); logger != nil {
		logger.Debug(msg, args...)
	}
}

// Match classifies u.
func (p *Provider) Match(u contract.URI) Route {
	return p.matcher.Match(u)
}

// Describe returns the content type of the data u addresses.
func (p *Provider) Describe(u contract.URI) (string, error) {
	switch p.matcher.Match(u) {
	case RouteWeather, RouteWeatherWithLocation:
		return contract.WeatherEntry.ContentType(), nil
	case RouteWeatherWithLocationAndDate:
		return contract.WeatherEntry.ContentItemType(), nil
	case RouteLocation:
		return contract.LocationEntry.ContentType(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRoute, u)
	}
}

// Read returns the rows u addresses.
//
// The per-location weather routes select by the identifier and ignore
// where and args. The collection routes read their own table filtered by
// where and args. A nil columns slice selects every column.
func (p *Provider) Read(ctx context.Context, u contract.URI, columns []string, where string, args []any, sortOrder string) (*Cursor, error) {
	route := p.matcher.Match(u)
	if route == RouteNoMatch {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRoute, u)
	}

	q, err := p.builder.Build(route, u, columns, where, args, sortOrder)
	if err != nil {
		return nil, err
	}

	rows, err := p.engine.Readable().Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrStoreFailure, u, err)
	}
	cursor, err := materialize(u, rows, p.notifier)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrStoreFailure, u, err)
	}

	p.debug("read", "uri", u.String(), "route", route.String(), "rows", cursor.Len())
	return cursor, nil
}

// Insert writes one row to the collection u and returns the new item's
// identifier. The collection identifier is notified on success.
func (p *Provider) Insert(ctx context.Context, u contract.URI, values contract.Values) (contract.URI, error) {
	entry, err := p.collection(u)
	if err != nil {
		return contract.URI{}, err
	}

	id, err := p.engine.Writable().Insert(ctx, entry.Table, values)
	switch {
	case err != nil && store.IsConstraint(err):
		return contract.URI{}, fmt.Errorf("%w: %s: %w", ErrInsertFailed, u, err)
	case err != nil:
		return contract.URI{}, fmt.Errorf("%w: inserting into %s: %w", ErrStoreFailure, u, err)
	case id <= 0:
		return contract.URI{}, fmt.Errorf("%w: %s: no row written", ErrInsertFailed, u)
	}

	p.notifier.NotifyChange(u)
	p.debug("inserted", "uri", u.String(), "id", id)
	return entry.BuildURI(id), nil
}

// BulkInsert writes rows to the weather collection in one transaction and
// returns how many were written.
//
// Rows the store rejects are skipped without failing the batch. Any other
// store error rolls the whole batch back. One notification follows the
// commit.
func (p *Provider) BulkInsert(ctx context.Context, u contract.URI, rows []contract.Values) (int, error) {
	if p.matcher.Match(u) != RouteWeather {
		return 0, fmt.Errorf("%w: bulk insert into %s", ErrUnsupportedRoute, u)
	}
	table := contract.WeatherEntry.Table

	tx, err := p.engine.Writable().Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	defer tx.End() //nolint:errcheck // rolls back only when not marked successful

	inserted := 0
	for i, row := range rows {
		if _, err := tx.Insert(ctx, table, row); err != nil {
			if !store.IsConstraint(err) {
				return 0, fmt.Errorf("%w: bulk insert into %s: %w", ErrStoreFailure, u, err)
			}
			if logger := p.getLogger(); logger != nil {
				logger.Warn("bulk insert row skipped", "uri", u.String(), "row", i, "error", err)
			}
			continue
		}
		inserted++
	}

	tx.MarkSuccessful()
	if err := tx.End(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	p.notifier.NotifyChange(u)
	p.debug("bulk inserted", "uri", u.String(), "rows", len(rows), "inserted", inserted)
	return inserted, nil
}

// Update applies values to rows of the collection u matching where.
//
// Empty values fall back to deleting the matching rows. An empty where
// matches every row. The collection is notified when any row changed.
func (p *Provider) Update(ctx context.Context, u contract.URI, values contract.Values, where string, args []any) (int64, error) {
	entry, err := p.collection(u)
	if err != nil {
		return 0, err
	}

	conn := p.engine.Writable()
	var n int64
	if len(values) == 0 {
		n, err = conn.Delete(ctx, entry.Table, where, args)
	} else {
		n, err = conn.Update(ctx, entry.Table, values, where, args)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: updating %s: %w", ErrStoreFailure, u, err)
	}

	if n > 0 {
		p.notifier.NotifyChange(u)
	}
	p.debug("updated", "uri", u.String(), "rows", n)
	return n, nil
}

// Delete removes rows of the collection u matching where.
//
// An empty where deletes every row. The collection is notified when any
// row was removed.
func (p *Provider) Delete(ctx context.Context, u contract.URI, where string, args []any) (int64, error) {
	entry, err := p.collection(u)
	if err != nil {
		return 0, err
	}

	n, err := p.engine.Writable().Delete(ctx, entry.Table, where, args)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting from %s: %w", ErrStoreFailure, u, err)
	}

	if n > 0 {
		p.notifier.NotifyChange(u)
	}
	p.debug("deleted", "uri", u.String(), "rows", n)
	return n, nil
}

// collection resolves a mutable collection identifier to its entry.
func (p *Provider) collection(u contract.URI) (contract.Entry, error) {
	switch p.matcher.Match(u) {
	case RouteWeather:
		return contract.WeatherEntry, nil
	case RouteLocation:
		return contract.LocationEntry, nil
	default:
		return contract.Entry{}, fmt.Errorf("%w: %s is not a collection", ErrUnsupportedRoute, u)
	}
}

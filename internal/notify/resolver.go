package notify

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ceulain/sunshine-core/internal/contract"
)

// Observer receives change notifications.
//
// OnChange is called synchronously on the goroutine that committed the
// mutation, so it should hand long work off rather than block.
type Observer interface {
	OnChange(uri contract.URI)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(uri contract.URI)

// OnChange calls f(uri).
func (f ObserverFunc) OnChange(uri contract.URI) { f(uri) }

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// registration is one observer bound to an identifier.
type registration struct {
	id          string
	uri         contract.URI
	descendants bool
	observer    Observer
}

// matches reports whether a change at changed should reach this registration.
func (r registration) matches(changed contract.URI) bool {
	if r.uri.HasPrefix(changed) {
		// Observer sits at or below the changed identifier.
		return true
	}
	return r.descendants && changed.HasPrefix(r.uri)
}

// Resolver is an in-process registry of observers.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - Observers are called without the registry lock held, so an observer
//     may register or unregister from inside OnChange.
type Resolver struct {
	mu            sync.RWMutex
	registrations []registration

	logger   Logger
	loggerMu sync.RWMutex
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SetLogger sets a logger for delivery and panic logging.
func (r *Resolver) SetLogger(logger Logger) {
	r.loggerMu.Lock()
	r.logger = logger
	r.loggerMu.Unlock()
}

func (r *Resolver) getLogger() Logger {
	r.loggerMu.RLock()
	defer r.loggerMu.RUnlock()
	return r.logger
}

// Register adds observer at uri and returns a handle for Unregister.
//
// With descendants set, the observer also hears about changes below uri;
// without it, only changes at uri or above it are delivered.
func (r *Resolver) Register(uri contract.URI, descendants bool, observer Observer) (string, error) {
	if observer == nil {
		return "", ErrNilObserver
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.registrations = append(r.registrations, registration{
		id:          id,
		uri:         uri.WithoutQuery(),
		descendants: descendants,
		observer:    observer,
	})
	r.mu.Unlock()
	return id, nil
}

// Unregister removes the observer registered under id.
// It reports whether anything was removed.
func (r *Resolver) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.registrations {
		if reg.id == id {
			r.registrations = append(r.registrations[:i], r.registrations[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered observers.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// NotifyChange delivers a change at uri to every matching observer in
// registration order.
func (r *Resolver) NotifyChange(uri contract.URI) {
	changed := uri.WithoutQuery()

	r.mu.RLock()
	targets := make([]registration, 0, len(r.registrations))
	for _, reg := range r.registrations {
		if reg.matches(changed) {
			targets = append(targets, reg)
		}
	}
	r.mu.RUnlock()

	if logger := r.getLogger(); logger != nil {
		logger.Debug("change notified", "uri", uri.String(), "observers", len(targets))
	}

	for _, reg := range targets {
		r.deliver(reg, uri)
	}
}

// deliver calls one observer, recovering from a panic so that the remaining
// observers still run.
func (r *Resolver) deliver(reg registration, uri contract.URI) {
	defer func() {
		if rec := recover(); rec != nil {
			if logger := r.getLogger(); logger != nil {
				logger.Error("observer panic recovered",
					"registration", reg.id,
					"uri", uri.String(),
					"panic", rec,
				)
			}
		}
	}()
	reg.observer.OnChange(uri)
}

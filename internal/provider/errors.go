package provider

import "errors"

// Domain errors for the provider package.
//
// Every error returned by Provider wraps one of these, so callers can
// branch with errors.Is:
//
//	if errors.Is(err, provider.ErrUnsupportedRoute) {
//	    // identifier has the wrong shape for this operation
//	}
var (
	// ErrUnsupportedRoute is returned when an identifier matches no route or
	// names a route the operation does not accept.
	ErrUnsupportedRoute = errors.New("provider: unsupported route")

	// ErrInsertFailed is returned when a single insert wrote no row.
	ErrInsertFailed = errors.New("provider: insert failed")

	// ErrStoreFailure is returned when the store fails outside the per-row
	// rejections tolerated by BulkInsert.
	ErrStoreFailure = errors.New("provider: store failure")

	// ErrInvalidColumn is returned when a projection or sort order names a
	// column outside the route's tables.
	ErrInvalidColumn = errors.New("provider: invalid column")

	// ErrInvalidPattern is returned when a matcher pattern cannot be parsed.
	ErrInvalidPattern = errors.New("provider: invalid pattern")

	// ErrNilEngine is returned when building a provider without a store.
	ErrNilEngine = errors.New("provider: engine is nil")

	// ErrNilNotifier is returned when building a provider without a notifier.
	ErrNilNotifier = errors.New("provider: notifier is nil")

	// ErrCursorClosed is returned when watching a closed cursor.
	ErrCursorClosed = errors.New("provider: cursor closed")
)

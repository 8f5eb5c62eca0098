package notify

import "errors"

// Domain errors for the notify package.
var (
	// ErrNilObserver is returned when registering a nil observer.
	ErrNilObserver = errors.New("notify: observer is nil")

	// ErrNilPublisher is returned when building a forwarder without a publisher.
	ErrNilPublisher = errors.New("notify: publisher is nil")
)

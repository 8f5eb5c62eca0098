package influxdb

import "errors"

// Sentinel errors for telemetry operations.
//
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without telemetry
//	}
var (
	// ErrNotConnected indicates the client is closed or never connected.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the initial ping failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed wraps asynchronous batch write failures.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrDisabled indicates telemetry is disabled in configuration.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)

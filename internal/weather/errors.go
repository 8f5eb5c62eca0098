package weather

import "errors"

// Domain errors for the weather package.
var (
	// ErrFetchFailed is returned when the upstream request fails or answers
	// with a non-200 status.
	ErrFetchFailed = errors.New("weather: fetch failed")

	// ErrNoAPIKey is returned when fetching without a configured API key.
	ErrNoAPIKey = errors.New("weather: no api key configured")

	// ErrParse is returned when forecast JSON cannot be interpreted.
	ErrParse = errors.New("weather: invalid forecast data")

	// ErrEmptyLocation is returned when refreshing a blank location setting.
	ErrEmptyLocation = errors.New("weather: empty location setting")
)

package settings

import "errors"

// Domain errors for the settings package.
var (
	// ErrUnknownPreference is returned for a key no preference defines.
	ErrUnknownPreference = errors.New("settings: unknown preference")

	// ErrInvalidChoice is returned when a choice is not one of the
	// preference's entry values.
	ErrInvalidChoice = errors.New("settings: invalid choice")

	// ErrEmptyValue is returned when a text preference is set to blank.
	ErrEmptyValue = errors.New("settings: empty value")
)

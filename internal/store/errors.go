package store

import "errors"

// Domain errors for the store package.
//
// ErrUnknownColumn and ErrNoValues describe a malformed row and are treated
// as per-row rejections by IsConstraint.
var (
	// ErrUnknownTable is returned when a statement names a table outside the contract.
	ErrUnknownTable = errors.New("store: unknown table")

	// ErrUnknownColumn is returned when a row names a column the table does not have.
	ErrUnknownColumn = errors.New("store: unknown column")

	// ErrNoValues is returned when an insert or update carries no values.
	ErrNoValues = errors.New("store: no values")
)

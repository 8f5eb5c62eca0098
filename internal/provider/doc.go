// Package provider exposes the forecast store through resource identifiers.
//
// Callers address data with contract.URI values and never see table or
// column names:
//
//	content://com.example.android.sunshine.app/location
//	content://com.example.android.sunshine.app/weather
//	content://com.example.android.sunshine.app/weather/<setting>[?date=<start>]
//	content://com.example.android.sunshine.app/weather/<setting>/<date>
//
// A request flows through three pieces:
//
//   - Matcher classifies the identifier into a Route by its path shape.
//   - QueryBuilder turns the route and identifier into a bound-parameter
//     filter, joining weather to location for the per-location routes.
//   - Provider executes the operation against a store.Engine and, after a
//     mutation commits, raises one change notification.
//
// # Mutations
//
// Insert, Update and Delete work on the two collection routes only.
// BulkInsert accepts the weather collection and runs every row inside one
// transaction: rows the store rejects (duplicate day, unknown location) are
// skipped and the rest commit together. Update and Delete with an empty
// predicate match every row.
//
// # Observing
//
// Read returns a fully materialized Cursor. Watching a cursor registers it
// with the Notifier so the observer hears about any later change at, above
// or below the identifier it was read from.
package provider

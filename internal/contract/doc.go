// Package contract defines the resource vocabulary shared by the provider
// and its callers.
//
// It names the two resource kinds (locations and their weather records),
// the content URIs that address them, their table and column names, and the
// helpers that build and take apart resource identifiers.
//
// # Identifier Grammar
//
//	content://com.example.android.sunshine.app/location
//	content://com.example.android.sunshine.app/weather
//	content://com.example.android.sunshine.app/weather/{setting}
//	content://com.example.android.sunshine.app/weather/{setting}?date={startDate}
//	content://com.example.android.sunshine.app/weather/{setting}/{date}
//
// Dates in identifiers are day values produced by NormalizeDate.
//
// The decomposition helpers (LocationSettingFromURI, DateFromURI) assume the
// identifier has already been classified by the provider's route matcher.
// Calling them on a differently shaped identifier panics.
package contract

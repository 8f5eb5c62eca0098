// Package store is the storage engine consumed by the provider.
//
// It turns the provider's fixed statement shapes (select with optional
// where/group/having/order, insert of a Values row, update and delete by
// predicate) into parameterised SQLite statements, and exposes explicit
// transactions for batched inserts.
//
// Table and column names are checked against the contract before they are
// placed in statement text; every value is a bound parameter.
//
// Schema creation belongs to the database package's migrations.
package store

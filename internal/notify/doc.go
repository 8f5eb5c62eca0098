// Package notify delivers change notifications for resource identifiers.
//
// A Resolver keeps a registry of observers keyed by identifier. When a
// mutation commits, the provider calls NotifyChange with the identifier it
// touched; every observer registered at that identifier or below it is
// called, as is every observer registered above it with descendant delivery
// enabled.
//
// Delivery is synchronous and fire-and-forget: NotifyChange returns nothing,
// and an observer that panics is logged and skipped.
//
// MQTTForwarder is an observer that republishes every change under the
// sunshine/change/... topic tree so processes outside this one can react.
package notify

// Package settings defines the user preferences and how their values are
// summarized for display.
//
// A preference value is one of a closed set of shapes (Value): free text
// or a choice among a preference's entry values. Summary resolves the
// shape with a type switch instead of inspecting an untyped value.
package settings

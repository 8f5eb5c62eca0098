package provider

import (
	"fmt"
	"strings"

	"github.com/ceulain/sunshine-core/internal/contract"
)

// Route classifies a resource identifier.
type Route int

// Route kinds. The values are stable and appear in logs.
const (
	RouteNoMatch                    Route = -1
	RouteWeather                    Route = 100
	RouteWeatherWithLocation        Route = 101
	RouteWeatherWithLocationAndDate Route = 102
	RouteLocation                   Route = 300
)

// String returns the route name.
func (r Route) String() string {
	switch r {
	case RouteWeather:
		return "weather"
	case RouteWeatherWithLocation:
		return "weather_with_location"
	case RouteWeatherWithLocationAndDate:
		return "weather_with_location_and_date"
	case RouteLocation:
		return "location"
	case RouteNoMatch:
		return "no_match"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// Joined reports whether the route reads weather joined to location.
func (r Route) Joined() bool {
	return r == RouteWeatherWithLocation || r == RouteWeatherWithLocationAndDate
}

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentAny                 // "*": any non-empty segment
	segmentNumber              // "#": an unsigned decimal that fits in int64
)

type patternSegment struct {
	kind    segmentKind
	literal string
}

func (s patternSegment) matches(segment string) bool {
	switch s.kind {
	case segmentAny:
		return segment != ""
	case segmentNumber:
		return isNumber(segment)
	default:
		return segment == s.literal
	}
}

type pattern struct {
	segments []patternSegment
	route    Route
}

// Matcher classifies identifiers by authority and path shape.
//
// Patterns are tried in the order they were added and the first whose
// segment count and segment kinds fit wins. Query parameters are never
// inspected.
//
// A Matcher is built once at startup and only read afterwards; Match is
// safe for concurrent use once no more patterns are added.
type Matcher struct {
	authority string
	patterns  []pattern
}

// NewMatcher creates an empty matcher for identifiers under authority.
func NewMatcher(authority string) *Matcher {
	return &Matcher{authority: authority}
}

// DefaultMatcher returns the matcher for the four sunshine routes.
func DefaultMatcher() *Matcher {
	m := NewMatcher(contract.Authority)
	for _, p := range []struct {
		path  string
		route Route
	}{
		{contract.PathWeather, RouteWeather},
		{contract.PathWeather + "/*", RouteWeatherWithLocation},
		{contract.PathWeather + "/*/#", RouteWeatherWithLocationAndDate},
		{contract.PathLocation, RouteLocation},
	} {
		if err := m.Add(p.path, p.route); err != nil {
			panic(err) // patterns are constants
		}
	}
	return m
}

// Add registers path for route. Segments are separated by "/"; "*" matches
// any segment and "#" matches a numeric one.
func (m *Matcher) Add(path string, route Route) error {
	if route == RouteNoMatch {
		return fmt.Errorf("%w: %q maps to %s", ErrInvalidPattern, path, route)
	}

	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPattern)
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]patternSegment, len(parts))
	for i, part := range parts {
		switch part {
		case "":
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPattern, path)
		case "*":
			segments[i] = patternSegment{kind: segmentAny}
		case "#":
			segments[i] = patternSegment{kind: segmentNumber}
		default:
			segments[i] = patternSegment{kind: segmentLiteral, literal: part}
		}
	}

	m.patterns = append(m.patterns, pattern{segments: segments, route: route})
	return nil
}

// Match returns the route of u, or RouteNoMatch.
func (m *Matcher) Match(u contract.URI) Route {
	if u.Authority() != m.authority {
		return RouteNoMatch
	}

	path := u.PathSegments()
	for _, p := range m.patterns {
		if len(p.segments) != len(path) {
			continue
		}
		matched := true
		for i, seg := range p.segments {
			if !seg.matches(path[i]) {
				matched = false
				break
			}
		}
		if matched {
			return p.route
		}
	}
	return RouteNoMatch
}

// isNumber reports whether s is all ASCII digits and fits in an int64.
func isNumber(s string) bool {
	const maxDigits = 18 // every 18-digit decimal fits in int64
	if s == "" || len(s) > maxDigits+1 {
		return false
	}
	var n uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + uint64(r-'0')
	}
	return n <= 1<<63-1
}

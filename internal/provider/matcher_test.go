package provider

import (
	"errors"
	"testing"

	"github.com/ceulain/sunshine-core/internal/contract"
)

func TestDefaultMatcher(t *testing.T) {
	m := DefaultMatcher()
	base := "content://" + contract.Authority

	tests := []struct {
		uri  string
		want Route
	}{
		{base + "/weather", RouteWeather},
		{base + "/weather/", RouteWeather},
		{base + "/weather/seattle", RouteWeatherWithLocation},
		{base + "/weather/seattle?date=16436", RouteWeatherWithLocation},
		{base + "/weather/94043", RouteWeatherWithLocation},
		{base + "/weather/seattle/16440", RouteWeatherWithLocationAndDate},
		{base + "/weather/seattle/16440?date=1", RouteWeatherWithLocationAndDate},
		{base + "/location", RouteLocation},
		{base + "/location?x=1", RouteLocation},
		{base, RouteNoMatch},
		{base + "/weather/seattle/tomorrow", RouteNoMatch},
		{base + "/weather/seattle/-1", RouteNoMatch},
		{base + "/weather/seattle/99999999999999999999", RouteNoMatch},
		{base + "/weather/seattle/16440/extra", RouteNoMatch},
		{base + "/location/7", RouteNoMatch},
		{base + "/forecast", RouteNoMatch},
		{"content://other.authority/weather", RouteNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			if got := m.Match(contract.MustParseURI(tt.uri)); got != tt.want {
				t.Errorf("Match() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMatchZeroURI(t *testing.T) {
	if got := DefaultMatcher().Match(contract.URI{}); got != RouteNoMatch {
		t.Errorf("Match(zero) = %s, want no_match", got)
	}
}

func TestMatcherOrder(t *testing.T) {
	m := NewMatcher("a")
	if err := m.Add("x/*", 1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := m.Add("x/#", 2); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if got := m.Match(contract.NewURI("content", "a", "x", "42")); got != 1 {
		t.Errorf("Match() = %d, want first added pattern", got)
	}
}

func TestMatcherAddInvalid(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		route Route
	}{
		{"empty", "", 1},
		{"slashes only", "//", 1},
		{"empty segment", "weather//x", 1},
		{"no match route", "weather", RouteNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMatcher("a").Add(tt.path, tt.route)
			if !errors.Is(err, ErrInvalidPattern) {
				t.Errorf("Add(%q) error = %v, want ErrInvalidPattern", tt.path, err)
			}
		})
	}
}

func TestIsNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"16440", true},
		{"9223372036854775807", true},
		{"9223372036854775808", false},
		{"", false},
		{"+1", false},
		{"1e3", false},
		{"١٢", false},
	}
	for _, tt := range tests {
		if got := isNumber(tt.in); got != tt.want {
			t.Errorf("isNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRouteString(t *testing.T) {
	if RouteWeatherWithLocationAndDate.String() != "weather_with_location_and_date" {
		t.Errorf("String() = %q", RouteWeatherWithLocationAndDate.String())
	}
	if Route(7).String() != "route(7)" {
		t.Errorf("String() = %q", Route(7).String())
	}
	if !RouteWeatherWithLocation.Joined() || RouteWeather.Joined() {
		t.Error("Joined() misclassifies routes")
	}
}

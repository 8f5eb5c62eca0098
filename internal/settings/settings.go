package settings

import (
	"fmt"
	"strings"

	"github.com/ceulain/sunshine-core/internal/infrastructure/config"
)

// Preference keys.
const (
	KeyLocation = "location"
	KeyUnits    = "units"
)

// Unit systems accepted by the units preference and the forecast API.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Preference describes one user setting. A preference with EntryValues is
// a choice list; Entries holds the matching display labels.
type Preference struct {
	Key         string
	Title       string
	Default     string
	Entries     []string
	EntryValues []string
}

// IsChoice reports whether p is a choice list.
func (p Preference) IsChoice() bool {
	return len(p.EntryValues) > 0
}

// IndexOf returns the index of value in EntryValues, or -1.
func (p Preference) IndexOf(value string) int {
	for i, v := range p.EntryValues {
		if v == value {
			return i
		}
	}
	return -1
}

// LocationPreference is the location used for forecasts.
var LocationPreference = Preference{
	Key:     KeyLocation,
	Title:   "Location",
	Default: "94043",
}

// UnitsPreference is the temperature unit system.
var UnitsPreference = Preference{
	Key:         KeyUnits,
	Title:       "Temperature Units",
	Default:     UnitsMetric,
	Entries:     []string{"Metric", "Imperial"},
	EntryValues: []string{UnitsMetric, UnitsImperial},
}

// All returns every preference in display order.
func All() []Preference {
	return []Preference{LocationPreference, UnitsPreference}
}

// Lookup returns the preference with key.
func Lookup(key string) (Preference, error) {
	for _, p := range All() {
		if p.Key == key {
			return p, nil
		}
	}
	return Preference{}, fmt.Errorf("%w: %q", ErrUnknownPreference, key)
}

// Value is a preference value. It is implemented only by StringValue and
// ChoiceValue.
type Value interface {
	String() string
	isValue()
}

// StringValue is free text.
type StringValue string

func (v StringValue) String() string { return string(v) }
func (StringValue) isValue()         {}

// ChoiceValue is one of a choice preference's entry values.
type ChoiceValue string

func (v ChoiceValue) String() string { return string(v) }
func (ChoiceValue) isValue()         {}

// Summary returns the text shown for value under p: the entry label for a
// choice, the text itself otherwise. An unknown choice yields "".
func Summary(p Preference, value Value) string {
	switch v := value.(type) {
	case ChoiceValue:
		if i := p.IndexOf(string(v)); i >= 0 && i < len(p.Entries) {
			return p.Entries[i]
		}
		return ""
	case StringValue:
		return string(v)
	default:
		return ""
	}
}

// Parse converts raw into the value shape p expects.
func Parse(p Preference, raw string) (Value, error) {
	if p.IsChoice() {
		if p.IndexOf(raw) < 0 {
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidChoice, raw, p.Key)
		}
		return ChoiceValue(raw), nil
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyValue, p.Key)
	}
	return StringValue(strings.TrimSpace(raw)), nil
}

// Resolved holds the effective preference values.
type Resolved struct {
	Location StringValue
	Units    ChoiceValue
}

// FromConfig resolves the configured preferences, falling back to each
// preference's default when a value is blank.
func FromConfig(cfg config.PreferencesConfig) (Resolved, error) {
	location, err := parseOrDefault(LocationPreference, cfg.Location)
	if err != nil {
		return Resolved{}, err
	}
	units, err := parseOrDefault(UnitsPreference, cfg.Units)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		Location: location.(StringValue), //nolint:forcetypeassert // Parse returns StringValue for text preferences
		Units:    units.(ChoiceValue),    //nolint:forcetypeassert // Parse returns ChoiceValue for choice preferences
	}, nil
}

func parseOrDefault(p Preference, raw string) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		raw = p.Default
	}
	return Parse(p, raw)
}

// Summaries returns the display summary of every preference.
func (r Resolved) Summaries() map[string]string {
	return map[string]string{
		KeyLocation: Summary(LocationPreference, r.Location),
		KeyUnits:    Summary(UnitsPreference, r.Units),
	}
}

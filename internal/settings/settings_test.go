package settings

import (
	"errors"
	"testing"

	"github.com/ceulain/sunshine-core/internal/infrastructure/config"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		pref  Preference
		value Value
		want  string
	}{
		{"text", LocationPreference, StringValue("Paris"), "Paris"},
		{"choice metric", UnitsPreference, ChoiceValue(UnitsMetric), "Metric"},
		{"choice imperial", UnitsPreference, ChoiceValue(UnitsImperial), "Imperial"},
		{"unknown choice", UnitsPreference, ChoiceValue("kelvin"), ""},
		{"nil value", LocationPreference, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.pref, tt.value); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	v, err := Parse(UnitsPreference, UnitsImperial)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := v.(ChoiceValue); !ok {
		t.Errorf("Parse(units) = %T, want ChoiceValue", v)
	}

	v, err = Parse(LocationPreference, "  10001 ")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if v != StringValue("10001") {
		t.Errorf("Parse(location) = %#v", v)
	}

	if _, err := Parse(UnitsPreference, "kelvin"); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("Parse(kelvin) error = %v, want ErrInvalidChoice", err)
	}
	if _, err := Parse(LocationPreference, " "); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("Parse(blank) error = %v, want ErrEmptyValue", err)
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup(KeyUnits)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !p.IsChoice() || p.Default != UnitsMetric {
		t.Errorf("Lookup(units) = %+v", p)
	}
	if _, err := Lookup("theme"); !errors.Is(err, ErrUnknownPreference) {
		t.Errorf("Lookup(theme) error = %v, want ErrUnknownPreference", err)
	}
}

func TestFromConfig(t *testing.T) {
	r, err := FromConfig(config.PreferencesConfig{Location: "Seattle", Units: UnitsImperial})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if r.Location != "Seattle" || r.Units != UnitsImperial {
		t.Errorf("FromConfig() = %+v", r)
	}
	summaries := r.Summaries()
	if summaries[KeyUnits] != "Imperial" || summaries[KeyLocation] != "Seattle" {
		t.Errorf("Summaries() = %v", summaries)
	}

	r, err = FromConfig(config.PreferencesConfig{})
	if err != nil {
		t.Fatalf("FromConfig(empty) error = %v", err)
	}
	if r.Location != StringValue(LocationPreference.Default) || r.Units != UnitsMetric {
		t.Errorf("FromConfig(empty) = %+v, want defaults", r)
	}

	if _, err := FromConfig(config.PreferencesConfig{Units: "kelvin"}); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("FromConfig(kelvin) error = %v, want ErrInvalidChoice", err)
	}
}

package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceulain/sunshine-core/internal/contract"
)

func TestJoinClause(t *testing.T) {
	assert.Equal(t,
		"weather INNER JOIN location ON weather.location_id = location._id",
		NewQueryBuilder().Join())
}

func TestBuildFilter(t *testing.T) {
	b := NewQueryBuilder()

	tests := []struct {
		name      string
		route     Route
		uri       contract.URI
		where     string
		args      []any
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "location setting",
			route:     RouteWeatherWithLocation,
			uri:       contract.BuildWeatherLocation("seattle"),
			wantWhere: "location.location_setting = ?",
			wantArgs:  []any{"seattle"},
		},
		{
			name:      "location setting with start date",
			route:     RouteWeatherWithLocation,
			uri:       contract.BuildWeatherLocationWithStartDate("seattle", 16436),
			wantWhere: "location.location_setting = ? AND weather.date >= ?",
			wantArgs:  []any{"seattle", int64(16436)},
		},
		{
			name:      "caller predicate ignored on joined route",
			route:     RouteWeatherWithLocation,
			uri:       contract.BuildWeatherLocation("seattle"),
			where:     "1 = 0",
			wantWhere: "location.location_setting = ?",
			wantArgs:  []any{"seattle"},
		},
		{
			name:      "exact day",
			route:     RouteWeatherWithLocationAndDate,
			uri:       contract.BuildWeatherLocationWithDate("seattle", 16440),
			wantWhere: "location.location_setting = ? AND weather.date = ?",
			wantArgs:  []any{"seattle", int64(16440)},
		},
		{
			name:      "weather pass-through",
			route:     RouteWeather,
			uri:       contract.WeatherEntry.ContentURI(),
			where:     "date < ?",
			args:      []any{int64(16436)},
			wantWhere: "date < ?",
			wantArgs:  []any{int64(16436)},
		},
		{
			name:      "location pass-through empty",
			route:     RouteLocation,
			uri:       contract.LocationEntry.ContentURI(),
			wantWhere: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.BuildFilter(tt.route, tt.uri, tt.where, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWhere, got.Where)
			assert.Equal(t, tt.wantArgs, got.Args)
		})
	}
}

func TestBuildFilterNeverInterpolates(t *testing.T) {
	hostile := "x' OR '1'='1"
	got, err := NewQueryBuilder().BuildFilter(RouteWeatherWithLocation, contract.BuildWeatherLocation(hostile), "", nil)
	require.NoError(t, err)
	assert.NotContains(t, got.Where, hostile)
	assert.Equal(t, []any{hostile}, got.Args)
}

func TestBuildFilterRejects(t *testing.T) {
	b := NewQueryBuilder()

	badDate := contract.BuildWeatherLocation("seattle").WithQueryParameter(contract.QueryDate, "soon")
	_, err := b.BuildFilter(RouteWeatherWithLocation, badDate, "", nil)
	assert.ErrorIs(t, err, ErrUnsupportedRoute)
	assert.ErrorIs(t, err, contract.ErrInvalidURI)

	_, err = b.BuildFilter(RouteNoMatch, contract.BaseURI, "", nil)
	assert.ErrorIs(t, err, ErrUnsupportedRoute)
}

func TestBuildQuery(t *testing.T) {
	b := NewQueryBuilder()

	q, err := b.Build(RouteWeatherWithLocation,
		contract.BuildWeatherLocationWithStartDate("seattle", 16436),
		[]string{"_id", "date", "city_name", "location.coord_lat"}, "", nil, "date ASC")
	require.NoError(t, err)

	assert.Equal(t, b.Join(), q.From)
	assert.Equal(t, []string{"weather._id", "weather.date", "location.city_name", "location.coord_lat"}, q.Columns)
	assert.Equal(t, "weather.date ASC", q.OrderBy)
	assert.Equal(t,
		"SELECT weather._id, weather.date, location.city_name, location.coord_lat "+
			"FROM weather INNER JOIN location ON weather.location_id = location._id "+
			"WHERE location.location_setting = ? AND weather.date >= ? ORDER BY weather.date ASC",
		q.SQL())
}

func TestBuildQueryDefaultProjection(t *testing.T) {
	b := NewQueryBuilder()

	joined, err := b.Build(RouteWeatherWithLocationAndDate, contract.BuildWeatherLocationWithDate("seattle", 1), nil, "", nil, "")
	require.NoError(t, err)
	assert.Contains(t, joined.Columns, "weather._id")
	assert.Contains(t, joined.Columns, "location.city_name")
	assert.NotContains(t, joined.Columns, "location._id")
	assert.Len(t, joined.Columns, len(contract.WeatherEntry.Columns)+len(contract.LocationEntry.Columns)-1)

	single, err := b.Build(RouteLocation, contract.LocationEntry.ContentURI(), nil, "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "location", single.From)
	assert.Nil(t, single.Columns)
}

func TestBuildQueryRejectsColumns(t *testing.T) {
	b := NewQueryBuilder()
	weather := contract.WeatherEntry.ContentURI()

	tests := []struct {
		name    string
		route   Route
		columns []string
		sort    string
	}{
		{"unknown column", RouteWeather, []string{"temperature"}, ""},
		{"other table column", RouteWeather, []string{"city_name"}, ""},
		{"wrong qualifier", RouteWeather, []string{"location._id"}, ""},
		{"expression", RouteWeather, []string{"max - min"}, ""},
		{"injection in sort", RouteWeather, nil, "date; DROP TABLE weather"},
		{"bad direction", RouteWeather, nil, "date SIDEWAYS"},
		{"empty sort term", RouteWeather, nil, "date,,max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.route, weather, tt.columns, "", nil, tt.sort)
			if !errors.Is(err, ErrInvalidColumn) {
				t.Errorf("Build() error = %v, want ErrInvalidColumn", err)
			}
		})
	}
}

func TestBuildQuerySortOrder(t *testing.T) {
	q, err := NewQueryBuilder().Build(RouteWeather, contract.WeatherEntry.ContentURI(), nil, "", nil, "date desc, weather_id")
	require.NoError(t, err)
	assert.Equal(t, "date DESC, weather_id", q.OrderBy)
}

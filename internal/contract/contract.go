package contract

import (
	"fmt"
	"strconv"
)

// Identifier roots.
const (
	// Scheme is the scheme of every resource identifier.
	Scheme = "content"

	// Authority names the provider that owns the identifiers.
	Authority = "com.example.android.sunshine.app"

	// PathWeather is the first path segment of weather identifiers.
	PathWeather = "weather"

	// PathLocation is the first path segment of location identifiers.
	PathLocation = "location"

	// QueryDate is the query parameter holding the inclusive start date.
	QueryDate = "date"
)

// Content type prefixes for collection and single-item results.
const (
	contentTypeDir  = "vnd.sunshine.cursor.dir"
	contentTypeItem = "vnd.sunshine.cursor.item"
)

// ColumnID is the storage-assigned row id shared by both tables.
const ColumnID = "_id"

// Location table columns.
const (
	ColumnLocationSetting = "location_setting"
	ColumnCityName        = "city_name"
	ColumnCoordLat        = "coord_lat"
	ColumnCoordLong       = "coord_long"
)

// Weather table columns.
const (
	ColumnLocationKey = "location_id"
	ColumnDate        = "date"
	ColumnWeatherID   = "weather_id"
	ColumnShortDesc   = "short_desc"
	ColumnMinTemp     = "min"
	ColumnMaxTemp     = "max"
	ColumnHumidity    = "humidity"
	ColumnPressure    = "pressure"
	ColumnWindSpeed   = "wind"
	ColumnDegrees     = "degree"
)

// BaseURI is the root identifier of the provider.
var BaseURI = NewURI(Scheme, Authority)

// Entry describes one resource kind: where it lives in the identifier tree
// and which table and columns back it.
type Entry struct {
	Path    string
	Table   string
	Columns []string
}

// LocationEntry describes the location resource.
var LocationEntry = Entry{
	Path:  PathLocation,
	Table: "location",
	Columns: []string{
		ColumnID,
		ColumnLocationSetting,
		ColumnCityName,
		ColumnCoordLat,
		ColumnCoordLong,
	},
}

// WeatherEntry describes the weather resource.
var WeatherEntry = Entry{
	Path:  PathWeather,
	Table: "weather",
	Columns: []string{
		ColumnID,
		ColumnLocationKey,
		ColumnDate,
		ColumnWeatherID,
		ColumnShortDesc,
		ColumnMinTemp,
		ColumnMaxTemp,
		ColumnHumidity,
		ColumnPressure,
		ColumnWindSpeed,
		ColumnDegrees,
	},
}

// Entries lists every resource kind.
func Entries() []Entry {
	return []Entry{LocationEntry, WeatherEntry}
}

// ContentURI returns the collection identifier, e.g. content://.../weather.
func (e Entry) ContentURI() URI {
	return BaseURI.AppendPath(e.Path)
}

// ContentType returns the MIME type of a collection of this resource.
func (e Entry) ContentType() string {
	return fmt.Sprintf("%s/%s/%s", contentTypeDir, Authority, e.Path)
}

// ContentItemType returns the MIME type of a single item of this resource.
func (e Entry) ContentItemType() string {
	return fmt.Sprintf("%s/%s/%s", contentTypeItem, Authority, e.Path)
}

// BuildURI returns the item identifier for row id.
func (e Entry) BuildURI(id int64) URI {
	return WithAppendedID(e.ContentURI(), id)
}

// HasColumn reports whether name is one of the entry's columns.
func (e Entry) HasColumn(name string) bool {
	for _, c := range e.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// BuildWeatherLocation returns the identifier of all weather for a location setting.
func BuildWeatherLocation(locationSetting string) URI {
	return WeatherEntry.ContentURI().AppendPath(locationSetting)
}

// BuildWeatherLocationWithStartDate returns the identifier of weather for a
// location setting on or after startDate.
func BuildWeatherLocationWithStartDate(locationSetting string, startDate int64) URI {
	return BuildWeatherLocation(locationSetting).
		WithQueryParameter(QueryDate, strconv.FormatInt(startDate, 10))
}

// BuildWeatherLocationWithDate returns the identifier of the weather for a
// location setting on exactly one day.
func BuildWeatherLocationWithDate(locationSetting string, date int64) URI {
	return BuildWeatherLocation(locationSetting).AppendPath(strconv.FormatInt(date, 10))
}

// LocationSettingFromURI returns path segment 1 of a weather identifier.
func LocationSettingFromURI(u URI) string {
	return u.Segment(1)
}

// DateFromURI returns path segment 2 of a weather identifier as a day value.
// It panics when the segment is missing or not numeric.
func DateFromURI(u URI) int64 {
	date, err := strconv.ParseInt(u.Segment(2), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("contract: %s: date segment is not numeric", u))
	}
	return date
}

// StartDateFromURI returns the optional start-date query parameter.
// ok is false when the parameter is absent; err is set when it is present
// but not a number.
func StartDateFromURI(u URI) (date int64, ok bool, err error) {
	raw, ok := u.QueryParameter(QueryDate)
	if !ok {
		return 0, false, nil
	}
	date, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: start date %q: %w", ErrInvalidURI, raw, err)
	}
	return date, true, nil
}

package contract

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Values is one row expressed as column name → value.
// It is the only row vocabulary accepted by insert and update.
type Values map[string]any

// Columns returns the column names in sorted order.
func (v Values) Columns() []string {
	cols := make([]string, 0, len(v))
	for c := range v {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Location is a named place addressed by its location setting.
type Location struct {
	ID              int64   `column:"_id" json:"id"`
	LocationSetting string  `column:"location_setting" json:"location_setting"`
	CityName        string  `column:"city_name" json:"city_name"`
	Latitude        float64 `column:"coord_lat" json:"latitude"`
	Longitude       float64 `column:"coord_long" json:"longitude"`
}

// ToValues converts l into insertable column values. The id is omitted so
// the store can assign one.
func (l Location) ToValues() Values {
	return Values{
		ColumnLocationSetting: l.LocationSetting,
		ColumnCityName:        l.CityName,
		ColumnCoordLat:        l.Latitude,
		ColumnCoordLong:       l.Longitude,
	}
}

// WeatherRecord is one forecast day for one location.
type WeatherRecord struct {
	ID          int64   `column:"_id" json:"id"`
	LocationID  int64   `column:"location_id" json:"location_id"`
	Date        int64   `column:"date" json:"date"`
	WeatherID   int     `column:"weather_id" json:"weather_id"`
	ShortDesc   string  `column:"short_desc" json:"short_desc"`
	MinTemp     float64 `column:"min" json:"min"`
	MaxTemp     float64 `column:"max" json:"max"`
	Humidity    float64 `column:"humidity" json:"humidity"`
	Pressure    float64 `column:"pressure" json:"pressure"`
	WindSpeed   float64 `column:"wind" json:"wind"`
	WindDegrees float64 `column:"degree" json:"degree"`
}

// ToValues converts w into insertable column values. The id is omitted so
// the store can assign one.
func (w WeatherRecord) ToValues() Values {
	return Values{
		ColumnLocationKey: w.LocationID,
		ColumnDate:        w.Date,
		ColumnWeatherID:   w.WeatherID,
		ColumnShortDesc:   w.ShortDesc,
		ColumnMinTemp:     w.MinTemp,
		ColumnMaxTemp:     w.MaxTemp,
		ColumnHumidity:    w.Humidity,
		ColumnPressure:    w.Pressure,
		ColumnWindSpeed:   w.WindSpeed,
		ColumnDegrees:     w.WindDegrees,
	}
}

// DecodeValues decodes rows (a Values or []Values) into out, which must be a
// pointer to a struct or slice of structs tagged with `column:"..."`.
// Columns without a matching field are ignored.
func DecodeValues(rows any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "column",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("creating row decoder: %w", err)
	}
	if err := decoder.Decode(rows); err != nil {
		return fmt.Errorf("decoding rows: %w", err)
	}
	return nil
}

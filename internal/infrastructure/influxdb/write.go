package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/ceulain/sunshine-core/internal/contract"
)

// Measurement names.
const (
	// MeasurementForecast holds one point per forecast day per location,
	// timestamped at the forecast day.
	MeasurementForecast = "forecast"

	// MeasurementRefresh holds one point per completed refresh.
	MeasurementRefresh = "forecast_refresh"
)

// RecordForecast writes every forecast day of loc.
//
// Points are keyed by location setting and day, so recording the same
// forecast twice overwrites rather than duplicates.
func (c *Client) RecordForecast(loc contract.Location, records []contract.WeatherRecord) {
	if !c.IsConnected() {
		return
	}
	for _, p := range forecastPoints(loc, records) {
		c.writeAPI.WritePoint(p)
	}
}

// RecordRefresh writes the outcome of one refresh cycle.
func (c *Client) RecordRefresh(locationSetting string, inserted int, took time.Duration) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(refreshPoint(locationSetting, inserted, took, time.Now()))
}

func forecastPoints(loc contract.Location, records []contract.WeatherRecord) []*write.Point {
	points := make([]*write.Point, 0, len(records))
	for _, r := range records {
		points = append(points, write.NewPoint(
			MeasurementForecast,
			map[string]string{
				"location": loc.LocationSetting,
				"city":     loc.CityName,
			},
			map[string]any{
				"weather_id": r.WeatherID,
				"min":        r.MinTemp,
				"max":        r.MaxTemp,
				"humidity":   r.Humidity,
				"pressure":   r.Pressure,
				"wind":       r.WindSpeed,
				"degree":     r.WindDegrees,
			},
			contract.DayTime(r.Date),
		))
	}
	return points
}

func refreshPoint(locationSetting string, inserted int, took time.Duration, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementRefresh,
		map[string]string{"location": locationSetting},
		map[string]any{
			"inserted":    inserted,
			"duration_ms": took.Milliseconds(),
		},
		at,
	)
}

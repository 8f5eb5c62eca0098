package weather

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ceulain/sunshine-core/internal/contract"
)

// MaxTemperatureForDay returns the maximum temperature of day dayIndex
// (zero-based) in a daily forecast document.
func MaxTemperatureForDay(data []byte, dayIndex int) (float64, error) {
	var doc forecastResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if dayIndex < 0 || dayIndex >= len(doc.List) {
		return 0, fmt.Errorf("%w: day %d of %d", ErrParse, dayIndex, len(doc.List))
	}
	day := doc.List[dayIndex]
	if day.Temp == nil {
		return 0, fmt.Errorf("%w: day %d has no temperature", ErrParse, dayIndex)
	}
	return day.Temp.Max, nil
}

// ParseForecast decodes a daily forecast document.
//
// Each day's timestamp is normalized in the city's own UTC offset, so a
// forecast day keeps its calendar date whatever zone the server runs in.
func ParseForecast(data []byte) (*Forecast, error) {
	var doc forecastResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if doc.City.Name == "" {
		return nil, fmt.Errorf("%w: missing city", ErrParse)
	}

	zone := time.FixedZone(doc.City.Name, doc.City.Timezone)
	forecast := &Forecast{
		City:      doc.City.Name,
		Latitude:  doc.City.Coord.Lat,
		Longitude: doc.City.Coord.Lon,
		Days:      make([]Day, 0, len(doc.List)),
	}

	for i, d := range doc.List {
		if d.Temp == nil {
			return nil, fmt.Errorf("%w: day %d has no temperature", ErrParse, i)
		}
		if len(d.Weather) == 0 {
			return nil, fmt.Errorf("%w: day %d has no condition", ErrParse, i)
		}
		forecast.Days = append(forecast.Days, Day{
			Date:        contract.NormalizeDate(time.Unix(d.Dt, 0).In(zone)),
			WeatherID:   d.Weather[0].ID,
			Description: d.Weather[0].Main,
			Min:         d.Temp.Min,
			Max:         d.Temp.Max,
			Humidity:    d.Humidity,
			Pressure:    d.Pressure,
			WindSpeed:   d.Speed,
			WindDegrees: d.Deg,
		})
	}
	return forecast, nil
}

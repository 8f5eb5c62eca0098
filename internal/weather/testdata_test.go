package weather

import (
	"encoding/json"
	"time"
)

// jan05Noon is 2015-01-05 12:00 UTC, normalized day 16440.
var jan05Noon = time.Date(2015, 1, 5, 12, 0, 0, 0, time.UTC)

// forecastJSON builds a daily forecast document for city with days
// consecutive days starting at start.
func forecastJSON(city string, start time.Time, days int) []byte {
	list := make([]map[string]any, days)
	for i := range list {
		list[i] = map[string]any{
			"dt":       start.AddDate(0, 0, i).Unix(),
			"temp":     map[string]any{"min": 5.5 + float64(i), "max": 11.25 + float64(i)},
			"pressure": 1012.5,
			"humidity": 81,
			"speed":    3.1,
			"deg":      270,
			"weather":  []map[string]any{{"id": 500, "main": "Rain", "description": "light rain"}},
		}
	}
	doc := map[string]any{
		"cod": "200",
		"city": map[string]any{
			"name":     city,
			"coord":    map[string]any{"lat": 37.4, "lon": -122.1},
			"country":  "US",
			"timezone": 0,
		},
		"cnt":  days,
		"list": list,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

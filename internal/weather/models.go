package weather

import "github.com/ceulain/sunshine-core/internal/contract"

// forecastResponse is the daily forecast document returned by
// /data/2.5/forecast/daily.
type forecastResponse struct {
	City struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Country string `json:"country"`

		// Timezone is the city's offset from UTC in seconds.
		Timezone int `json:"timezone"`
	} `json:"city"`
	List []forecastDay `json:"list"`
}

type forecastDay struct {
	Dt   int64 `json:"dt"`
	Temp *struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Pressure float64 `json:"pressure"`
	Humidity float64 `json:"humidity"`
	Speed    float64 `json:"speed"`
	Deg      float64 `json:"deg"`
	Weather  []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// APIError is the error document OpenWeatherMap returns with non-200 codes.
type APIError struct {
	Cod     any    `json:"cod"` // a number or a string depending on the endpoint
	Message string `json:"message"`
}

// Forecast is a parsed daily forecast for one city.
type Forecast struct {
	City      string
	Latitude  float64
	Longitude float64
	Days      []Day
}

// Day is one forecast day. Date is a normalized day value.
type Day struct {
	Date        int64
	WeatherID   int
	Description string
	Min         float64
	Max         float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64
	WindDegrees float64
}

// Record converts d into a row for the location with id locationID.
func (d Day) Record(locationID int64) contract.WeatherRecord {
	return contract.WeatherRecord{
		LocationID:  locationID,
		Date:        d.Date,
		WeatherID:   d.WeatherID,
		ShortDesc:   d.Description,
		MinTemp:     d.Min,
		MaxTemp:     d.Max,
		Humidity:    d.Humidity,
		Pressure:    d.Pressure,
		WindSpeed:   d.WindSpeed,
		WindDegrees: d.WindDegrees,
	}
}

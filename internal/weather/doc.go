// Package weather fetches daily forecasts and stores them through the
// provider.
//
// Client talks to the OpenWeatherMap daily forecast endpoint and returns
// the raw JSON. ParseForecast turns that JSON into a Forecast whose days
// are already normalized to day values. Syncer ties the two to the
// provider: it makes sure the location exists, replaces that location's
// forecast rows in one bulk insert and optionally records telemetry.
//
//	client := weather.NewClient(cfg.Weather)
//	syncer := weather.NewSyncer(p, client, weather.SyncOptions{Days: 14, Units: "metric"})
//	result, err := syncer.Refresh(ctx, "94043")
package weather

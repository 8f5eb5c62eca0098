// Package influxdb records forecast telemetry in InfluxDB.
//
// Every refresh of a location writes one "forecast" point per forecast
// day, timestamped at that day, plus one "forecast_refresh" point with
// the number of rows inserted and how long the refresh took. Dashboards
// can then chart forecast history alongside refresh health.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // telemetry is optional
//	}
//	defer client.Close()
//
//	client.RecordForecast(location, records)
//	client.RecordRefresh(location.LocationSetting, len(records), took)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are batched according to
// batch_size and flush_interval and never block the caller; failures are
// reported through SetOnError.
package influxdb

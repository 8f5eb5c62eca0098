// Package mqtt connects the sunshine service to an MQTT broker.
//
// The broker is optional. When enabled, it carries two kinds of traffic:
//
//	sunshine/change/<path...>   change notifications, one per committed mutation
//	sunshine/command/refresh    requests for an immediate forecast refresh
//
// plus a retained sunshine/system/status message (online, offline, or the
// Last Will published by the broker after an unexpected disconnect).
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.Change("weather", "94043")
//	err = client.PublishDefault(topic, payload)
//
// Connections reconnect automatically with exponential backoff and restore
// their subscriptions. TLS is used when cfg.Broker.TLS is set.
package mqtt

package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the sunshine topic tree.
//
// Change notifications mirror the resource identifier path:
//
//	content://<authority>/weather/seattle  ->  sunshine/change/weather/seattle
const (
	// TopicPrefix is the base for every topic this service publishes.
	TopicPrefix = "sunshine"

	// TopicPrefixChange is the base for change notifications.
	TopicPrefixChange = "sunshine/change"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "sunshine/system"

	// TopicPrefixCommand is the base for commands sent to this service.
	TopicPrefixCommand = "sunshine/command"
)

// levelReplacer makes an identifier segment safe as a single topic level.
// MQTT wildcards and the level separator cannot appear inside a level.
var levelReplacer = strings.NewReplacer("/", "_", "+", "_", "#", "_")

// Topics provides builders for sunshine MQTT topics.
//
//	topic := mqtt.Topics{}.Change("weather", "seattle")
//	// Returns: "sunshine/change/weather/seattle"
type Topics struct{}

// Change returns the topic for a change under the given identifier path.
// An empty path yields the change root.
//
// Example: sunshine/change/weather/94043
func (Topics) Change(segments ...string) string {
	if len(segments) == 0 {
		return TopicPrefixChange
	}
	levels := make([]string, len(segments))
	for i, s := range segments {
		if s == "" {
			s = "_"
		}
		levels[i] = levelReplacer.Replace(s)
	}
	return TopicPrefixChange + "/" + strings.Join(levels, "/")
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: sunshine/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemRefresh returns the topic announcing a completed forecast refresh.
//
// Example: sunshine/system/refresh
func (Topics) SystemRefresh() string {
	return fmt.Sprintf("%s/refresh", TopicPrefixSystem)
}

// CommandRefresh returns the topic that requests an immediate forecast
// refresh. The payload, when non-empty, is the location setting to refresh.
//
// Example: sunshine/command/refresh
func (Topics) CommandRefresh() string {
	return fmt.Sprintf("%s/refresh", TopicPrefixCommand)
}

// AllChanges returns a pattern matching every change notification.
//
// Pattern: sunshine/change/#
func (Topics) AllChanges() string {
	return TopicPrefixChange + "/#"
}

// AllTopics returns a pattern matching all sunshine topics.
//
// Pattern: sunshine/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}

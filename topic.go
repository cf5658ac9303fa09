package mqtt

import "strings"

// TopicMatch reports whether topic (a concrete PUBLISH topic, never
// containing wildcards) matches filter (a SUBSCRIBE topic filter, which
// may contain the single-level wildcard + and the multi-level wildcard #
// per MQTT 3.1.1 section 4.7). It is not used by the engine itself —
// ProcessLoop delivers every PUBLISH to ApplicationCallbacks.OnEvent
// regardless of which filter it matched — but is provided for callers
// that subscribe to wildcard filters and need to route incoming publishes
// to per-filter handlers themselves.
func TopicMatch(filter, topic string) bool {
	if filter == "" || topic == "" {
		return false
	}
	if strings.HasPrefix(topic, "$") && !strings.HasPrefix(filter, "$") {
		return false
	}

	filterLevels := strings.Split(filter, "/")
	topicLevels := strings.Split(topic, "/")

	for i, fl := range filterLevels {
		if fl == "#" {
			return i == len(filterLevels)-1
		}
		if i >= len(topicLevels) {
			return false
		}
		if fl != "+" && fl != topicLevels[i] {
			return false
		}
	}
	return len(filterLevels) == len(topicLevels)
}

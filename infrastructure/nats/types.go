package nats

import "time"

const (
	// DefaultStreamName keeps every domain event for EventMaxAge.
	DefaultStreamName = "LMS_EVENTS"

	// SubjectEvents prefixes every event subject: lms.events.class.enrolled, ...
	SubjectEvents = "lms.events"

	EventMaxAge = 7 * 24 * time.Hour
)

// Subject is the subject an event of eventType is published on.
func Subject(eventType string) string {
	return SubjectEvents + "." + eventType
}

// StreamStatus is reported by the health endpoint.
type StreamStatus struct {
	Name     string `json:"name"`
	Messages uint64 `json:"messages"`
	Bytes    uint64 `json:"bytes"`
	FirstSeq uint64 `json:"firstSeq"`
	LastSeq  uint64 `json:"lastSeq"`
}

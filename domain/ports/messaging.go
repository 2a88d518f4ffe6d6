package ports

import (
	"context"
	"time"
)

// Domain event types. The NATS subject is "lms.events." + type.
const (
	EventClassCreated    = "class.created"
	EventClassUpdated    = "class.updated"
	EventClassCancelled  = "class.cancelled"
	EventClassCompleted  = "class.completed"
	EventClassEnrolled   = "class.enrolled"
	EventClassWaitlisted = "class.waitlisted"
	EventClassUnenrolled = "class.unenrolled"
	EventClassPromoted   = "class.promoted"

	EventCoursePublished = "course.published"
	EventReviewCreated   = "review.created"

	EventSalaryCreated = "salary.created"
	EventSalaryPaid    = "salary.paid"
)

// DomainEvent is something that happened to an entity. Room, when set,
// names the websocket room that should hear about it (e.g. "class:<id>").
type DomainEvent struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entityId"`
	ActorID    string    `json:"actorId,omitempty"`
	Room       string    `json:"room,omitempty"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher delivers domain events. Publishing is best effort: a
// failure is logged by the caller and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// ClassRoom is the websocket room of a schedule class.
func ClassRoom(classID string) string {
	return "class:" + classID
}

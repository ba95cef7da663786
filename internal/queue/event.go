// Package queue defines the domain events exchanged over the message broker
// and the background consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// QueueName is the durable queue every portal event is routed to.
const QueueName = "portal.events"

// EventType names a domain event.
type EventType string

const (
	UserRegistered    EventType = "user.registered"
	InternshipPosted  EventType = "internship.posted"
	InternshipApplied EventType = "internship.applied"
	KYCApplied        EventType = "kyc.applied"
	KYCReviewed       EventType = "kyc.reviewed"
)

// Event is the JSON payload published for every domain event.  It carries
// enough information for downstream consumers to log, notify or trigger
// analytics without querying the primary database.
//
// SubjectID is the id of the internship or company the event is about;
// Attrs carries small event-specific values such as the user type or the
// KYC decision.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	OccurredAt time.Time         `json:"occurredAt"`
	UserID     uint64            `json:"userId,omitempty"`
	SubjectID  uint64            `json:"subjectId,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
}

// NewEvent stamps a new event with an id and the current time.
func NewEvent(t EventType, userID, subjectID uint64, attrs map[string]string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		UserID:     userID,
		SubjectID:  subjectID,
		Attrs:      attrs,
	}
}

package events

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

const (
	EventCommentCreated     EventType = "comment.created"
	EventCommentUpdated     EventType = "comment.updated"
	EventCommentDeleted     EventType = "comment.deleted"
	EventCommentSoftDeleted EventType = "comment.soft_deleted"

	EventInvitationCreated  EventType = "invitation.created"
	EventInvitationAccepted EventType = "invitation.accepted"
	EventInvitationDeclined EventType = "invitation.declined"
	EventInvitationExpired  EventType = "invitation.expired"
	EventInvitationRevoked  EventType = "invitation.revoked"
)

// Event describes a committed change to a domain object.
type Event struct {
	Type        EventType `json:"type"`
	ProjectID   int       `json:"project_id,omitempty"`
	UserID      int       `json:"user_id,omitempty"`
	ObjectType  string    `json:"object_type"`
	ObjectID    int       `json:"object_id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

// Publisher delivers events to interested parties. Delivery is best effort:
// implementations log failures instead of returning them so that a broken
// sink never fails an already committed operation.
type Publisher interface {
	Publish(event Event)
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *log.Entry
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogPublisher{logger: logger.WithField("context", "events")}
}

func (p *LogPublisher) Publish(event Event) {
	p.logger.WithFields(log.Fields{
		"type":        event.Type,
		"project_id":  event.ProjectID,
		"user_id":     event.UserID,
		"object_type": event.ObjectType,
		"object_id":   event.ObjectID,
	}).Info(event.Description)
}

// MultiPublisher fans an event out to every publisher in order.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(event Event) {
	for _, p := range m {
		p.Publish(event)
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

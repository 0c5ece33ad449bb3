// Package events carries change notifications for groups and their
// contacts. Publishing is best-effort; nothing in the request path depends on
// delivery.
package events

import (
	"context"
	"encoding/json"
	"time"
)

type Type string

const (
	ContactCreated   Type = "contact.created"
	ContactUpdated   Type = "contact.updated"
	ContactDeleted   Type = "contact.deleted"
	ContactsImported Type = "contacts.imported"
	GroupCreated     Type = "group.created"
	GroupDeleted     Type = "group.deleted"
)

// Event is a single change to a group, made by ActorID.
type Event struct {
	Type    Type            `json:"type"`
	GroupID string          `json:"group_id"`
	ActorID string          `json:"actor_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// New builds an event stamped with the current time. payload is marshalled
// to JSON; a payload that cannot be encoded is dropped.
func New(t Type, groupID, actorID string, payload any) Event {
	e := Event{Type: t, GroupID: groupID, ActorID: actorID, At: time.Now().UTC()}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			e.Payload = raw
		}
	}
	return e
}

// Bus fans events out to the subscribers of a group.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe returns a channel of the group's events and a function that
	// ends the subscription. The channel is closed when the subscription
	// ends or ctx is done.
	Subscribe(ctx context.Context, groupID string) (<-chan Event, func(), error)
	Close() error
}

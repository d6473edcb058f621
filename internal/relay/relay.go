// Package relay fans state-change events out to connected collaborators.
// The core contract: an event is published at most once per successful
// mutation, after the write has committed, never before. Delivery beyond
// that point is best-effort; slow consumers are dropped, not buffered
// indefinitely.
package relay

import "context"

// Event types emitted by the services and by the hub itself.
const (
	EventResourceCreated = "resource_created"
	EventResourceUpdated = "resource_updated"
	EventResourceDeleted = "resource_deleted"
	EventCommentAdded    = "comment_added"
	EventTyping          = "typing"
	EventPresenceJoined  = "presence_joined"
	EventPresenceLeft    = "presence_left"
)

// Event is a room-scoped broadcast. Rooms are logical names ("company",
// "project:42"); the hub namespaces them by tenant so no room name can cross
// company boundaries.
type Event struct {
	Type      string   `json:"type"`
	CompanyID uint64   `json:"-"`
	Rooms     []string `json:"-"`
	Payload   any      `json:"payload,omitempty"`
}

// Relay is what the services depend on.
type Relay interface {
	Publish(ctx context.Context, event Event)
}

// Noop discards all events; used in tests and when the realtime layer is
// disabled.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}

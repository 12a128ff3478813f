package eventbus

import "time"

// Event types published by the dispatch service.
const (
	TypeNotificationQueued = "notification.queued"
	TypeDispatchStarted    = "dispatch.started"
	TypeDispatchFinished   = "dispatch.finished"
)

// Event is a dispatch lifecycle event.
type Event struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload"`
}

// Listener handles an event.
type Listener func(Event)

package service

// EventPublisher is the interface for publishing dispatch lifecycle events.
// Services use this interface to emit events without depending on a concrete
// event bus implementation.
type EventPublisher interface {
	Publish(eventType string, payload map[string]string)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, map[string]string) {}

// Package notification turns project update contents into emails, delivers
// them through a Provider and informs an administrator when deliveries fail.
package notification

import "context"

// Message is the content to be delivered by a Provider.
type Message struct {
	Subject string
	Body    string
	// HTML is an optional rich alternative to Body.
	HTML string
	To   []string
}

// Provider is the interface for notification delivery backends.
type Provider interface {
	// Name returns the provider identifier (e.g. "smtp").
	Name() string
	// Send delivers the message using the provider's transport.
	Send(ctx context.Context, msg Message) error
}

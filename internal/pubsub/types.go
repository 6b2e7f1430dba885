package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// noopClient encodes messages but never sends them. It is used when no
// Google Cloud project is configured.
type noopClient struct{}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchFinalized EventType = "match-finalized"
)

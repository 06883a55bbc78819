package suggestions

import (
	"context"
	"time"
)

// EventType names a suggestion lifecycle event.
type EventType string

const (
	EventSubmitted EventType = "submitted"
	EventApproved  EventType = "approved"
	EventRejected  EventType = "rejected"
)

// Event describes a lifecycle change of a suggestion.
type Event struct {
	Type       EventType
	Suggestion Suggestion
	ActorID    string
	Time       time.Time
}

// Values flattens the event into stream fields.
func (e Event) Values() map[string]interface{} {
	return map[string]interface{}{
		"id":     e.Suggestion.ID,
		"event":  string(e.Type),
		"author": e.Suggestion.AuthorID,
		"actor":  e.ActorID,
		"status": string(e.Suggestion.Status),
		"time":   e.Time.Unix(),
	}
}

// Publisher delivers lifecycle events. Failures are logged by the workflow.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

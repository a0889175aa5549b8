package core

import "fmt"

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventSelect EventType = "SELECT"
)

// Event represents a change in the store.
// ID is empty for a SELECT event that cleared the selection.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

package pipeline

import "time"

// EventType represents the lifecycle phases of a pipeline run
type EventType string

const (
	EventLoadStart   EventType = "load_start"
	EventLoadEnd     EventType = "load_end"
	EventMergeStart  EventType = "merge_start"
	EventMergeEnd    EventType = "merge_end"
	EventFilterStart EventType = "filter_start"
	EventFilterEnd   EventType = "filter_end"
	EventSortStart   EventType = "sort_start"
	EventSortEnd     EventType = "sort_end"
)

// Event represents a lifecycle event in a pipeline run
type Event struct {
	Type      EventType   // Type of event
	RunID     string      // Pipeline run ID for tracing
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Stage-specific data (e.g., path, row counts)
}

// Observer interface for event subscribers
// Observers receive events at major pipeline stages
type Observer interface {
	OnEvent(event Event)
}

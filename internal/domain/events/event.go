package events

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard event types
const (
	EventTypeUserActivity     = "user_activity"
	EventTypeEventUpdate      = "event_update"
	EventTypeContactUpdate    = "contact_update"
	EventTypeActionItemUpdate = "action_item_update"
	EventTypeNoteUpdate       = "note_update"
	EventTypeProfileUpdate    = "profile_update"
)

// DashboardEvent represents a dashboard-related event
type DashboardEvent struct {
	EventType string      `json:"event_type"`
	UserID    uuid.UUID   `json:"user_id"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// DashboardEventTypes defines standard event types for dashboard events
const (
	DashboardEventMetricsUpdate   = "metrics_update"
	DashboardEventCacheInvalidate = "cache_invalidate"
)

// DashboardMetrics represents the complete dashboard snapshot for a user
type DashboardMetrics struct {
	User        interface{} `json:"user"`
	Events      interface{} `json:"events"`
	Contacts    interface{} `json:"contacts"`
	ActionItems interface{} `json:"action_items"`
	Timestamp   time.Time   `json:"timestamp"`
}

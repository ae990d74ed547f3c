package dto

// CompletionRequest is the strict payload for the completion toggle. The
// pointer distinguishes a missing field from an explicit false.
type CompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// DeleteEventRequest optionally names contacts to remove with the event.
type DeleteEventRequest struct {
	ContactIDs []string `json:"contact_ids"`
}

// ListMeta reports pagination totals on list responses.
type ListMeta struct {
	Total int64 `json:"total"`
}

// DeleteMeta reports the side effects of a composite deletion. Warnings is
// only present when a best-effort step partially failed.
type DeleteMeta struct {
	ContactsDeleted   int64    `json:"contacts_deleted,omitempty"`
	ActionItemsPruned int64    `json:"action_items_pruned,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

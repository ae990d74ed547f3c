package dashboard

import (
	"context"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EnrichedContact is a contact joined with its event's title for display.
type EnrichedContact struct {
	contact.Contact
	EventTitle string `json:"event_title,omitempty"`
}

// EnrichedActionItem is an action item joined with contact and event display
// fields. Dangling references resolve to empty strings, never errors.
type EnrichedActionItem struct {
	actionitem.ActionItem
	ContactName     string `json:"contact_name,omitempty"`
	EventTitle      string `json:"event_title,omitempty"`
	EventColorIndex string `json:"event_color_index,omitempty"`
}

// Summary holds the headline counts for the overview.
type Summary struct {
	Events          int64 `json:"events"`
	Contacts        int64 `json:"contacts"`
	ActionItems     int64 `json:"action_items"`
	OpenActionItems int64 `json:"open_action_items"`
}

// Overview is the joined dashboard view-model.
type Overview struct {
	Events      []event.Event        `json:"events"`
	Contacts    []EnrichedContact    `json:"contacts"`
	ActionItems []EnrichedActionItem `json:"action_items"`
	Summary     Summary              `json:"summary"`
	GeneratedAt time.Time            `json:"generated_at"`
}

type Service interface {
	GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error)
	InvalidateOverview(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	events      event.EventRepository
	contacts    contact.ContactRepository
	actionItems actionitem.ActionItemRepository
	redis       *cache.RedisClient
	log         *logrus.Logger
}

func NewService(events event.EventRepository, contacts contact.ContactRepository, actionItems actionitem.ActionItemRepository, redis *cache.RedisClient) Service {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	return &service{
		events:      events,
		contacts:    contacts,
		actionItems: actionItems,
		redis:       redis,
		log:         log,
	}
}

// GetOverview assembles the joined view-model for a user. Response-level
// caching lives at the handler; invalidation is driven by entity-write
// dashboard events.
func (s *service) GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	started := time.Now()

	eventRows, eventTotal, err := s.events.FindAll(ctx, event.EventFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	contactRows, contactTotal, err := s.contacts.FindAll(ctx, contact.ContactFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	itemRows, itemTotal, err := s.actionItems.FindAll(ctx, actionitem.ActionItemFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}

	eventsByID := make(map[uuid.UUID]*event.Event, len(eventRows))
	for i := range eventRows {
		eventsByID[eventRows[i].ID] = &eventRows[i]
	}
	contactsByID := make(map[uuid.UUID]*contact.Contact, len(contactRows))
	for i := range contactRows {
		contactsByID[contactRows[i].ID] = &contactRows[i]
	}

	enrichedContacts := make([]EnrichedContact, 0, len(contactRows))
	for _, c := range contactRows {
		ec := EnrichedContact{Contact: c}
		if c.EventID != nil {
			if ev, ok := eventsByID[*c.EventID]; ok {
				ec.EventTitle = ev.Title
			}
		}
		enrichedContacts = append(enrichedContacts, ec)
	}

	var open int64
	enrichedItems := make([]EnrichedActionItem, 0, len(itemRows))
	for _, item := range itemRows {
		ei := EnrichedActionItem{ActionItem: item}
		if item.ContactID != nil {
			if c, ok := contactsByID[*item.ContactID]; ok {
				ei.ContactName = c.Name
			}
		}
		if item.EventID != nil {
			if ev, ok := eventsByID[*item.EventID]; ok {
				ei.EventTitle = ev.Title
				ei.EventColorIndex = ev.ColorIndex
			}
		}
		if !item.IsCompleted {
			open++
		}
		enrichedItems = append(enrichedItems, ei)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":      userID.String(),
		"events":       eventTotal,
		"contacts":     contactTotal,
		"action_items": itemTotal,
		"elapsed_ms":   time.Since(started).Milliseconds(),
	}).Debug("dashboard overview built")

	return &Overview{
		Events:      eventRows,
		Contacts:    enrichedContacts,
		ActionItems: enrichedItems,
		Summary: Summary{
			Events:          eventTotal,
			Contacts:        contactTotal,
			ActionItems:     itemTotal,
			OpenActionItems: open,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// InvalidateOverview drops the cached overview for a user.
func (s *service) InvalidateOverview(ctx context.Context, userID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.InvalidateDashboardCache(ctx, userID)
}

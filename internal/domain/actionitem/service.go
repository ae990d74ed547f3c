package actionitem

import (
	"context"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/Daesol/touchgrass-sub000/internal/domain/events"
	"github.com/Daesol/touchgrass-sub000/internal/domain/ownership"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateActionItem(ctx context.Context, input CreateActionItemInput) (*ActionItem, error)
	GetActionItem(ctx context.Context, id, userID uuid.UUID) (*ActionItem, error)
	ListActionItems(ctx context.Context, filter ActionItemFilter) ([]ActionItem, int64, error)
	UpdateActionItem(ctx context.Context, id, userID uuid.UUID, input UpdateActionItemInput) (*ActionItem, error)
	SetCompletion(ctx context.Context, id, userID uuid.UUID, completed bool) (*ActionItem, error)
	DeleteActionItem(ctx context.Context, id, userID uuid.UUID) error
	PruneByReferences(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID, contactIDs []uuid.UUID) (int64, error)
}

type CreateActionItemInput struct {
	ContactID *uuid.UUID `json:"contact_id"`
	EventID   *uuid.UUID `json:"event_id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"due_date"`
	UserID    uuid.UUID  `json:"-"`
}

type UpdateActionItemInput struct {
	ContactID *uuid.UUID `json:"contact_id,omitempty"`
	EventID   *uuid.UUID `json:"event_id,omitempty"`
	Title     *string    `json:"title,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (i UpdateActionItemInput) IsEmpty() bool {
	return i.ContactID == nil && i.EventID == nil && i.Title == nil && i.DueDate == nil
}

type service struct {
	repo         ActionItemRepository
	contactOwner ownership.Resolver
	eventOwner   ownership.Resolver
	redis        *cache.RedisClient
	logger       *zap.Logger
}

func NewService(repo ActionItemRepository, contactOwner, eventOwner ownership.Resolver, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{
		repo:         repo,
		contactOwner: contactOwner,
		eventOwner:   eventOwner,
		redis:        redis,
		logger:       logger,
	}
}

func (s *service) CreateActionItem(ctx context.Context, input CreateActionItemInput) (*ActionItem, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}

	if err := s.assertReferences(ctx, input.UserID, input.ContactID, input.EventID); err != nil {
		return nil, err
	}

	item := &ActionItem{
		ID:        uuid.New(),
		UserID:    input.UserID,
		ContactID: input.ContactID,
		EventID:   input.EventID,
		Title:     input.Title,
		DueDate:   input.DueDate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.recordActionItemActivity(ctx, item.ID, input.UserID, "action_item_created")
	return item, nil
}

func (s *service) GetActionItem(ctx context.Context, id, userID uuid.UUID) (*ActionItem, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *service) ListActionItems(ctx context.Context, filter ActionItemFilter) ([]ActionItem, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateActionItem(ctx context.Context, id, userID uuid.UUID, input UpdateActionItemInput) (*ActionItem, error) {
	item, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.assertReferences(ctx, userID, input.ContactID, input.EventID); err != nil {
		return nil, err
	}

	if input.ContactID != nil {
		item.ContactID = input.ContactID
	}
	if input.EventID != nil {
		item.EventID = input.EventID
	}
	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.DueDate != nil {
		item.DueDate = input.DueDate
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.recordActionItemActivity(ctx, item.ID, userID, "action_item_updated")
	return item, nil
}

// SetCompletion flips the completion state of an action item.
func (s *service) SetCompletion(ctx context.Context, id, userID uuid.UUID, completed bool) (*ActionItem, error) {
	item, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	item.IsCompleted = completed
	if completed {
		if item.CompletedAt == nil {
			now := time.Now()
			item.CompletedAt = &now
		}
	} else {
		item.CompletedAt = nil
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	action := "action_item_completed"
	if !completed {
		action = "action_item_uncompleted"
	}
	s.recordActionItemActivity(ctx, item.ID, userID, action)
	return item, nil
}

func (s *service) DeleteActionItem(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.recordActionItemActivity(ctx, id, userID, "action_item_deleted")
	return nil
}

func (s *service) PruneByReferences(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	pruned, err := s.repo.PruneByReferences(ctx, userID, eventID, contactIDs)
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		s.recordActionItemActivity(ctx, uuid.Nil, userID, "action_items_pruned")
	}
	return pruned, nil
}

func (s *service) assertReferences(ctx context.Context, userID uuid.UUID, contactID, eventID *uuid.UUID) error {
	if contactID != nil {
		if err := ownership.AssertOwned(ctx, s.contactOwner, *contactID, userID, contact.ErrContactNotFound); err != nil {
			return err
		}
	}
	if eventID != nil {
		if err := ownership.AssertOwned(ctx, s.eventOwner, *eventID, userID, event.ErrEventNotFound); err != nil {
			return err
		}
	}
	return nil
}

// Helper to publish a dashboard cache invalidation for action item writes
func (s *service) recordActionItemActivity(ctx context.Context, itemID, userID uuid.UUID, action string) {
	if s.redis == nil {
		return
	}
	evt := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  itemID,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"action":         action,
			"action_item_id": itemID,
		},
	}
	if err := s.redis.PublishDashboardEvent(ctx, evt); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}

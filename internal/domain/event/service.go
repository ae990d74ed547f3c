package event

import (
	"context"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/events"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error)
	GetEvent(ctx context.Context, id, userID uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, int64, error)
	UpdateEvent(ctx context.Context, id, userID uuid.UUID, input UpdateEventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id, userID uuid.UUID) error
}

type CreateEventInput struct {
	Title      string     `json:"title"`
	Location   string     `json:"location"`
	Company    string     `json:"company"`
	Date       *time.Time `json:"date"`
	ColorIndex string     `json:"color_index"`
	UserID     uuid.UUID  `json:"-"`
}

type UpdateEventInput struct {
	Title      *string    `json:"title,omitempty"`
	Location   *string    `json:"location,omitempty"`
	Company    *string    `json:"company,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	ColorIndex *string    `json:"color_index,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (i UpdateEventInput) IsEmpty() bool {
	return i.Title == nil && i.Location == nil && i.Company == nil &&
		i.Date == nil && i.ColorIndex == nil
}

type service struct {
	repo   EventRepository
	redis  *cache.RedisClient
	logger *zap.Logger
}

func NewService(repo EventRepository, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{repo: repo, redis: redis, logger: logger}
}

func (s *service) CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}

	event := &Event{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Title:      input.Title,
		Location:   input.Location,
		Company:    input.Company,
		Date:       input.Date,
		ColorIndex: input.ColorIndex,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.recordEventActivity(ctx, event.ID, input.UserID, "event_created")
	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id, userID uuid.UUID) (*Event, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *service) ListEvents(ctx context.Context, filter EventFilter) ([]Event, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateEvent(ctx context.Context, id, userID uuid.UUID, input UpdateEventInput) (*Event, error) {
	event, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.Company != nil {
		event.Company = *input.Company
	}
	if input.Date != nil {
		event.Date = input.Date
	}
	if input.ColorIndex != nil {
		event.ColorIndex = *input.ColorIndex
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.recordEventActivity(ctx, event.ID, userID, "event_updated")
	return event, nil
}

func (s *service) DeleteEvent(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.recordEventActivity(ctx, id, userID, "event_deleted")
	return nil
}

// Helper to publish a dashboard cache invalidation for event writes
func (s *service) recordEventActivity(ctx context.Context, eventID, userID uuid.UUID, action string) {
	if s.redis == nil {
		return
	}
	evt := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  eventID,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"action":   action,
			"event_id": eventID,
		},
	}
	if err := s.redis.PublishDashboardEvent(ctx, evt); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}

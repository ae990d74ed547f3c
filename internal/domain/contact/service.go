package contact

import (
	"context"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/Daesol/touchgrass-sub000/internal/domain/events"
	"github.com/Daesol/touchgrass-sub000/internal/domain/ownership"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateContact(ctx context.Context, input CreateContactInput) (*Contact, error)
	GetContact(ctx context.Context, id, userID uuid.UUID) (*Contact, error)
	ListContacts(ctx context.Context, filter ContactFilter) ([]Contact, int64, error)
	UpdateContact(ctx context.Context, id, userID uuid.UUID, input UpdateContactInput) (*Contact, error)
	DeleteContact(ctx context.Context, id, userID uuid.UUID) error
	DeleteContacts(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)
}

type CreateContactInput struct {
	EventID     *uuid.UUID `json:"event_id"`
	Name        string     `json:"name"`
	Position    string     `json:"position"`
	Company     string     `json:"company"`
	Summary     string     `json:"summary"`
	LinkedInURL string     `json:"linkedin_url"`
	VoiceMemo   *VoiceMemo `json:"voice_memo"`
	UserID      uuid.UUID  `json:"-"`
}

type UpdateContactInput struct {
	EventID     *uuid.UUID `json:"event_id,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Position    *string    `json:"position,omitempty"`
	Company     *string    `json:"company,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	LinkedInURL *string    `json:"linkedin_url,omitempty"`
	VoiceMemo   *VoiceMemo `json:"voice_memo,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (i UpdateContactInput) IsEmpty() bool {
	return i.EventID == nil && i.Name == nil && i.Position == nil &&
		i.Company == nil && i.Summary == nil && i.LinkedInURL == nil &&
		i.VoiceMemo == nil
}

type service struct {
	repo       ContactRepository
	eventOwner ownership.Resolver
	redis      *cache.RedisClient
	logger     *zap.Logger
}

func NewService(repo ContactRepository, eventOwner ownership.Resolver, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{repo: repo, eventOwner: eventOwner, redis: redis, logger: logger}
}

func (s *service) CreateContact(ctx context.Context, input CreateContactInput) (*Contact, error) {
	if input.Name == "" {
		return nil, ErrInvalidInput
	}

	if input.EventID != nil {
		if err := ownership.AssertOwned(ctx, s.eventOwner, *input.EventID, input.UserID, event.ErrEventNotFound); err != nil {
			return nil, err
		}
	}

	contact := &Contact{
		ID:          uuid.New(),
		UserID:      input.UserID,
		EventID:     input.EventID,
		Name:        input.Name,
		Position:    input.Position,
		Company:     input.Company,
		Summary:     input.Summary,
		LinkedInURL: input.LinkedInURL,
		VoiceMemo:   input.VoiceMemo,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}

	s.recordContactActivity(ctx, contact.ID, input.UserID, "contact_created")
	return contact, nil
}

func (s *service) GetContact(ctx context.Context, id, userID uuid.UUID) (*Contact, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *service) ListContacts(ctx context.Context, filter ContactFilter) ([]Contact, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateContact(ctx context.Context, id, userID uuid.UUID, input UpdateContactInput) (*Contact, error) {
	contact, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.EventID != nil {
		if err := ownership.AssertOwned(ctx, s.eventOwner, *input.EventID, userID, event.ErrEventNotFound); err != nil {
			return nil, err
		}
		contact.EventID = input.EventID
	}
	if input.Name != nil {
		contact.Name = *input.Name
	}
	if input.Position != nil {
		contact.Position = *input.Position
	}
	if input.Company != nil {
		contact.Company = *input.Company
	}
	if input.Summary != nil {
		contact.Summary = *input.Summary
	}
	if input.LinkedInURL != nil {
		contact.LinkedInURL = *input.LinkedInURL
	}
	if input.VoiceMemo != nil {
		contact.VoiceMemo = input.VoiceMemo
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}

	s.recordContactActivity(ctx, contact.ID, userID, "contact_updated")
	return contact, nil
}

func (s *service) DeleteContact(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.recordContactActivity(ctx, id, userID, "contact_deleted")
	return nil
}

// DeleteContacts removes a batch of contacts owned by the user, returning the
// number of rows removed. Missing or foreign rows are skipped, not errors.
func (s *service) DeleteContacts(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	deleted, err := s.repo.DeleteBatch(ctx, ids, userID)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.recordContactActivity(ctx, uuid.Nil, userID, "contacts_deleted")
	}
	return deleted, nil
}

// Helper to publish a dashboard cache invalidation for contact writes
func (s *service) recordContactActivity(ctx context.Context, contactID, userID uuid.UUID, action string) {
	if s.redis == nil {
		return
	}
	evt := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  contactID,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"action":     action,
			"contact_id": contactID,
		},
	}
	if err := s.redis.PublishDashboardEvent(ctx, evt); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}

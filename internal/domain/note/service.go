package note

import (
	"context"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/events"
	"github.com/Daesol/touchgrass-sub000/internal/domain/ownership"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateNote(ctx context.Context, input CreateNoteInput) (*Note, error)
	GetNote(ctx context.Context, id, userID uuid.UUID) (*Note, error)
	ListNotes(ctx context.Context, filter NoteFilter) ([]Note, int64, error)
	UpdateNote(ctx context.Context, id, userID uuid.UUID, input UpdateNoteInput) (*Note, error)
	DeleteNote(ctx context.Context, id, userID uuid.UUID) error
}

type CreateNoteInput struct {
	ContactID uuid.UUID `json:"contact_id"`
	Content   string    `json:"content"`
	UserID    uuid.UUID `json:"-"`
}

type UpdateNoteInput struct {
	Content *string `json:"content,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (i UpdateNoteInput) IsEmpty() bool {
	return i.Content == nil
}

type service struct {
	repo         NoteRepository
	contactOwner ownership.Resolver
	redis        *cache.RedisClient
	logger       *zap.Logger
}

func NewService(repo NoteRepository, contactOwner ownership.Resolver, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{repo: repo, contactOwner: contactOwner, redis: redis, logger: logger}
}

func (s *service) CreateNote(ctx context.Context, input CreateNoteInput) (*Note, error) {
	if input.Content == "" || input.ContactID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	if err := ownership.AssertOwned(ctx, s.contactOwner, input.ContactID, input.UserID, contact.ErrContactNotFound); err != nil {
		return nil, err
	}

	note := &Note{
		ID:        uuid.New(),
		UserID:    input.UserID,
		ContactID: input.ContactID,
		Content:   input.Content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	s.recordNoteActivity(ctx, note.ID, input.UserID, "note_created")
	return note, nil
}

func (s *service) GetNote(ctx context.Context, id, userID uuid.UUID) (*Note, error) {
	return s.repo.FindByID(ctx, id, userID)
}

func (s *service) ListNotes(ctx context.Context, filter NoteFilter) ([]Note, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateNote(ctx context.Context, id, userID uuid.UUID, input UpdateNoteInput) (*Note, error) {
	note, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		note.Content = *input.Content
	}

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}

	s.recordNoteActivity(ctx, note.ID, userID, "note_updated")
	return note, nil
}

func (s *service) DeleteNote(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.recordNoteActivity(ctx, id, userID, "note_deleted")
	return nil
}

// Helper to publish a dashboard cache invalidation for note writes
func (s *service) recordNoteActivity(ctx context.Context, noteID, userID uuid.UUID, action string) {
	if s.redis == nil {
		return
	}
	evt := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  noteID,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"action":  action,
			"note_id": noteID,
		},
	}
	if err := s.redis.PublishDashboardEvent(ctx, evt); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}

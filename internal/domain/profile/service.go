package profile

import (
	"context"
	"errors"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/events"
	"github.com/Daesol/touchgrass-sub000/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, input UpsertProfileInput) (*Profile, error)
}

type UpsertProfileInput struct {
	FirstName   *string        `json:"first_name,omitempty"`
	LastName    *string        `json:"last_name,omitempty"`
	DisplayName *string        `json:"display_name,omitempty"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	JobTitle    *string        `json:"job_title,omitempty"`
	Company     *string        `json:"company,omitempty"`
	Bio         *string        `json:"bio,omitempty"`
	SocialLinks datatypes.JSON `json:"social_links,omitempty"`
	Preferences datatypes.JSON `json:"preferences,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (i UpsertProfileInput) IsEmpty() bool {
	return i.FirstName == nil && i.LastName == nil && i.DisplayName == nil &&
		i.AvatarURL == nil && i.JobTitle == nil && i.Company == nil &&
		i.Bio == nil && i.SocialLinks == nil && i.Preferences == nil
}

type service struct {
	repo   ProfileRepository
	redis  *cache.RedisClient
	logger *zap.Logger
}

func NewService(repo ProfileRepository, redis *cache.RedisClient, logger *zap.Logger) Service {
	return &service{repo: repo, redis: redis, logger: logger}
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// UpsertProfile applies the partial update, creating the row on the first
// write for this user.
func (s *service) UpsertProfile(ctx context.Context, userID uuid.UUID, input UpsertProfileInput) (*Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	created := false
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		profile = &Profile{
			ID:        userID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		created = true
	}

	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
	}
	if input.DisplayName != nil {
		profile.DisplayName = *input.DisplayName
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.JobTitle != nil {
		profile.JobTitle = *input.JobTitle
	}
	if input.Company != nil {
		profile.Company = *input.Company
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.SocialLinks != nil {
		profile.SocialLinks = input.SocialLinks
	}
	if input.Preferences != nil {
		profile.Preferences = input.Preferences
	}

	if created {
		err = s.repo.Create(ctx, profile)
	} else {
		err = s.repo.Update(ctx, profile)
	}
	if err != nil {
		return nil, err
	}

	s.recordProfileActivity(ctx, userID)
	return profile, nil
}

// Helper to publish a dashboard cache invalidation for profile writes
func (s *service) recordProfileActivity(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	evt := &events.DashboardEvent{
		EventType: events.DashboardEventCacheInvalidate,
		UserID:    userID,
		EntityID:  userID,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"action": "profile_updated",
		},
	}
	if err := s.redis.PublishDashboardEvent(ctx, evt); err != nil {
		s.logger.Error("Failed to publish dashboard event", zap.Error(err))
	}
}

package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid user input")
)

type Service interface {
	Register(ctx context.Context, email, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	FindOrCreateOAuthUser(ctx context.Context, provider, providerID, email string) (*User, error)
}

type service struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewService(repo UserRepository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u := &User{
		ID:    uuid.New(),
		Email: email,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindOrCreateOAuthUser resolves an OAuth identity to a local account,
// linking by email when the account already exists.
func (s *service) FindOrCreateOAuthUser(ctx context.Context, provider, providerID, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if provider == "" || providerID == "" || email == "" {
		return nil, ErrInvalidInput
	}

	u, err := s.repo.FindByProvider(ctx, provider, providerID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u, err = s.repo.FindByEmail(ctx, email)
	if err == nil {
		u.Provider = provider
		u.ProviderID = providerID
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u = &User{
		ID:         uuid.New(),
		Email:      email,
		Provider:   provider,
		ProviderID: providerID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("OAuth user created",
		zap.String("user_id", u.ID.String()),
		zap.String("provider", provider))
	return u, nil
}

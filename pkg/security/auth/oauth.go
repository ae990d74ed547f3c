package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Daesol/touchgrass-sub000/pkg/config"
	"golang.org/x/oauth2"
)

// OAuthStateStore manages OAuth state tokens to prevent CSRF
type OAuthStateStore struct {
	states map[string]stateData
	mu     sync.Mutex
}

type stateData struct {
	Provider  string
	ExpiresAt time.Time
}

// UserInfo represents user information from OAuth providers
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
	Picture   string `json:"picture"`
	Provider  string `json:"-"`
}

var (
	stateStore     *OAuthStateStore
	stateStoreOnce sync.Once
)

// GetStateStore returns the singleton OAuthStateStore
func GetStateStore() *OAuthStateStore {
	stateStoreOnce.Do(func() {
		stateStore = &OAuthStateStore{
			states: make(map[string]stateData),
		}
	})
	return stateStore
}

// GenerateState creates a new state token and stores it
func (s *OAuthStateStore) GenerateState(provider string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = stateData{
		Provider:  provider,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	return state, nil
}

// ValidateState checks if a state token is valid and removes it
func (s *OAuthStateStore) ValidateState(state, provider string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.states[state]
	if !exists {
		return false
	}
	if time.Now().After(data.ExpiresAt) {
		delete(s.states, state)
		return false
	}
	if data.Provider != provider {
		return false
	}

	// Valid state, remove it so it can't be reused
	delete(s.states, state)
	return true
}

// CleanupExpiredStates removes expired state tokens
func (s *OAuthStateStore) CleanupExpiredStates() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for state, data := range s.states {
		if now.After(data.ExpiresAt) {
			delete(s.states, state)
		}
	}
}

// OAuthService handles OAuth2 login against configured providers.
type OAuthService struct {
	providers map[string]*oauth2.Config
	cfg       *config.Config
}

// NewOAuthService creates a new OAuth service with configured providers
func NewOAuthService(cfg *config.Config) *OAuthService {
	service := &OAuthService{
		providers: make(map[string]*oauth2.Config),
		cfg:       cfg,
	}

	for name, providerCfg := range cfg.Auth.OAuth2Providers {
		redirectURL := providerCfg.RedirectURL
		if redirectURL == "" && cfg.Site.BaseURL != "" {
			redirectURL = cfg.Site.BaseURL + "/api/auth/oauth/" + name + "/callback"
		}
		service.providers[name] = &oauth2.Config{
			ClientID:     providerCfg.ClientID,
			ClientSecret: providerCfg.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       providerCfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  providerCfg.AuthURL,
				TokenURL: providerCfg.TokenURL,
			},
		}
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			GetStateStore().CleanupExpiredStates()
		}
	}()

	return service
}

// GetAuthURL returns an OAuth2 authorization URL for the specified provider
func (s *OAuthService) GetAuthURL(provider string) (string, string, error) {
	cfg, exists := s.providers[provider]
	if !exists {
		return "", "", fmt.Errorf("unknown OAuth provider: %s", provider)
	}

	state, err := GetStateStore().GenerateState(provider)
	if err != nil {
		return "", "", err
	}

	return cfg.AuthCodeURL(state), state, nil
}

// Exchange exchanges an authorization code for a token
func (s *OAuthService) Exchange(ctx context.Context, provider, code string) (*oauth2.Token, error) {
	cfg, exists := s.providers[provider]
	if !exists {
		return nil, fmt.Errorf("unknown OAuth provider: %s", provider)
	}

	return cfg.Exchange(ctx, code)
}

// GetUserInfo fetches user information from the OAuth provider
func (s *OAuthService) GetUserInfo(ctx context.Context, provider string, token *oauth2.Token) (*UserInfo, error) {
	cfg, exists := s.providers[provider]
	if !exists {
		return nil, fmt.Errorf("unknown OAuth provider: %s", provider)
	}

	providerCfg, exists := s.cfg.Auth.OAuth2Providers[provider]
	if !exists || providerCfg.UserInfoURL == "" {
		return nil, errors.New("missing user info URL for provider")
	}

	client := cfg.Client(ctx, token)
	resp, err := client.Get(providerCfg.UserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: %s - %s", resp.Status, string(body))
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	info := &UserInfo{Provider: provider}
	if id, ok := raw["id"].(string); ok {
		info.ID = id
	} else if id, ok := raw["sub"].(string); ok {
		info.ID = id
	}
	if email, ok := raw["email"].(string); ok {
		info.Email = email
	}
	if name, ok := raw["name"].(string); ok {
		info.Name = name
	}
	if givenName, ok := raw["given_name"].(string); ok {
		info.GivenName = givenName
	}
	if picture, ok := raw["picture"].(string); ok {
		info.Picture = picture
	}

	return info, nil
}

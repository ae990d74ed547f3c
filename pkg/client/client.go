// Package client is a Go consumer of the TouchGrass API. It speaks the
// response envelope, carries the session cookie between calls, and feeds the
// optimistic state store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/google/uuid"
)

// APIError is the error half of the response envelope surfaced to callers.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// User is the authenticated principal returned by the auth endpoints.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// envelope mirrors both wire shapes: success carries data (and optional
// meta), failure carries error.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   *APIError       `json:"error"`
}

// Client calls the TouchGrass API. The underlying http.Client owns a cookie
// jar, so the session established by Login flows through subsequent calls.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New creates a client against the given base URL, e.g. "http://localhost:8000".
func New(baseURL string, log *logger.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		log: log,
	}, nil
}

// do executes a request and decodes the envelope into out. Envelope errors
// come back as *APIError; transport and decode failures as plain errors.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		if env.Error != nil {
			return env.Error
		}
		return &APIError{Code: "UNKNOWN", Message: fmt.Sprintf("request failed with status %d", resp.StatusCode)}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// Login authenticates with email and password; the session cookie lands in
// the jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account and establishes a session.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout tears down the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Me returns the current principal, or an envelope error when the session is
// missing or expired.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListEvents fetches all events for the current user.
func (c *Client) ListEvents(ctx context.Context) ([]event.Event, error) {
	var events []event.Event
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListContacts fetches all contacts for the current user.
func (c *Client) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	var contacts []contact.Contact
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// ListActionItems fetches all action items for the current user.
func (c *Client) ListActionItems(ctx context.Context) ([]actionitem.ActionItem, error) {
	var items []actionitem.ActionItem
	if err := c.do(ctx, http.MethodGet, "/api/action-items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetCompletion toggles an action item and returns the server's copy of the
// row, which is authoritative for timestamps.
func (c *Client) SetCompletion(ctx context.Context, id uuid.UUID, completed bool) (*actionitem.ActionItem, error) {
	var item actionitem.ActionItem
	err := c.do(ctx, http.MethodPatch, "/api/action-items/"+id.String()+"/complete", map[string]bool{
		"completed": completed,
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

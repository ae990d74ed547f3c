package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiFixture is an in-memory stand-in for the API. Handlers can be swapped
// per test to inject failures.
type apiFixture struct {
	mu          sync.Mutex
	events      []event.Event
	contacts    []contact.Contact
	actionItems []actionitem.ActionItem

	completeHook func(w http.ResponseWriter, r *http.Request) bool
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func (f *apiFixture) server() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeData(w, http.StatusOK, f.events)
	})
	mux.HandleFunc("/api/contacts", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeData(w, http.StatusOK, f.contacts)
	})
	mux.HandleFunc("/api/action-items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeData(w, http.StatusOK, f.actionItems)
	})
	mux.HandleFunc("/api/action-items/", func(w http.ResponseWriter, r *http.Request) {
		if f.completeHook != nil && f.completeHook(w, r) {
			return
		}

		var req struct {
			Completed bool `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body")
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.actionItems {
			path := fmt.Sprintf("/api/action-items/%s/complete", f.actionItems[i].ID)
			if r.URL.Path != path {
				continue
			}
			f.actionItems[i].IsCompleted = req.Completed
			f.actionItems[i].UpdatedAt = time.Now().Add(time.Hour) // visibly server-stamped
			if req.Completed {
				now := time.Now()
				f.actionItems[i].CompletedAt = &now
			} else {
				f.actionItems[i].CompletedAt = nil
			}
			writeData(w, http.StatusOK, f.actionItems[i])
			return
		}
		writeError(w, http.StatusNotFound, "NOT_FOUND", "action item not found")
	})
	return httptest.NewServer(mux)
}

func newFixture() *apiFixture {
	eventID := uuid.New()
	contactID := uuid.New()

	return &apiFixture{
		events: []event.Event{
			{ID: eventID, Title: "GopherCon", ColorIndex: "3"},
		},
		contacts: []contact.Contact{
			{ID: contactID, EventID: &eventID, Name: "Dana"},
		},
		actionItems: []actionitem.ActionItem{
			{ID: uuid.New(), ContactID: &contactID, EventID: &eventID, Title: "Send follow-up", IsCompleted: false},
		},
	}
}

func newTestStore(t *testing.T, fixture *apiFixture) (*Store, func()) {
	t.Helper()
	srv := fixture.server()
	c, err := New(srv.URL, nil)
	require.NoError(t, err)
	return NewStore(c), srv.Close
}

func TestInitDerivesViewModels(t *testing.T) {
	fixture := newFixture()
	store, done := newTestStore(t, fixture)
	defer done()

	err := store.Init(context.Background(), &User{ID: uuid.New(), Email: "dana@example.com"})
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.AuthState)
	require.Len(t, snap.Events, 1)
	require.Len(t, snap.Contacts, 1)
	require.Len(t, snap.ActionItems, 1)

	assert.Equal(t, "GopherCon", snap.Contacts[0].EventTitle)
	assert.Equal(t, "Dana", snap.ActionItems[0].ContactName)
	assert.Equal(t, "GopherCon", snap.ActionItems[0].EventTitle)
	assert.Equal(t, "3", snap.ActionItems[0].EventColorIndex)
}

func TestInitFailureEntersErrorState(t *testing.T) {
	fixture := newFixture()
	srv := fixture.server()
	srv.Close() // every request now fails

	c, err := New(srv.URL, nil)
	require.NoError(t, err)
	store := NewStore(c)

	err = store.Init(context.Background(), &User{ID: uuid.New()})
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Equal(t, StateError, snap.AuthState)
	assert.Error(t, snap.AuthErr)
}

func TestToggleCompletionServerCopyWins(t *testing.T) {
	fixture := newFixture()
	store, done := newTestStore(t, fixture)
	defer done()

	require.NoError(t, store.Init(context.Background(), &User{ID: uuid.New()}))
	itemID := store.Snapshot().ActionItems[0].ID

	require.NoError(t, store.ToggleCompletion(context.Background(), itemID))

	snap := store.Snapshot()
	assert.True(t, snap.ActionItems[0].IsCompleted)
	// The reconciled row carries server timestamps, not the optimistic copy.
	assert.NotNil(t, snap.ActionItems[0].CompletedAt)
	assert.True(t, snap.ActionItems[0].UpdatedAt.After(time.Now()))
}

func TestToggleCompletionRollsBackOnFailure(t *testing.T) {
	fixture := newFixture()
	fixture.completeHook = func(w http.ResponseWriter, r *http.Request) bool {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return true
	}
	store, done := newTestStore(t, fixture)
	defer done()

	require.NoError(t, store.Init(context.Background(), &User{ID: uuid.New()}))
	before := store.Snapshot().ActionItems[0]

	err := store.ToggleCompletion(context.Background(), before.ID)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "internal server error", apiErr.Message)

	after := store.Snapshot().ActionItems[0]
	assert.Equal(t, before.IsCompleted, after.IsCompleted)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestTeardownGuardsInFlightToggle(t *testing.T) {
	fixture := newFixture()

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	fixture.completeHook = func(w http.ResponseWriter, r *http.Request) bool {
		once.Do(func() { close(started) })
		<-release
		return false // fall through to the normal handler
	}

	store, done := newTestStore(t, fixture)
	defer done()

	require.NoError(t, store.Init(context.Background(), &User{ID: uuid.New()}))
	itemID := store.Snapshot().ActionItems[0].ID

	toggleDone := make(chan error, 1)
	go func() {
		toggleDone <- store.ToggleCompletion(context.Background(), itemID)
	}()

	<-started
	store.Teardown()
	close(release)

	require.NoError(t, <-toggleDone)

	// The late response must not resurrect state from the torn-down session.
	snap := store.Snapshot()
	assert.Equal(t, StateAnonymous, snap.AuthState)
	assert.Empty(t, snap.ActionItems)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	fixture := newFixture()
	store, done := newTestStore(t, fixture)
	defer done()

	var mu sync.Mutex
	var states []AuthState
	unsubscribe := store.Subscribe(func(snap Snapshot) {
		mu.Lock()
		states = append(states, snap.AuthState)
		mu.Unlock()
	})

	require.NoError(t, store.Init(context.Background(), &User{ID: uuid.New()}))

	mu.Lock()
	require.GreaterOrEqual(t, len(states), 2)
	assert.Equal(t, StateAuthenticating, states[0])
	assert.Equal(t, StateAuthenticated, states[len(states)-1])
	seen := len(states)
	mu.Unlock()

	unsubscribe()
	store.Teardown()

	mu.Lock()
	assert.Len(t, states, seen)
	mu.Unlock()
}

func TestClientSurfacesEnvelopeErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "authentication required", apiErr.Message)
}

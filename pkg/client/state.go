package client

import (
	"context"
	"sync"

	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/dashboard"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/google/uuid"
)

// AuthState tracks where the store is in its session lifecycle.
type AuthState string

const (
	StateAnonymous      AuthState = "anonymous"
	StateAuthenticating AuthState = "authenticating"
	StateAuthenticated  AuthState = "authenticated"
	StateError          AuthState = "error"
)

// Snapshot is an immutable view of the store handed to subscribers.
type Snapshot struct {
	AuthState   AuthState
	AuthErr     error
	User        *User
	Events      []event.Event
	Contacts    []dashboard.EnrichedContact
	ActionItems []dashboard.EnrichedActionItem
}

// Store holds the client-side copy of the user's data. All mutation goes
// through explicit methods; subscribers are notified after every state
// change. A generation counter ties in-flight responses to the session that
// issued them, so a response landing after Teardown cannot touch state.
type Store struct {
	client *Client

	mu          sync.Mutex
	generation  uint64
	authState   AuthState
	authErr     error
	user        *User
	events      []event.Event
	contacts    []dashboard.EnrichedContact
	actionItems []dashboard.EnrichedActionItem
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// NewStore creates an empty store in the anonymous state.
func NewStore(client *Client) *Store {
	return &Store{
		client:      client,
		authState:   StateAnonymous,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn to be called with a snapshot after every state
// change. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		AuthState:   s.authState,
		AuthErr:     s.authErr,
		User:        s.user,
		Events:      append([]event.Event(nil), s.events...),
		Contacts:    append([]dashboard.EnrichedContact(nil), s.contacts...),
		ActionItems: append([]dashboard.EnrichedActionItem(nil), s.actionItems...),
	}
}

// notifyLocked hands the current snapshot to every subscriber. Callbacks
// receive their own copy of the state and must not call back into the store.
func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

// Init fetches the user's collections and derives the dashboard view-models.
// It moves the store through authenticating into authenticated, or into the
// error state if any fetch fails.
func (s *Store) Init(ctx context.Context, user *User) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.user = user
	s.authState = StateAuthenticating
	s.authErr = nil
	s.notifyLocked()
	s.mu.Unlock()

	events, err := s.client.ListEvents(ctx)
	if err == nil {
		var contacts []contact.Contact
		contacts, err = s.client.ListContacts(ctx)
		if err == nil {
			var items []actionitem.ActionItem
			items, err = s.client.ListActionItems(ctx)
			if err == nil {
				s.mu.Lock()
				defer s.mu.Unlock()
				if gen != s.generation {
					return nil
				}
				s.events = events
				s.contacts, s.actionItems = derive(events, contacts, items)
				s.authState = StateAuthenticated
				s.notifyLocked()
				return nil
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	s.authState = StateError
	s.authErr = err
	s.notifyLocked()
	return err
}

// Teardown clears all state and invalidates in-flight responses.
func (s *Store) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.user = nil
	s.events = nil
	s.contacts = nil
	s.actionItems = nil
	s.authState = StateAnonymous
	s.authErr = nil
	s.notifyLocked()
}

// ToggleCompletion flips an action item optimistically: the local copy
// changes immediately, then the server's row replaces it on success. On
// failure the original row is restored and the error returned.
func (s *Store) ToggleCompletion(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := -1
	for i := range s.actionItems {
		if s.actionItems[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return actionitem.ErrActionItemNotFound
	}

	original := s.actionItems[idx].ActionItem
	desired := !original.IsCompleted
	gen := s.generation

	s.actionItems[idx].IsCompleted = desired
	s.notifyLocked()
	s.mu.Unlock()

	updated, err := s.client.SetCompletion(ctx, id, desired)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// Session was torn down while the call was in flight.
		return nil
	}

	idx = -1
	for i := range s.actionItems {
		if s.actionItems[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return err
	}

	if err != nil {
		s.actionItems[idx].ActionItem = original
		s.notifyLocked()
		return err
	}

	// The server row wins: it carries the authoritative timestamps.
	s.actionItems[idx].ActionItem = *updated
	s.notifyLocked()
	return nil
}

// derive joins the flat collections into the enriched dashboard view-models.
// Dangling references degrade to empty display fields.
func derive(events []event.Event, contacts []contact.Contact, items []actionitem.ActionItem) ([]dashboard.EnrichedContact, []dashboard.EnrichedActionItem) {
	eventsByID := make(map[uuid.UUID]*event.Event, len(events))
	for i := range events {
		eventsByID[events[i].ID] = &events[i]
	}
	contactsByID := make(map[uuid.UUID]*contact.Contact, len(contacts))
	for i := range contacts {
		contactsByID[contacts[i].ID] = &contacts[i]
	}

	enrichedContacts := make([]dashboard.EnrichedContact, 0, len(contacts))
	for _, c := range contacts {
		ec := dashboard.EnrichedContact{Contact: c}
		if c.EventID != nil {
			if ev, ok := eventsByID[*c.EventID]; ok {
				ec.EventTitle = ev.Title
			}
		}
		enrichedContacts = append(enrichedContacts, ec)
	}

	enrichedItems := make([]dashboard.EnrichedActionItem, 0, len(items))
	for _, item := range items {
		ei := dashboard.EnrichedActionItem{ActionItem: item}
		if item.ContactID != nil {
			if ct, ok := contactsByID[*item.ContactID]; ok {
				ei.ContactName = ct.Name
			}
		}
		if item.EventID != nil {
			if ev, ok := eventsByID[*item.EventID]; ok {
				ei.EventTitle = ev.Title
				ei.EventColorIndex = ev.ColorIndex
			}
		}
		enrichedItems = append(enrichedItems, ei)
	}

	return enrichedContacts, enrichedItems
}

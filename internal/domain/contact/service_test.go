package contact

import (
	"context"
	"testing"

	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockContactRepository struct {
	contacts map[uuid.UUID]*Contact
}

func newMockContactRepository() *mockContactRepository {
	return &mockContactRepository{contacts: make(map[uuid.UUID]*Contact)}
}

func (m *mockContactRepository) Create(ctx context.Context, contact *Contact) error {
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockContactRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*Contact, error) {
	contact, ok := m.contacts[id]
	if !ok || contact.UserID != userID {
		return nil, ErrContactNotFound
	}
	copied := *contact
	return &copied, nil
}

func (m *mockContactRepository) FindAll(ctx context.Context, filter ContactFilter) ([]Contact, int64, error) {
	var out []Contact
	for _, contact := range m.contacts {
		if filter.UserID != nil && contact.UserID != *filter.UserID {
			continue
		}
		if filter.EventID != nil && (contact.EventID == nil || *contact.EventID != *filter.EventID) {
			continue
		}
		out = append(out, *contact)
	}
	return out, int64(len(out)), nil
}

func (m *mockContactRepository) Update(ctx context.Context, contact *Contact) error {
	if _, ok := m.contacts[contact.ID]; !ok {
		return ErrContactNotFound
	}
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockContactRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	contact, ok := m.contacts[id]
	if !ok || contact.UserID != userID {
		return ErrContactNotFound
	}
	delete(m.contacts, id)
	return nil
}

func (m *mockContactRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if contact, ok := m.contacts[id]; ok && contact.UserID == userID {
			delete(m.contacts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockContactRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	contact, ok := m.contacts[id]
	if !ok {
		return uuid.Nil, ErrContactNotFound
	}
	return contact.UserID, nil
}

// mockOwnerResolver maps ids to owners for foreign-key checks.
type mockOwnerResolver struct {
	owners   map[uuid.UUID]uuid.UUID
	notFound error
}

func (m *mockOwnerResolver) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	owner, ok := m.owners[id]
	if !ok {
		return uuid.Nil, m.notFound
	}
	return owner, nil
}

func TestCreateContact(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()
	foreignEventID := uuid.New()

	events := &mockOwnerResolver{
		owners: map[uuid.UUID]uuid.UUID{
			eventID:        userID,
			foreignEventID: uuid.New(),
		},
		notFound: event.ErrEventNotFound,
	}

	tests := []struct {
		name    string
		input   CreateContactInput
		wantErr error
	}{
		{
			name:  "valid without event",
			input: CreateContactInput{Name: "Dana", UserID: userID},
		},
		{
			name:  "valid with owned event",
			input: CreateContactInput{Name: "Avery", EventID: &eventID, UserID: userID},
		},
		{
			name:    "missing name",
			input:   CreateContactInput{UserID: userID},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "foreign event looks missing",
			input:   CreateContactInput{Name: "Sam", EventID: &foreignEventID, UserID: userID},
			wantErr: event.ErrEventNotFound,
		},
		{
			name: "unknown event",
			input: CreateContactInput{
				Name:    "Kim",
				EventID: func() *uuid.UUID { id := uuid.New(); return &id }(),
				UserID:  userID,
			},
			wantErr: event.ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockContactRepository(), events, nil, zap.NewNop())
			contact, err := svc.CreateContact(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Name, contact.Name)
			assert.Equal(t, userID, contact.UserID)
		})
	}
}

func TestUpdateContactVoiceMemo(t *testing.T) {
	userID := uuid.New()
	repo := newMockContactRepository()
	svc := NewService(repo, &mockOwnerResolver{notFound: event.ErrEventNotFound}, nil, zap.NewNop())

	created, err := svc.CreateContact(context.Background(), CreateContactInput{Name: "Dana", UserID: userID})
	require.NoError(t, err)

	memo := &VoiceMemo{
		URL:        "https://example.com/memo.m4a",
		Transcript: "met at the booth",
		KeyPoints:  []string{"follow up re hiring"},
	}
	updated, err := svc.UpdateContact(context.Background(), created.ID, userID, UpdateContactInput{VoiceMemo: memo})
	require.NoError(t, err)

	require.NotNil(t, updated.VoiceMemo)
	assert.Equal(t, memo.Transcript, updated.VoiceMemo.Transcript)
	assert.Equal(t, "Dana", updated.Name)
}

func TestDeleteContactsBestEffort(t *testing.T) {
	userID := uuid.New()
	repo := newMockContactRepository()
	svc := NewService(repo, &mockOwnerResolver{notFound: event.ErrEventNotFound}, nil, zap.NewNop())

	first, err := svc.CreateContact(context.Background(), CreateContactInput{Name: "A", UserID: userID})
	require.NoError(t, err)
	second, err := svc.CreateContact(context.Background(), CreateContactInput{Name: "B", UserID: userID})
	require.NoError(t, err)

	// One real id, one unknown id: partial deletion is not an error.
	deleted, err := svc.DeleteContacts(context.Background(), []uuid.UUID{first.ID, uuid.New()}, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.GetContact(context.Background(), second.ID, userID)
	assert.NoError(t, err)
}

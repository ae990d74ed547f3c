package actionitem

import (
	"context"
	"testing"
	"time"

	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockActionItemRepository struct {
	items map[uuid.UUID]*ActionItem
}

func newMockActionItemRepository() *mockActionItemRepository {
	return &mockActionItemRepository{items: make(map[uuid.UUID]*ActionItem)}
}

func (m *mockActionItemRepository) Create(ctx context.Context, item *ActionItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockActionItemRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*ActionItem, error) {
	item, ok := m.items[id]
	if !ok || item.UserID != userID {
		return nil, ErrActionItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockActionItemRepository) FindAll(ctx context.Context, filter ActionItemFilter) ([]ActionItem, int64, error) {
	var out []ActionItem
	for _, item := range m.items {
		if filter.UserID != nil && item.UserID != *filter.UserID {
			continue
		}
		if filter.IsCompleted != nil && item.IsCompleted != *filter.IsCompleted {
			continue
		}
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (m *mockActionItemRepository) Update(ctx context.Context, item *ActionItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return ErrActionItemNotFound
	}
	item.UpdatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *mockActionItemRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	item, ok := m.items[id]
	if !ok || item.UserID != userID {
		return ErrActionItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockActionItemRepository) PruneByReferences(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	contactSet := make(map[uuid.UUID]bool, len(contactIDs))
	for _, id := range contactIDs {
		contactSet[id] = true
	}

	var pruned int64
	for id, item := range m.items {
		if item.UserID != userID {
			continue
		}
		matchesEvent := eventID != nil && item.EventID != nil && *item.EventID == *eventID
		matchesContact := item.ContactID != nil && contactSet[*item.ContactID]
		if matchesEvent || matchesContact {
			delete(m.items, id)
			pruned++
		}
	}
	return pruned, nil
}

func (m *mockActionItemRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	item, ok := m.items[id]
	if !ok {
		return uuid.Nil, ErrActionItemNotFound
	}
	return item.UserID, nil
}

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

func newTestService(repo ActionItemRepository, userID uuid.UUID, contactID, eventID uuid.UUID) Service {
	contacts := &mockOwnerResolver{
		owners:   map[uuid.UUID]uuid.UUID{contactID: userID},
		notFound: contact.ErrContactNotFound,
	}
	events := &mockOwnerResolver{
		owners:   map[uuid.UUID]uuid.UUID{eventID: userID},
		notFound: event.ErrEventNotFound,
	}
	return NewService(repo, contacts, events, nil, zap.NewNop())
}

func TestCreateActionItem(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()
	eventID := uuid.New()
	unknownContact := uuid.New()

	tests := []struct {
		name    string
		input   CreateActionItemInput
		wantErr error
	}{
		{
			name:  "title only",
			input: CreateActionItemInput{Title: "Send deck", UserID: userID},
		},
		{
			name:  "with references",
			input: CreateActionItemInput{Title: "Intro email", ContactID: &contactID, EventID: &eventID, UserID: userID},
		},
		{
			name:    "missing title",
			input:   CreateActionItemInput{UserID: userID},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown contact reference",
			input:   CreateActionItemInput{Title: "Call", ContactID: &unknownContact, UserID: userID},
			wantErr: contact.ErrContactNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newMockActionItemRepository(), userID, contactID, eventID)
			item, err := svc.CreateActionItem(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, item.IsCompleted)
			assert.Equal(t, tt.input.Title, item.Title)
		})
	}
}

func TestSetCompletion(t *testing.T) {
	userID := uuid.New()
	repo := newMockActionItemRepository()
	svc := newTestService(repo, userID, uuid.New(), uuid.New())

	created, err := svc.CreateActionItem(context.Background(), CreateActionItemInput{Title: "Follow up", UserID: userID})
	require.NoError(t, err)
	require.False(t, created.IsCompleted)
	beforeToggle := created.UpdatedAt

	completed, err := svc.SetCompletion(context.Background(), created.ID, userID, true)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	require.NotNil(t, completed.CompletedAt)
	assert.False(t, completed.UpdatedAt.Before(beforeToggle))

	reopened, err := svc.SetCompletion(context.Background(), created.ID, userID, false)
	require.NoError(t, err)
	assert.False(t, reopened.IsCompleted)
	assert.Nil(t, reopened.CompletedAt)
}

func TestSetCompletionForeignOwner(t *testing.T) {
	userID := uuid.New()
	repo := newMockActionItemRepository()
	svc := newTestService(repo, userID, uuid.New(), uuid.New())

	created, err := svc.CreateActionItem(context.Background(), CreateActionItemInput{Title: "Follow up", UserID: userID})
	require.NoError(t, err)

	_, err = svc.SetCompletion(context.Background(), created.ID, uuid.New(), true)
	assert.ErrorIs(t, err, ErrActionItemNotFound)
}

func TestPruneByReferences(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()
	eventID := uuid.New()
	repo := newMockActionItemRepository()
	svc := newTestService(repo, userID, contactID, eventID)

	_, err := svc.CreateActionItem(context.Background(), CreateActionItemInput{Title: "From event", EventID: &eventID, UserID: userID})
	require.NoError(t, err)
	_, err = svc.CreateActionItem(context.Background(), CreateActionItemInput{Title: "From contact", ContactID: &contactID, UserID: userID})
	require.NoError(t, err)
	keeper, err := svc.CreateActionItem(context.Background(), CreateActionItemInput{Title: "Unrelated", UserID: userID})
	require.NoError(t, err)

	pruned, err := svc.PruneByReferences(context.Background(), userID, &eventID, []uuid.UUID{contactID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pruned)

	remaining, total, err := svc.ListActionItems(context.Background(), ActionItemFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, remaining, 1)
	assert.Equal(t, keeper.ID, remaining[0].ID)
}

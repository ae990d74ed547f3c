package note

import (
	"context"
	"testing"

	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockNoteRepository struct {
	notes map[uuid.UUID]*Note
}

func newMockNoteRepository() *mockNoteRepository {
	return &mockNoteRepository{notes: make(map[uuid.UUID]*Note)}
}

func (m *mockNoteRepository) Create(ctx context.Context, note *Note) error {
	m.notes[note.ID] = note
	return nil
}

func (m *mockNoteRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*Note, error) {
	note, ok := m.notes[id]
	if !ok || note.UserID != userID {
		return nil, ErrNoteNotFound
	}
	copied := *note
	return &copied, nil
}

func (m *mockNoteRepository) FindAll(ctx context.Context, filter NoteFilter) ([]Note, int64, error) {
	var out []Note
	for _, note := range m.notes {
		if filter.UserID != nil && note.UserID != *filter.UserID {
			continue
		}
		if filter.ContactID != nil && note.ContactID != *filter.ContactID {
			continue
		}
		out = append(out, *note)
	}
	return out, int64(len(out)), nil
}

func (m *mockNoteRepository) Update(ctx context.Context, note *Note) error {
	if _, ok := m.notes[note.ID]; !ok {
		return ErrNoteNotFound
	}
	m.notes[note.ID] = note
	return nil
}

func (m *mockNoteRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	note, ok := m.notes[id]
	if !ok || note.UserID != userID {
		return ErrNoteNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *mockNoteRepository) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	note, ok := m.notes[id]
	if !ok {
		return uuid.Nil, ErrNoteNotFound
	}
	return note.UserID, nil
}

type mockOwnerResolver struct {
	owners map[uuid.UUID]uuid.UUID
}

func (m *mockOwnerResolver) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	owner, ok := m.owners[id]
	if !ok {
		return uuid.Nil, contact.ErrContactNotFound
	}
	return owner, nil
}

func TestCreateNote(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()
	foreignContactID := uuid.New()

	contacts := &mockOwnerResolver{owners: map[uuid.UUID]uuid.UUID{
		contactID:        userID,
		foreignContactID: uuid.New(),
	}}

	tests := []struct {
		name    string
		input   CreateNoteInput
		wantErr error
	}{
		{
			name:  "valid",
			input: CreateNoteInput{ContactID: contactID, Content: "met at conference", UserID: userID},
		},
		{
			name:    "missing content",
			input:   CreateNoteInput{ContactID: contactID, UserID: userID},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing contact",
			input:   CreateNoteInput{Content: "orphan", UserID: userID},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "foreign contact looks missing",
			input:   CreateNoteInput{ContactID: foreignContactID, Content: "nope", UserID: userID},
			wantErr: contact.ErrContactNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockNoteRepository(), contacts, nil, zap.NewNop())
			note, err := svc.CreateNote(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Content, note.Content)
			assert.Equal(t, tt.input.ContactID, note.ContactID)
		})
	}
}

func TestUpdateNoteForeignOwner(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()
	contacts := &mockOwnerResolver{owners: map[uuid.UUID]uuid.UUID{contactID: userID}}
	svc := NewService(newMockNoteRepository(), contacts, nil, zap.NewNop())

	created, err := svc.CreateNote(context.Background(), CreateNoteInput{
		ContactID: contactID,
		Content:   "original",
		UserID:    userID,
	})
	require.NoError(t, err)

	content := "tampered"
	_, err = svc.UpdateNote(context.Background(), created.ID, uuid.New(), UpdateNoteInput{Content: &content})
	assert.ErrorIs(t, err, ErrNoteNotFound)

	got, err := svc.GetNote(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Content)
}

package dashboard

import (
	"context"
	"testing"

	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEventRepo struct {
	event.EventRepository
	rows []event.Event
}

func (s *stubEventRepo) FindAll(ctx context.Context, filter event.EventFilter) ([]event.Event, int64, error) {
	return s.rows, int64(len(s.rows)), nil
}

type stubContactRepo struct {
	contact.ContactRepository
	rows []contact.Contact
}

func (s *stubContactRepo) FindAll(ctx context.Context, filter contact.ContactFilter) ([]contact.Contact, int64, error) {
	return s.rows, int64(len(s.rows)), nil
}

type stubActionItemRepo struct {
	actionitem.ActionItemRepository
	rows []actionitem.ActionItem
}

func (s *stubActionItemRepo) FindAll(ctx context.Context, filter actionitem.ActionItemFilter) ([]actionitem.ActionItem, int64, error) {
	return s.rows, int64(len(s.rows)), nil
}

func TestGetOverviewJoins(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()
	contactID := uuid.New()
	danglingEventID := uuid.New()

	events := &stubEventRepo{rows: []event.Event{
		{ID: eventID, UserID: userID, Title: "GopherCon", ColorIndex: "3"},
	}}
	contacts := &stubContactRepo{rows: []contact.Contact{
		{ID: contactID, UserID: userID, Name: "Dana", EventID: &eventID},
		{ID: uuid.New(), UserID: userID, Name: "NoEvent"},
	}}
	items := &stubActionItemRepo{rows: []actionitem.ActionItem{
		{ID: uuid.New(), UserID: userID, Title: "Email Dana", ContactID: &contactID, EventID: &eventID},
		{ID: uuid.New(), UserID: userID, Title: "Dangling", EventID: &danglingEventID, IsCompleted: true},
	}}

	svc := NewService(events, contacts, items, nil)
	overview, err := svc.GetOverview(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, overview.Contacts, 2)
	byName := map[string]EnrichedContact{}
	for _, c := range overview.Contacts {
		byName[c.Name] = c
	}
	assert.Equal(t, "GopherCon", byName["Dana"].EventTitle)
	assert.Empty(t, byName["NoEvent"].EventTitle)

	require.Len(t, overview.ActionItems, 2)
	byTitle := map[string]EnrichedActionItem{}
	for _, item := range overview.ActionItems {
		byTitle[item.Title] = item
	}
	linked := byTitle["Email Dana"]
	assert.Equal(t, "Dana", linked.ContactName)
	assert.Equal(t, "GopherCon", linked.EventTitle)
	assert.Equal(t, "3", linked.EventColorIndex)

	// Dangling references resolve to empty display fields, not errors.
	dangling := byTitle["Dangling"]
	assert.Empty(t, dangling.EventTitle)
	assert.Empty(t, dangling.ContactName)

	assert.Equal(t, int64(1), overview.Summary.Events)
	assert.Equal(t, int64(2), overview.Summary.Contacts)
	assert.Equal(t, int64(2), overview.Summary.ActionItems)
	assert.Equal(t, int64(1), overview.Summary.OpenActionItems)
}

func TestGetOverviewEmpty(t *testing.T) {
	svc := NewService(&stubEventRepo{}, &stubContactRepo{}, &stubActionItemRepo{}, nil)

	overview, err := svc.GetOverview(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.NotNil(t, overview.Contacts)
	assert.NotNil(t, overview.ActionItems)
	assert.Empty(t, overview.Contacts)
	assert.Zero(t, overview.Summary.OpenActionItems)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeEventService backs handler tests with an in-memory map.
type fakeEventService struct {
	events map[uuid.UUID]*event.Event
}

func newFakeEventService() *fakeEventService {
	return &fakeEventService{events: make(map[uuid.UUID]*event.Event)}
}

func (f *fakeEventService) CreateEvent(ctx context.Context, input event.CreateEventInput) (*event.Event, error) {
	if input.Title == "" {
		return nil, event.ErrInvalidInput
	}
	e := &event.Event{ID: uuid.New(), UserID: input.UserID, Title: input.Title, Company: input.Company}
	f.events[e.ID] = e
	return e, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id, userID uuid.UUID) (*event.Event, error) {
	e, ok := f.events[id]
	if !ok || e.UserID != userID {
		return nil, event.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context, filter event.EventFilter) ([]event.Event, int64, error) {
	var out []event.Event
	for _, e := range f.events {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id, userID uuid.UUID, input event.UpdateEventInput) (*event.Event, error) {
	e, err := f.GetEvent(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		e.Title = *input.Title
	}
	return e, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := f.GetEvent(ctx, id, userID); err != nil {
		return err
	}
	delete(f.events, id)
	return nil
}

// fakeActionItemService implements just enough for the completion routes.
type fakeActionItemService struct {
	items map[uuid.UUID]*actionitem.ActionItem
}

func newFakeActionItemService() *fakeActionItemService {
	return &fakeActionItemService{items: make(map[uuid.UUID]*actionitem.ActionItem)}
}

func (f *fakeActionItemService) CreateActionItem(ctx context.Context, input actionitem.CreateActionItemInput) (*actionitem.ActionItem, error) {
	item := &actionitem.ActionItem{ID: uuid.New(), UserID: input.UserID, Title: input.Title}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeActionItemService) GetActionItem(ctx context.Context, id, userID uuid.UUID) (*actionitem.ActionItem, error) {
	item, ok := f.items[id]
	if !ok || item.UserID != userID {
		return nil, actionitem.ErrActionItemNotFound
	}
	return item, nil
}

func (f *fakeActionItemService) ListActionItems(ctx context.Context, filter actionitem.ActionItemFilter) ([]actionitem.ActionItem, int64, error) {
	return nil, 0, nil
}

func (f *fakeActionItemService) UpdateActionItem(ctx context.Context, id, userID uuid.UUID, input actionitem.UpdateActionItemInput) (*actionitem.ActionItem, error) {
	return f.GetActionItem(ctx, id, userID)
}

func (f *fakeActionItemService) SetCompletion(ctx context.Context, id, userID uuid.UUID, completed bool) (*actionitem.ActionItem, error) {
	item, err := f.GetActionItem(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	item.IsCompleted = completed
	return item, nil
}

func (f *fakeActionItemService) DeleteActionItem(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := f.GetActionItem(ctx, id, userID); err != nil {
		return err
	}
	delete(f.items, id)
	return nil
}

func (f *fakeActionItemService) PruneByReferences(ctx context.Context, userID uuid.UUID, eventID *uuid.UUID, contactIDs []uuid.UUID) (int64, error) {
	return 0, nil
}

// fakeContactService stores contacts in memory and honors the event filter.
type fakeContactService struct {
	contacts map[uuid.UUID]*contact.Contact
}

func newFakeContactService() *fakeContactService {
	return &fakeContactService{contacts: make(map[uuid.UUID]*contact.Contact)}
}

func (f *fakeContactService) CreateContact(ctx context.Context, input contact.CreateContactInput) (*contact.Contact, error) {
	if input.Name == "" {
		return nil, contact.ErrInvalidInput
	}
	ct := &contact.Contact{ID: uuid.New(), UserID: input.UserID, EventID: input.EventID, Name: input.Name}
	f.contacts[ct.ID] = ct
	return ct, nil
}

func (f *fakeContactService) GetContact(ctx context.Context, id, userID uuid.UUID) (*contact.Contact, error) {
	ct, ok := f.contacts[id]
	if !ok || ct.UserID != userID {
		return nil, contact.ErrContactNotFound
	}
	return ct, nil
}

func (f *fakeContactService) ListContacts(ctx context.Context, filter contact.ContactFilter) ([]contact.Contact, int64, error) {
	var out []contact.Contact
	for _, ct := range f.contacts {
		if filter.UserID != nil && ct.UserID != *filter.UserID {
			continue
		}
		if filter.EventID != nil && (ct.EventID == nil || *ct.EventID != *filter.EventID) {
			continue
		}
		out = append(out, *ct)
	}
	return out, int64(len(out)), nil
}

func (f *fakeContactService) UpdateContact(ctx context.Context, id, userID uuid.UUID, input contact.UpdateContactInput) (*contact.Contact, error) {
	return f.GetContact(ctx, id, userID)
}

func (f *fakeContactService) DeleteContact(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := f.GetContact(ctx, id, userID); err != nil {
		return err
	}
	delete(f.contacts, id)
	return nil
}

func (f *fakeContactService) DeleteContacts(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if f.DeleteContact(ctx, id, userID) == nil {
			n++
		}
	}
	return n, nil
}

func testUserMiddleware(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func newEventTestRouter(userID uuid.UUID, svc event.Service) *gin.Engine {
	h := NewEventHandler(svc, nil, newFakeActionItemService(), zap.NewNop())
	log := logger.NewNop()

	router := gin.New()
	router.Use(testUserMiddleware(userID))
	router.GET("/api/events", response.Wrap(log, h.List))
	router.POST("/api/events", response.Wrap(log, h.Create))
	router.PUT("/api/events/:id", response.Wrap(log, h.Update))
	return router
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestListEventsEmptyIsSuccessWithEmptyArray(t *testing.T) {
	router := newEventTestRouter(uuid.New(), newFakeEventService())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	data, ok := env.Data.([]interface{})
	require.True(t, ok, "data must be a JSON array, got %T", env.Data)
	assert.Empty(t, data)
}

func TestCreateEventReturns201(t *testing.T) {
	router := newEventTestRouter(uuid.New(), newFakeEventService())

	body := bytes.NewBufferString(`{"title":"GopherCon"}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestUpdateEventEmptyBodyIsBadRequest(t *testing.T) {
	userID := uuid.New()
	svc := newFakeEventService()
	created, err := svc.CreateEvent(context.Background(), event.CreateEventInput{Title: "Meetup", UserID: userID})
	require.NoError(t, err)

	router := newEventTestRouter(userID, svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/events/"+created.ID.String(), bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeBadRequest, env.Error.Code)

	// The row is untouched.
	got, err := svc.GetEvent(context.Background(), created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "Meetup", got.Title)
}

func TestUpdateForeignEventIsNotFound(t *testing.T) {
	owner := uuid.New()
	svc := newFakeEventService()
	created, err := svc.CreateEvent(context.Background(), event.CreateEventInput{Title: "Meetup", UserID: owner})
	require.NoError(t, err)

	// Router authenticated as a different user.
	router := newEventTestRouter(uuid.New(), svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/events/"+created.ID.String(), bytes.NewBufferString(`{"title":"Hijacked"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeNotFound, env.Error.Code)
}

// Create an event, attach a contact to it, then list contacts filtered by
// that event.
func TestEventContactFilteredListFlow(t *testing.T) {
	userID := uuid.New()
	eventSvc := newFakeEventService()
	contactSvc := newFakeContactService()

	eventHandler := NewEventHandler(eventSvc, contactSvc, newFakeActionItemService(), zap.NewNop())
	contactHandler := NewContactHandler(contactSvc, zap.NewNop())
	log := logger.NewNop()

	router := gin.New()
	router.Use(testUserMiddleware(userID))
	router.POST("/api/events", response.Wrap(log, eventHandler.Create))
	router.POST("/api/contacts", response.Wrap(log, contactHandler.Create))
	router.GET("/api/contacts", response.Wrap(log, contactHandler.List))

	// Create the event.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(`{"title":"GopherCon"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var createdEvent event.Event
	env := decodeEnvelope(t, rec)
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &createdEvent))

	// Attach a contact, plus one unrelated contact.
	body := fmt.Sprintf(`{"name":"Dana","event_id":%q}`, createdEvent.ID)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/contacts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/contacts", bytes.NewBufferString(`{"name":"Riley"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Filtered list returns only the attached contact.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/contacts?event_id="+createdEvent.ID.String(), nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	env = decodeEnvelope(t, rec)
	data, ok := env.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	first, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Dana", first["name"])
}

func newActionItemTestRouter(userID uuid.UUID, svc actionitem.Service) *gin.Engine {
	h := NewActionItemHandler(svc, zap.NewNop())
	log := logger.NewNop()

	router := gin.New()
	router.Use(testUserMiddleware(userID))
	router.PATCH("/api/action-items/:id/complete", response.Wrap(log, h.Complete))
	return router
}

func TestCompleteRequiresStrictPayload(t *testing.T) {
	userID := uuid.New()
	svc := newFakeActionItemService()
	item, err := svc.CreateActionItem(context.Background(), actionitem.CreateActionItemInput{Title: "Follow up", UserID: userID})
	require.NoError(t, err)

	router := newActionItemTestRouter(userID, svc)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid true", `{"completed":true}`, http.StatusOK},
		{"valid false", `{"completed":false}`, http.StatusOK},
		{"missing field", `{}`, http.StatusBadRequest},
		{"wrong type", `{"completed":"yes"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/api/action-items/"+item.ID.String()+"/complete", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

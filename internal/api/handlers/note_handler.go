package handlers

import (
	"github.com/Daesol/touchgrass-sub000/internal/api/dto"
	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/note"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NoteHandler struct {
	notes  note.Service
	logger *zap.Logger
}

func NewNoteHandler(notes note.Service, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// List returns the caller's notes, optionally scoped to one contact.
// @Summary List notes
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	filter := note.NoteFilter{UserID: &userID}
	if filter.ContactID, err = parseOptionalIDQuery(c, "contact_id"); err != nil {
		return nil, err
	}

	notes, total, err := h.notes.ListNotes(c.Request.Context(), filter)
	if err != nil {
		return nil, mapDomainError(err)
	}
	if notes == nil {
		notes = []note.Note{}
	}

	return response.OK(notes).WithMeta(dto.ListMeta{Total: total}), nil
}

// Create creates a note on an owned contact.
// @Summary Create a note
// @Router /api/notes [post]
func (h *NoteHandler) Create(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}

	var input note.CreateNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	input.UserID = userID

	created, err := h.notes.CreateNote(c.Request.Context(), input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.Created(created), nil
}

// Get returns a single owned note.
// @Summary Get a note
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.notes.GetNote(c.Request.Context(), id, userID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(found), nil
}

// Update applies a partial update to an owned note.
// @Summary Update a note
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var input note.UpdateNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, response.BadRequest("invalid request body")
	}
	if input.IsEmpty() {
		return nil, response.BadRequest("update payload is empty")
	}

	updated, err := h.notes.UpdateNote(c.Request.Context(), id, userID, input)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(updated), nil
}

// Delete removes an owned note.
// @Summary Delete a note
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) (*response.Result, error) {
	userID, err := requireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	if err := h.notes.DeleteNote(c.Request.Context(), id, userID); err != nil {
		return nil, mapDomainError(err)
	}

	return response.OK(gin.H{"deleted": true}), nil
}

package handlers

import (
	"errors"

	"github.com/Daesol/touchgrass-sub000/internal/api/response"
	"github.com/Daesol/touchgrass-sub000/internal/domain/actionitem"
	"github.com/Daesol/touchgrass-sub000/internal/domain/contact"
	"github.com/Daesol/touchgrass-sub000/internal/domain/event"
	"github.com/Daesol/touchgrass-sub000/internal/domain/note"
	"github.com/Daesol/touchgrass-sub000/internal/domain/profile"
	"github.com/Daesol/touchgrass-sub000/internal/domain/user"
)

// mapDomainError converts domain sentinels into coded responses. Anything
// unrecognized passes through for the wrapper to treat as internal.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		return response.NotFound("event not found")
	case errors.Is(err, contact.ErrContactNotFound):
		return response.NotFound("contact not found")
	case errors.Is(err, actionitem.ErrActionItemNotFound):
		return response.NotFound("action item not found")
	case errors.Is(err, note.ErrNoteNotFound):
		return response.NotFound("note not found")
	case errors.Is(err, profile.ErrProfileNotFound):
		return response.NotFound("profile not found")
	case errors.Is(err, user.ErrUserNotFound):
		return response.NotFound("user not found")
	case errors.Is(err, event.ErrInvalidInput),
		errors.Is(err, contact.ErrInvalidInput),
		errors.Is(err, actionitem.ErrInvalidInput),
		errors.Is(err, note.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput):
		return response.Validation(err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		return response.Validation("email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		return response.Unauthorized("invalid email or password")
	default:
		return err
	}
}

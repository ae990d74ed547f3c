package note

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note represents a free-form note about a contact
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null;index" json:"contact_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:current_timestamp;autoUpdateTime" json:"updated_at"`
}

// Common errors
var (
	ErrInvalidInput = NewError("invalid note input")
)

// Error represents a domain error
type Error struct {
	message string
}

// NewError creates a new Error instance
func NewError(message string) *Error {
	return &Error{message: message}
}

func (e *Error) Error() string {
	return e.message
}

func (Note) TableName() string {
	return "notes"
}

// Validate checks if the note data is valid
func (n *Note) Validate() error {
	if n.Content == "" {
		return ErrInvalidInput
	}
	if n.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	if n.ContactID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new note record
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	return n.Validate()
}

// BeforeUpdate is called before updating a note record
func (n *Note) BeforeUpdate(tx *gorm.DB) error {
	n.UpdatedAt = time.Now()
	return n.Validate()
}

type NoteFilter struct {
	UserID    *uuid.UUID
	ContactID *uuid.UUID
	Page      int
	PageSize  int
}

package actionitem

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionItem represents a follow-up task tied to a contact or event
type ActionItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ContactID   *uuid.UUID `gorm:"type:uuid;index" json:"contact_id"`
	EventID     *uuid.UUID `gorm:"type:uuid;index" json:"event_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	IsCompleted bool       `gorm:"not null;default:false;index" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:current_timestamp;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:current_timestamp;autoUpdateTime" json:"updated_at"`
}

// Common errors
var (
	ErrInvalidInput = NewError("invalid action item input")
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

func (ActionItem) TableName() string {
	return "action_items"
}

// Validate checks if the action item data is valid
func (a *ActionItem) Validate() error {
	if a.Title == "" {
		return ErrInvalidInput
	}
	if a.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new action item record
func (a *ActionItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	return a.Validate()
}

// BeforeUpdate is called before updating an action item record
func (a *ActionItem) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()

	if a.IsCompleted && a.CompletedAt == nil {
		now := time.Now()
		a.CompletedAt = &now
	}

	return a.Validate()
}

type ActionItemFilter struct {
	UserID      *uuid.UUID
	ContactID   *uuid.UUID
	EventID     *uuid.UUID
	IsCompleted *bool
	Page        int
	PageSize    int
}

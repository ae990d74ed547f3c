package contact

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoiceMemo holds the recorded-introduction payload attached to a contact
type VoiceMemo struct {
	URL        string   `json:"url"`
	Transcript string   `json:"transcript"`
	KeyPoints  []string `json:"key_points"`
}

// Contact represents a person met at a networking event
type Contact struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID     *uuid.UUID `gorm:"type:uuid;index" json:"event_id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Position    string     `gorm:"size:255" json:"position"`
	Company     string     `gorm:"size:255" json:"company"`
	Summary     string     `gorm:"type:text" json:"summary"`
	LinkedInURL string     `gorm:"size:512" json:"linkedin_url"`
	VoiceMemo   *VoiceMemo `gorm:"type:jsonb;serializer:json" json:"voice_memo,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:current_timestamp;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:current_timestamp;autoUpdateTime" json:"updated_at"`
}

// Common errors
var (
	ErrInvalidInput = NewError("invalid contact input")
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

func (Contact) TableName() string {
	return "contacts"
}

// Validate checks if the contact data is valid
func (c *Contact) Validate() error {
	if c.Name == "" {
		return ErrInvalidInput
	}
	if c.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new contact record
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	return c.Validate()
}

// BeforeUpdate is called before updating a contact record
func (c *Contact) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return c.Validate()
}

type ContactFilter struct {
	UserID   *uuid.UUID
	EventID  *uuid.UUID
	Company  *string
	Page     int
	PageSize int
}

package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event represents a networking event a user attended
type Event struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Location   string     `gorm:"size:255" json:"location"`
	Company    string     `gorm:"size:255" json:"company"`
	Date       *time.Time `gorm:"index" json:"date"`
	ColorIndex string     `gorm:"size:20" json:"color_index"`
	CreatedAt  time.Time  `gorm:"not null;default:current_timestamp;index" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:current_timestamp;autoUpdateTime" json:"updated_at"`
}

// Common errors
var (
	ErrInvalidInput = NewError("invalid event input")
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

func (Event) TableName() string {
	return "events"
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrInvalidInput
	}
	if e.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new event record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	return e.Validate()
}

// BeforeUpdate is called before updating an event record
func (e *Event) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return e.Validate()
}

type EventFilter struct {
	UserID    *uuid.UUID
	Company   *string
	DateStart *time.Time
	DateEnd   *time.Time
	Page      int
	PageSize  int
}

package profile

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile holds a user's public-facing profile. The row shares its primary
// key with the owning user and is created lazily on the first profile write.
type Profile struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	FirstName   string         `gorm:"size:100" json:"first_name"`
	LastName    string         `gorm:"size:100" json:"last_name"`
	DisplayName string         `gorm:"size:200" json:"display_name"`
	AvatarURL   string         `gorm:"size:512" json:"avatar_url"`
	JobTitle    string         `gorm:"size:255" json:"job_title"`
	Company     string         `gorm:"size:255" json:"company"`
	Bio         string         `gorm:"type:text" json:"bio"`
	SocialLinks datatypes.JSON `gorm:"type:jsonb" json:"social_links,omitempty"`
	Preferences datatypes.JSON `gorm:"type:jsonb" json:"preferences,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:current_timestamp;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate is called before creating a new profile record
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate is called before updating a profile record
func (p *Profile) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

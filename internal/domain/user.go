package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName     string    `json:"fullName" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`

	AvatarURL     string `json:"avatar" gorm:"not null"`
	AvatarKey     string `json:"-" gorm:"not null"`
	CoverImageURL string `json:"coverImage"`
	CoverImageKey string `json:"-"`

	// The most recently issued refresh token, or nil when logged out.
	// A presented refresh token must match this value exactly to be honored.
	RefreshToken *string `json:"-"`

	// Ordered video IDs, most recent last.
	WatchHistory datatypes.JSON `json:"watchHistory" gorm:"type:jsonb;default:'[]'"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitized returns a copy with the credential fields cleared.
func (u User) Sanitized() *User {
	u.PasswordHash = ""
	u.RefreshToken = nil
	return &u
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID      uuid.UUID `json:"ownerId" gorm:"type:uuid;index;not null"`
	Title        string    `json:"title" gorm:"not null"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     int       `json:"duration"` // seconds
	CreatedAt    time.Time `json:"createdAt"`

	// Relations
	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

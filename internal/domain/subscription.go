package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is a directed edge: subscriber follows channel.
type Subscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ChannelID    uuid.UUID `json:"channelId" gorm:"type:uuid;not null;uniqueIndex:idx_channel_subscriber"`
	SubscriberID uuid.UUID `json:"subscriberId" gorm:"type:uuid;not null;uniqueIndex:idx_channel_subscriber"`
	CreatedAt    time.Time `json:"createdAt"`

	// Relations
	Channel    *User `json:"channel,omitempty" gorm:"foreignKey:ChannelID"`
	Subscriber *User `json:"subscriber,omitempty" gorm:"foreignKey:SubscriberID"`
}

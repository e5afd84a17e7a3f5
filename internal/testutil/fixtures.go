package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kshitij/vidtube/internal/domain"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username     string
	email        string
	fullName     string
	password     string
	refreshToken *string
	watchHistory []uuid.UUID
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		fullName: "Test User",
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.fullName = name
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithRefreshToken(token string) *UserBuilder {
	b.refreshToken = &token
	return b
}

func (b *UserBuilder) WithWatchHistory(videoIDs ...uuid.UUID) *UserBuilder {
	b.watchHistory = videoIDs
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	history := "["
	for i, id := range b.watchHistory {
		if i > 0 {
			history += ","
		}
		history += fmt.Sprintf("%q", id.String())
	}
	history += "]"

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		FullName:     b.fullName,
		PasswordHash: string(hashedPassword),
		AvatarURL:    "http://media.test/avatars/" + b.username,
		AvatarKey:    "avatars/" + b.username,
		RefreshToken: b.refreshToken,
		WatchHistory: datatypes.JSON([]byte(history)),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// CreateVideo inserts a video owned by the given user.
func CreateVideo(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string) *domain.Video {
	t.Helper()

	video := &domain.Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		ThumbnailURL: "http://media.test/thumbnails/" + uuid.New().String(),
		Duration:     120,
		CreatedAt:    time.Now(),
	}

	if err := db.Create(video).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}

	return video
}

// Subscribe creates a subscription edge from subscriber to channel.
func Subscribe(t *testing.T, db *gorm.DB, channelID, subscriberID uuid.UUID) {
	t.Helper()

	sub := &domain.Subscription{
		ID:           uuid.New(),
		ChannelID:    channelID,
		SubscriberID: subscriberID,
		CreatedAt:    time.Now(),
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kshitij/vidtube/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// SetRefreshToken replaces the stored refresh token; nil clears it.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	AppendWatchHistory(ctx context.Context, id uuid.UUID, videoID uuid.UUID) error
}

type SubscriptionRepository interface {
	CountByChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountBySubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	Exists(ctx context.Context, channelID, subscriberID uuid.UUID) (bool, error)
}

type VideoRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Video, error)
}

type Repositories struct {
	User         UserRepository
	Subscription SubscriptionRepository
	Video        VideoRepository
}

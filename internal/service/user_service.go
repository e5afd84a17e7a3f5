package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kshitij/vidtube/internal/domain"
	"github.com/kshitij/vidtube/internal/media"
	"github.com/kshitij/vidtube/internal/repository"
)

var (
	ErrUserExists      = errors.New("user with this username or email already exists")
	ErrMissingFields   = errors.New("all fields are required")
	ErrAvatarRequired  = errors.New("avatar file is required")
	ErrUploadFailed    = errors.New("media upload failed")
	ErrChannelNotFound = errors.New("channel does not exist")
	ErrVideoNotFound   = errors.New("video not found")
)

// UserService covers registration and everything profile-shaped: account
// details, avatar/cover media, public channel profiles and watch history.
type UserService struct {
	userRepo  repository.UserRepository
	subRepo   repository.SubscriptionRepository
	videoRepo repository.VideoRepository
	store     media.Store
}

func NewUserService(
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	videoRepo repository.VideoRepository,
	store media.Store,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		subRepo:   subRepo,
		videoRepo: videoRepo,
		store:     store,
	}
}

// Upload is one incoming file from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Avatar   *Upload
	Cover    *Upload
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	for _, field := range []string{input.Username, input.Email, input.FullName, input.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, ErrMissingFields
		}
	}
	username := strings.ToLower(input.Username)

	existing, err := s.userRepo.GetByUsernameOrEmail(ctx, username)
	if err == nil && existing != nil {
		return nil, ErrUserExists
	}
	if existing, err = s.userRepo.GetByUsernameOrEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, ErrUserExists
	}

	if input.Avatar == nil {
		return nil, ErrAvatarRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	avatar, err := s.store.Upload(ctx, "avatars", input.Avatar.Filename, input.Avatar.ContentType, input.Avatar.Body)
	if err != nil {
		return nil, ErrUploadFailed
	}

	var cover *media.Asset
	if input.Cover != nil {
		cover, err = s.store.Upload(ctx, "covers", input.Cover.Filename, input.Cover.ContentType, input.Cover.Body)
		if err != nil {
			s.deleteAsset(ctx, avatar.Key)
			return nil, ErrUploadFailed
		}
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		AvatarURL:    avatar.URL,
		AvatarKey:    avatar.Key,
		WatchHistory: datatypes.JSON([]byte("[]")),
	}
	if cover != nil {
		user.CoverImageURL = cover.URL
		user.CoverImageKey = cover.Key
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.deleteAsset(ctx, avatar.Key)
		if cover != nil {
			s.deleteAsset(ctx, cover.Key)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user.Sanitized(), nil
}

type UpdateAccountInput struct {
	FullName string
	Email    string
}

// UpdateAccount replaces fullname and/or email; at least one must be given.
func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, input UpdateAccountInput) (*domain.User, error) {
	if input.FullName == "" && input.Email == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Email != "" {
		user.Email = input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user.Sanitized(), nil
}

// UpdateAvatar uploads the replacement first, then deletes the old object.
// A failed delete only leaves an orphan behind, so it is logged and ignored.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload Upload) (*domain.User, error) {
	return s.updateImage(ctx, userID, upload, "avatars", func(u *domain.User, a *media.Asset) string {
		old := u.AvatarKey
		u.AvatarURL = a.URL
		u.AvatarKey = a.Key
		return old
	})
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, upload Upload) (*domain.User, error) {
	return s.updateImage(ctx, userID, upload, "covers", func(u *domain.User, a *media.Asset) string {
		old := u.CoverImageKey
		u.CoverImageURL = a.URL
		u.CoverImageKey = a.Key
		return old
	})
}

func (s *UserService) updateImage(
	ctx context.Context,
	userID uuid.UUID,
	upload Upload,
	folder string,
	swap func(*domain.User, *media.Asset) string,
) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	asset, err := s.store.Upload(ctx, folder, upload.Filename, upload.ContentType, upload.Body)
	if err != nil {
		return nil, ErrUploadFailed
	}

	oldKey := swap(user, asset)

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.deleteAsset(ctx, asset.Key)
		return nil, err
	}

	if oldKey != "" {
		s.deleteAsset(ctx, oldKey)
	}

	return user.Sanitized(), nil
}

func (s *UserService) deleteAsset(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("WARN [UserService] failed to delete media object %s: %v", key, err)
	}
}

// ChannelProfile is the public view of an account.
type ChannelProfile struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	AvatarURL         string    `json:"avatar"`
	CoverImageURL     string    `json:"coverImage"`
	SubscriberCount   int64     `json:"subscribersCount"`
	SubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed      bool      `json:"isSubscribed"`
}

// GetChannelProfile aggregates subscriber counts for one channel and whether
// the viewer subscribes to it. viewerID may be uuid.Nil for anonymous viewers.
func (s *UserService) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*ChannelProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	subscribers, err := s.subRepo.CountByChannel(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	subscribedTo, err := s.subRepo.CountBySubscriber(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID != uuid.Nil {
		isSubscribed, err = s.subRepo.Exists(ctx, user.ID, viewerID)
		if err != nil {
			return nil, err
		}
	}

	return &ChannelProfile{
		ID:                user.ID,
		Username:          user.Username,
		FullName:          user.FullName,
		Email:             user.Email,
		AvatarURL:         user.AvatarURL,
		CoverImageURL:     user.CoverImageURL,
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

// VideoSummary is one watch-history entry with its owner denormalized.
type VideoSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     int       `json:"duration"`
	Owner        struct {
		Username  string `json:"username"`
		FullName  string `json:"fullName"`
		AvatarURL string `json:"avatar"`
	} `json:"owner"`
}

// GetWatchHistory resolves the stored id list to video summaries, preserving
// the stored order. Ids whose video has since been removed are skipped.
func (s *UserService) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]VideoSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var rawIDs []string
	if len(user.WatchHistory) > 0 {
		if err := json.Unmarshal(user.WatchHistory, &rawIDs); err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	videos, err := s.videoRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	history := make([]VideoSummary, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			continue
		}
		summary := VideoSummary{
			ID:           v.ID,
			Title:        v.Title,
			ThumbnailURL: v.ThumbnailURL,
			Duration:     v.Duration,
		}
		if v.Owner != nil {
			summary.Owner.Username = v.Owner.Username
			summary.Owner.FullName = v.Owner.FullName
			summary.Owner.AvatarURL = v.Owner.AvatarURL
		}
		history = append(history, summary)
	}

	return history, nil
}

// AddToWatchHistory appends a video to the account's ordered history.
func (s *UserService) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	videos, err := s.videoRepo.GetByIDs(ctx, []uuid.UUID{videoID})
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return ErrVideoNotFound
	}

	if err := s.userRepo.AppendWatchHistory(ctx, userID, videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

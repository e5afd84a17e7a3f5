package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kshitij/vidtube/internal/domain"
	"github.com/kshitij/vidtube/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRequest     = errors.New("old and new password are required")
	ErrWrongPassword      = errors.New("wrong password")
	ErrSamePassword       = errors.New("new password must be different from the current password")
)

// AuthService owns the session lifecycle: login issues a token pair and
// persists the refresh token, refresh rotates it, logout clears it.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type LoginInput struct {
	Identifier string // username or email
	Password   string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Logout clears the stored refresh token. Logging out an already
// logged-out account succeeds.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	err := s.userRepo.SetRefreshToken(ctx, userID, nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// Refresh exchanges a valid, current refresh token for a new pair. The
// presented token must match the stored value exactly; a rotated-away token
// fails here, which is what makes refresh tokens single-use.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*AuthResult, error) {
	if presented == "" {
		return nil, ErrInvalidToken
	}

	userID, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		// Expired or already used
		return nil, ErrInvalidToken
	}

	return s.issueSession(ctx, user)
}

// ChangePassword replaces the password hash and clears the stored refresh
// token, so every open session has to log in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrInvalidRequest
	}

	// Identical passwords are rejected before the old one is verified.
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetPassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	return s.userRepo.SetRefreshToken(ctx, userID, nil)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	access, refresh, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user.Sanitized(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

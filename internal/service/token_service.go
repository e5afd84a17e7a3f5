package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kshitij/vidtube/internal/config"
)

// ErrInvalidToken covers malformed, badly signed and expired tokens alike;
// callers never need to tell them apart.
var ErrInvalidToken = errors.New("invalid token")

type tokenKind int

const (
	accessToken tokenKind = iota
	refreshToken
)

// Claims carries the account id on top of the registered claim set.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenService mints and verifies the access/refresh token pair. Access and
// refresh tokens are signed with distinct secrets so leaking one cannot forge
// the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// Issue returns a signed (access, refresh) pair for the given account.
func (s *TokenService) Issue(userID uuid.UUID) (string, string, error) {
	access, err := s.sign(userID, accessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.sign(userID, refreshToken)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyAccess checks signature and expiry of an access token and returns the
// account id it was issued for.
func (s *TokenService) VerifyAccess(token string) (uuid.UUID, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefresh is VerifyAccess for refresh tokens.
func (s *TokenService) VerifyRefresh(token string) (uuid.UUID, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) sign(userID uuid.UUID, kind tokenKind) (string, error) {
	secret, ttl := s.accessSecret, s.accessTTL
	if kind == refreshToken {
		secret, ttl = s.refreshSecret, s.refreshTTL
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
		UserID: userID.String(),
	})

	return token.SignedString(secret)
}

func (s *TokenService) verify(tokenString string, secret []byte) (uuid.UUID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

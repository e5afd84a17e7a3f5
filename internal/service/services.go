package service

import (
	"github.com/kshitij/vidtube/internal/config"
	"github.com/kshitij/vidtube/internal/media"
	"github.com/kshitij/vidtube/internal/repository"
)

type Services struct {
	Token *TokenService
	Auth  *AuthService
	User  *UserService
}

func NewServices(repos *repository.Repositories, store media.Store, cfg *config.Config) *Services {
	tokens := NewTokenService(cfg)
	return &Services{
		Token: tokens,
		Auth:  NewAuthService(repos.User, tokens),
		User:  NewUserService(repos.User, repos.Subscription, repos.Video, store),
	}
}

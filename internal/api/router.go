package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kshitij/vidtube/internal/api/handlers"
	"github.com/kshitij/vidtube/internal/api/middleware"
	"github.com/kshitij/vidtube/internal/config"
	"github.com/kshitij/vidtube/internal/metrics"
	"github.com/kshitij/vidtube/internal/service"
)

func NewRouter(services *service.Services, collector *metrics.Collector, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(collector.Middleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Method(http.MethodGet, "/metrics", collector.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, collector, cfg)
	userHandler := handlers.NewUserHandler(services.User, cfg)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)

	// API v1 routes
	r.Route("/api/v1/users", func(r chi.Router) {
		// Public routes
		r.Post("/register", userHandler.Register)
		r.With(loginLimiter.Middleware).Post("/login", authHandler.Login)

		// Refresh only needs a valid refresh token unless configured otherwise.
		if cfg.RefreshRequiresAuth {
			r.With(middleware.Auth(services.Token)).Post("/refresh-token", authHandler.RefreshToken)
		} else {
			r.Post("/refresh-token", authHandler.RefreshToken)
		}

		// Channel profiles are public; a logged-in viewer additionally gets
		// their isSubscribed flag.
		r.With(middleware.OptionalAuth(services.Token)).Get("/c/{username}", userHandler.GetChannelProfile)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Token))
			r.Post("/logout", authHandler.Logout)
			r.Post("/changePassword", authHandler.ChangePassword)
			r.Post("/getCurrentUser", authHandler.GetCurrentUser)
			r.Post("/updateAccountDetails", userHandler.UpdateAccountDetails)
			r.Post("/updateAvatar", userHandler.UpdateAvatar)
			r.Post("/updateCoverImage", userHandler.UpdateCoverImage)
			r.Get("/history", userHandler.GetWatchHistory)
			r.Post("/history", userHandler.AddToWatchHistory)
		})
	})

	return r
}

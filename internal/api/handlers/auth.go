package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kshitij/vidtube/internal/api/middleware"
	"github.com/kshitij/vidtube/internal/api/respond"
	"github.com/kshitij/vidtube/internal/config"
	"github.com/kshitij/vidtube/internal/metrics"
	"github.com/kshitij/vidtube/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	metrics     *metrics.Collector
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, collector *metrics.Collector, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: collector, cfg: cfg}
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UsernameOrEmail == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Username or email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Identifier: req.UsernameOrEmail,
		Password:   req.Password,
	})
	h.metrics.RecordLogin(err == nil)
	if err != nil {
		serviceError(w, err)
		return
	}

	setAuthCookies(w, result.AccessToken, result.RefreshToken, h.cfg.CookieSecure)
	respond.JSON(w, http.StatusOK, LoginResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		serviceError(w, err)
		return
	}

	clearAuthCookies(w, h.cfg.CookieSecure)
	respond.JSON(w, http.StatusOK, struct{}{}, "User logged out successfully")
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	h.metrics.RecordRefresh(err == nil)
	if err != nil {
		serviceError(w, err)
		return
	}

	setAuthCookies(w, result.AccessToken, result.RefreshToken, h.cfg.CookieSecure)
	respond.JSON(w, http.StatusOK, TokenPairResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "Access token refreshed")
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, struct{}{}, "Password changed successfully")
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "Current user fetched successfully")
}

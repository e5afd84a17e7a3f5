package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kshitij/vidtube/internal/api/middleware"
	"github.com/kshitij/vidtube/internal/api/respond"
	"github.com/kshitij/vidtube/internal/config"
	"github.com/kshitij/vidtube/internal/domain"
	"github.com/kshitij/vidtube/internal/service"
)

const maxUploadBytes = 16 << 20 // 16 MiB for a multipart request

type UserHandler struct {
	userService *service.UserService
	cfg         *config.Config
}

func NewUserHandler(userService *service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{userService: userService, cfg: cfg}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	input := service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("fullname"),
		Password: r.FormValue("password"),
	}

	if avatar, closeAvatar, err := formUpload(r, "avatar"); err == nil {
		defer closeAvatar()
		input.Avatar = avatar
	}

	if cover, closeCover, err := formUpload(r, "coverImage"); err == nil {
		defer closeCover()
		input.Cover = cover
	}

	user, err := h.userService.Register(r.Context(), input)
	if err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, user, "User created successfully")
}

type UpdateAccountRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

func (h *UserHandler) UpdateAccountDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateAccount(r.Context(), userID, service.UpdateAccountInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.userService.UpdateAvatar, "Avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.userService.UpdateCoverImage, "Cover image updated successfully")
}

func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID uuid.UUID, upload service.Upload) (*domain.User, error),
	message string,
) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	upload, closeFile, err := formUpload(r, field)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, field+" file is missing")
		return
	}
	defer closeFile()

	user, err := update(r.Context(), userID, *upload)
	if err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, message)
}

func (h *UserHandler) GetChannelProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		respond.Error(w, http.StatusBadRequest, "Username is required")
		return
	}

	viewerID, _ := middleware.GetUserID(r.Context())

	profile, err := h.userService.GetChannelProfile(r.Context(), username, viewerID)
	if err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, profile, "User channel fetched successfully")
}

func (h *UserHandler) GetWatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	history, err := h.userService.GetWatchHistory(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, history, "Watch history fetched successfully")
}

type AddWatchHistoryRequest struct {
	VideoID string `json:"videoId"`
}

func (h *UserHandler) AddToWatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req AddWatchHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid video id")
		return
	}

	if err := h.userService.AddToWatchHistory(r.Context(), userID, videoID); err != nil {
		serviceError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, struct{}{}, "Watch history updated successfully")
}

// formUpload pulls one file out of a parsed multipart form.
func formUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, err
	}

	upload := &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}

	return upload, func() { file.Close() }, nil
}

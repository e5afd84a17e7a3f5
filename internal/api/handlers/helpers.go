package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/kshitij/vidtube/internal/api/respond"
	"github.com/kshitij/vidtube/internal/service"
)

// serviceError translates service failures into the failure envelope. Anything
// unrecognized is a dependency failure and reported as a generic 500 so no
// internal detail leaks to the caller.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrAvatarRequired),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrSamePassword):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrUserNotFound):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserExists):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrChannelNotFound),
		errors.Is(err, service.ErrVideoNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		respond.Error(w, http.StatusInternalServerError, err.Error())
	default:
		log.Printf("ERROR [handlers] %v", err)
		respond.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, secure bool) {
	http.SetCookie(w, authCookie("accessToken", accessToken, secure, 0))
	http.SetCookie(w, authCookie("refreshToken", refreshToken, secure, 0))
}

func clearAuthCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, authCookie("accessToken", "", secure, -1))
	http.SetCookie(w, authCookie("refreshToken", "", secure, -1))
}

func authCookie(name, value string, secure bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

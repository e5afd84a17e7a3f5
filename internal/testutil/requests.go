package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// RegisterForm is the multipart payload for /register.
type RegisterForm struct {
	Username string
	Email    string
	FullName string
	Password string
	Avatar   []byte // nil omits the file part
	Cover    []byte
}

// PostRegister submits a multipart registration request.
func PostRegister(t *testing.T, ts *TestServer, form RegisterForm) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"username": form.Username,
		"email":    form.Email,
		"fullname": form.FullName,
		"password": form.Password,
	}
	for name, value := range fields {
		if value != "" {
			require.NoError(t, mw.WriteField(name, value))
		}
	}

	if form.Avatar != nil {
		part, err := mw.CreateFormFile("avatar", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write(form.Avatar)
		require.NoError(t, err)
	}
	if form.Cover != nil {
		part, err := mw.CreateFormFile("coverImage", "cover.png")
		require.NoError(t, err)
		_, err = part.Write(form.Cover)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.APIURL("/register"), mw.FormDataContentType(), &buf)
	require.NoError(t, err)

	return resp
}

// PostJSON submits a JSON POST, optionally with a bearer token.
func PostJSON(t *testing.T, ts *TestServer, path, token string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.APIURL(path), bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// GetJSON submits a GET, optionally with a bearer token.
func GetJSON(t *testing.T, ts *TestServer, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.APIURL(path), nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// Login authenticates via the API and returns the auth payload.
func Login(t *testing.T, ts *TestServer, identifier, password string) *AuthData {
	t.Helper()

	resp := PostJSON(t, ts, "/login", "", map[string]string{
		"usernameOrEmail": identifier,
		"password":        password,
	})
	defer resp.Body.Close()

	var data AuthData
	AssertSuccess(t, resp, http.StatusOK, &data)

	return &data
}

package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API's response envelope.
type Envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Errors  []string        `json:"errors"`
}

// AuthData is the data payload of login responses.
type AuthData struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenPairData is the data payload of refresh responses.
type TokenPairData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// DecodeEnvelope reads the body and unmarshals the envelope.
func DecodeEnvelope(t *testing.T, resp *http.Response) *Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	err = json.Unmarshal(body, &env)
	require.NoError(t, err, "failed to unmarshal envelope: %s", string(body))

	return &env
}

// AssertSuccess verifies status code and success envelope, decoding data into v
// when v is non-nil.
func AssertSuccess(t *testing.T, resp *http.Response, expectedStatus int, v interface{}) *Envelope {
	t.Helper()

	env := DecodeEnvelope(t, resp)
	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")
	assert.True(t, env.Success, "expected success envelope, got message: %s", env.Message)
	assert.Equal(t, expectedStatus, env.Status, "envelope status mismatch")

	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v), "failed to decode envelope data")
	}

	return env
}

// AssertFailure verifies status code and failure envelope.
func AssertFailure(t *testing.T, resp *http.Response, expectedStatus int) *Envelope {
	t.Helper()

	env := DecodeEnvelope(t, resp)
	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")
	assert.False(t, env.Success, "expected failure envelope")
	assert.Equal(t, expectedStatus, env.Status, "envelope status mismatch")
	assert.NotNil(t, env.Errors, "failure envelope must carry an errors array")

	return env
}

// CookieValue returns the named cookie set by the response, or "".
func CookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

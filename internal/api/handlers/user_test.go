package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kshitij/vidtube/internal/testutil"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfakeimagedata")

func TestUserHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		form           testutil.RegisterForm
		expectedStatus int
	}{
		{
			name: "successful registration",
			form: testutil.RegisterForm{
				Username: "newuser",
				Email:    "newuser@example.com",
				FullName: "New User",
				Password: "password123",
				Avatar:   pngBytes,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "with cover image",
			form: testutil.RegisterForm{
				Username: "coveruser",
				Email:    "coveruser@example.com",
				FullName: "Cover User",
				Password: "password123",
				Avatar:   pngBytes,
				Cover:    pngBytes,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing avatar",
			form: testutil.RegisterForm{
				Username: "noavatar",
				Email:    "noavatar@example.com",
				FullName: "No Avatar",
				Password: "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			form: testutil.RegisterForm{
				Username: "nopassword",
				Email:    "nopassword@example.com",
				FullName: "No Password",
				Avatar:   pngBytes,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			form: testutil.RegisterForm{
				Username: "newuser",
				Email:    "different@example.com",
				FullName: "Duplicate",
				Password: "password123",
				Avatar:   pngBytes,
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "duplicate email",
			form: testutil.RegisterForm{
				Username: "different",
				Email:    "newuser@example.com",
				FullName: "Duplicate",
				Password: "password123",
				Avatar:   pngBytes,
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.PostRegister(t, ts, tt.form)
			defer resp.Body.Close()

			if tt.expectedStatus != http.StatusCreated {
				testutil.AssertFailure(t, resp, tt.expectedStatus)
				return
			}

			var created struct {
				ID        string `json:"id"`
				Username  string `json:"username"`
				Email     string `json:"email"`
				AvatarURL string `json:"avatar"`
			}
			env := testutil.AssertSuccess(t, resp, http.StatusCreated, &created)
			assert.Equal(t, tt.form.Username, created.Username)
			assert.NotEmpty(t, created.ID)
			assert.NotEmpty(t, created.AvatarURL)
			assert.NotContains(t, string(env.Data), "passwordHash")
			assert.NotContains(t, string(env.Data), "refreshToken")
		})
	}
}

func TestUserHandler_RegisterStoresUploads(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.PostRegister(t, ts, testutil.RegisterForm{
		Username: "uploader",
		Email:    "uploader@example.com",
		FullName: "Uploader",
		Password: "password123",
		Avatar:   pngBytes,
		Cover:    pngBytes,
	})
	defer resp.Body.Close()

	testutil.AssertSuccess(t, resp, http.StatusCreated, nil)
	assert.Equal(t, 2, ts.Media.Count())
}

func TestUserHandler_UpdateAccountDetails(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	login := testutil.Login(t, ts, user.Username, rawPassword)

	resp := testutil.PostJSON(t, ts, "/updateAccountDetails", login.AccessToken, map[string]string{
		"fullname": "Renamed User",
	})
	defer resp.Body.Close()

	var updated struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	testutil.AssertSuccess(t, resp, http.StatusOK, &updated)
	assert.Equal(t, "Renamed User", updated.FullName)
	assert.Equal(t, user.Email, updated.Email, "untouched fields stay")
}

func TestUserHandler_UpdateAccountDetailsRequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.PostJSON(t, ts, "/updateAccountDetails", "", map[string]string{
		"fullname": "Anonymous",
	})
	defer resp.Body.Close()

	testutil.AssertFailure(t, resp, http.StatusUnauthorized)
}

func TestUserHandler_GetChannelProfile(t *testing.T) {
	ts := testutil.NewTestServer(t)

	channel, _ := testutil.NewUserBuilder().
		WithUsername("channelowner").
		WithEmail("owner@example.com").
		Build(t, ts.DB.DB)
	viewer, viewerPassword := testutil.NewUserBuilder().
		WithUsername("viewer").
		WithEmail("viewer@example.com").
		Build(t, ts.DB.DB)

	testutil.Subscribe(t, ts.DB.DB, channel.ID, viewer.ID)
	testutil.Subscribe(t, ts.DB.DB, viewer.ID, channel.ID)

	login := testutil.Login(t, ts, viewer.Username, viewerPassword)

	type profile struct {
		Username        string `json:"username"`
		SubscriberCount int64  `json:"subscribersCount"`
		SubscribedTo    int64  `json:"channelsSubscribedToCount"`
		IsSubscribed    bool   `json:"isSubscribed"`
	}

	t.Run("authenticated subscriber", func(t *testing.T) {
		resp := testutil.GetJSON(t, ts, "/c/channelowner", login.AccessToken)
		defer resp.Body.Close()

		var p profile
		testutil.AssertSuccess(t, resp, http.StatusOK, &p)
		assert.Equal(t, "channelowner", p.Username)
		assert.Equal(t, int64(1), p.SubscriberCount)
		assert.Equal(t, int64(1), p.SubscribedTo)
		assert.True(t, p.IsSubscribed)
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		resp := testutil.GetJSON(t, ts, "/c/channelowner", "")
		defer resp.Body.Close()

		var p profile
		testutil.AssertSuccess(t, resp, http.StatusOK, &p)
		assert.False(t, p.IsSubscribed)
	})

	t.Run("unknown channel", func(t *testing.T) {
		resp := testutil.GetJSON(t, ts, "/c/ghost", login.AccessToken)
		defer resp.Body.Close()

		testutil.AssertFailure(t, resp, http.StatusNotFound)
	})
}

func TestUserHandler_WatchHistory(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, _ := testutil.NewUserBuilder().
		WithUsername("creator").
		WithEmail("creator@example.com").
		Build(t, ts.DB.DB)
	watcher, watcherPassword := testutil.NewUserBuilder().
		WithUsername("watcher").
		WithEmail("watcher@example.com").
		Build(t, ts.DB.DB)

	first := testutil.CreateVideo(t, ts.DB.DB, owner.ID, "First Video")
	second := testutil.CreateVideo(t, ts.DB.DB, owner.ID, "Second Video")

	login := testutil.Login(t, ts, watcher.Username, watcherPassword)

	for _, id := range []string{first.ID.String(), second.ID.String()} {
		resp := testutil.PostJSON(t, ts, "/history", login.AccessToken, map[string]string{
			"videoId": id,
		})
		testutil.AssertSuccess(t, resp, http.StatusOK, nil)
		resp.Body.Close()
	}

	resp := testutil.GetJSON(t, ts, "/history", login.AccessToken)
	defer resp.Body.Close()

	var history []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Owner struct {
			Username string `json:"username"`
		} `json:"owner"`
	}
	testutil.AssertSuccess(t, resp, http.StatusOK, &history)
	assert.Len(t, history, 2)
	assert.Equal(t, "First Video", history[0].Title)
	assert.Equal(t, "Second Video", history[1].Title)
	assert.Equal(t, owner.Username, history[0].Owner.Username)
}

func TestUserHandler_AddToWatchHistoryValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	login := testutil.Login(t, ts, user.Username, rawPassword)

	tests := []struct {
		name           string
		videoID        string
		expectedStatus int
	}{
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
		{"unknown video", "11111111-2222-3333-4444-555555555555", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.PostJSON(t, ts, "/history", login.AccessToken, map[string]string{
				"videoId": tt.videoID,
			})
			defer resp.Body.Close()

			testutil.AssertFailure(t, resp, tt.expectedStatus)
		})
	}
}

func TestUserHandler_RegisterTrimsAndLowercases(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.PostRegister(t, ts, testutil.RegisterForm{
		Username: "MixedCase",
		Email:    "mixed@example.com",
		FullName: "Mixed Case",
		Password: "password123",
		Avatar:   pngBytes,
	})
	defer resp.Body.Close()

	var created struct {
		Username string `json:"username"`
	}
	testutil.AssertSuccess(t, resp, http.StatusCreated, &created)
	assert.Equal(t, "mixedcase", created.Username)

	// The stored lowercase username is the login identifier.
	login := testutil.PostJSON(t, ts, "/login", "", map[string]string{
		"usernameOrEmail": "mixedcase",
		"password":        "password123",
	})
	defer login.Body.Close()
	testutil.AssertSuccess(t, login, http.StatusOK, nil)
}

func TestUserHandler_HealthAndMetrics(t *testing.T) {
	ts := testutil.NewTestServer(t)

	health, err := http.Get(ts.BaseURL() + "/health")
	assert.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	metrics, err := http.Get(ts.BaseURL() + "/metrics")
	assert.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}

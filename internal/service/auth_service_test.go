package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kshitij/vidtube/internal/repository/postgres"
	"github.com/kshitij/vidtube/internal/service"
	"github.com/kshitij/vidtube/internal/testutil"
)

func newAuthService(t *testing.T) (*service.AuthService, *testutil.TestDB) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	tokens := service.NewTokenService(testutil.TestConfig())

	return service.NewAuthService(repos.User, tokens), testDB
}

func TestAuthService_Login(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithEmail("loginuser@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "login by username",
			input: service.LoginInput{Identifier: user.Username, Password: rawPassword},
		},
		{
			name:  "login by email",
			input: service.LoginInput{Identifier: user.Email, Password: rawPassword},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Identifier: user.Username, Password: "wrongpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "unknown identifier",
			input:   service.LoginInput{Identifier: "nonexistent", Password: "anypassword"},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.Empty(t, result.User.PasswordHash)
			assert.Nil(t, result.User.RefreshToken)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}
}

func TestAuthService_LoginIssuesDistinctRefreshTokens(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	input := service.LoginInput{Identifier: user.Username, Password: rawPassword}

	first, err := authService.Login(ctx, input)
	require.NoError(t, err)
	second, err := authService.Login(ctx, input)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestAuthService_FailedLoginDoesNotTouchStoredToken(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	result, err := authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: rawPassword})
	require.NoError(t, err)

	_, err = authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: "wrongpassword"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	// The session created by the successful login must still be usable.
	refreshed, err := authService.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	login, err := authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: rawPassword})
	require.NoError(t, err)

	// First use succeeds and rotates.
	refreshed, err := authService.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Replaying the consumed token fails.
	_, err = authService.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// The rotated-in token still works.
	_, err = authService.Refresh(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_RefreshRejections(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)
	login, err := authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: rawPassword})
	require.NoError(t, err)

	// A second login supersedes the first session; the old token no longer
	// matches the stored value.
	_, err = authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: rawPassword})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-token"},
		{name: "superseded token", token: login.RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Refresh(ctx, tt.token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}

func TestAuthService_LogoutInvalidatesRefreshToken(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	login, err := authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: rawPassword})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, user.ID))

	_, err = authService.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// Logout is idempotent.
	require.NoError(t, authService.Logout(ctx, user.ID))
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		oldPassword string
		newPassword string
		wantErr     error
	}{
		{
			name:        "missing old password",
			oldPassword: "",
			newPassword: "newpassword123",
			wantErr:     service.ErrInvalidRequest,
		},
		{
			name:        "missing new password",
			oldPassword: "correctpassword",
			newPassword: "",
			wantErr:     service.ErrInvalidRequest,
		},
		{
			name:        "wrong old password",
			oldPassword: "wrongpassword",
			newPassword: "newpassword123",
			wantErr:     service.ErrWrongPassword,
		},
		{
			name:        "same password",
			oldPassword: "correctpassword",
			newPassword: "correctpassword",
			wantErr:     service.ErrSamePassword,
		},
		{
			name:        "same password wins over wrong old password",
			oldPassword: "wrongpassword",
			newPassword: "wrongpassword",
			wantErr:     service.ErrSamePassword,
		},
		{
			name:        "successful change",
			oldPassword: "correctpassword",
			newPassword: "newpassword123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			user, _ := testutil.NewUserBuilder().
				WithPassword("correctpassword").
				Build(t, testDB.DB)

			err := authService.ChangePassword(ctx, user.ID, tt.oldPassword, tt.newPassword)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			updated, err := authService.CurrentUser(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.Username, updated.Username)

			// New password is in effect.
			_, err = authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: tt.newPassword})
			require.NoError(t, err)

			// Old password is not.
			_, err = authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: tt.oldPassword})
			assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_ChangePasswordForcesRelogin(t *testing.T) {
	authService, testDB := newAuthService(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	login, err := authService.Login(ctx, service.LoginInput{Identifier: user.Username, Password: rawPassword})
	require.NoError(t, err)

	require.NoError(t, authService.ChangePassword(ctx, user.ID, rawPassword, "brandnewpassword"))

	// The pre-change refresh token has been cleared.
	_, err = authService.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuthService_PasswordHashIsBcrypt(t *testing.T) {
	_, testDB := newAuthService(t)

	user, rawPassword := testutil.NewUserBuilder().Build(t, testDB.DB)

	assert.NotEqual(t, rawPassword, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(rawPassword)))
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/kantinhub/kantin-backend/pkg/auth"
	"github.com/kantinhub/kantin-backend/pkg/auth/session"
	"github.com/kantinhub/kantin-backend/pkg/config"
	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/security"
)

type stubAuthUserRepo struct {
	users      map[string]*models.User
	lastLogins map[uuid.UUID]time.Time
}

func newStubAuthUserRepo() *stubAuthUserRepo {
	return &stubAuthUserRepo{
		users:      make(map[string]*models.User),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

func (s *stubAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubAuthUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins[id] = at
	return nil
}

type stubSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: make(map[string]string)}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newAccessID := session.NewAccessID()
	newToken := "refresh-" + newAccessID
	s.sessions[newAccessID] = newToken
	return newAccessID, newToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "kantin-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func seedLoginUser(t *testing.T, repo *stubAuthUserRepo, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Login Tester",
		PasswordHash: hash,
		Role:         enums.UserRoleKasir,
		IsActive:     active,
	}
	repo.users[email] = user
	return user
}

func newAuthFixture(t *testing.T) (Service, *stubAuthUserRepo, *stubSessionManager) {
	t.Helper()
	repo := newStubAuthUserRepo()
	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)
	return svc, repo, sessions
}

func TestLoginSuccess(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)
	user := seedLoginUser(t, repo, "kasir@kantin.id", "rahasia-123", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Kasir@Kantin.ID ",
		Password: "rahasia-123",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleKasir, claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, hasSession := sessions.sessions[claims.ID]
	assert.True(t, hasSession)
	_, loginRecorded := repo.lastLogins[user.ID]
	assert.True(t, loginRecorded)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	seedLoginUser(t, repo, "kasir@kantin.id", "rahasia-123", true)
	seedLoginUser(t, repo, "nonaktif@kantin.id", "rahasia-123", false)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "ghost@kantin.id", "rahasia-123"},
		{"wrong password", "kasir@kantin.id", "salah"},
		{"inactive account", "nonaktif@kantin.id", "rahasia-123"},
		{"empty email", "", "rahasia-123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.password})
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
			assert.Equal(t, invalidCredentialsMessage, typed.Message())
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)
	user := seedLoginUser(t, repo, "kasir@kantin.id", "rahasia-123", true)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "kasir@kantin.id", Password: "rahasia-123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.AccessToken, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// The old session is gone; replaying the old pair fails.
	_, err = svc.Refresh(context.Background(), login.AccessToken, RefreshRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	assert.Len(t, sessions.sessions, 1)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt", RefreshRequest{RefreshToken: "whatever"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, repo, sessions := newAuthFixture(t)
	seedLoginUser(t, repo, "kasir@kantin.id", "rahasia-123", true)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "kasir@kantin.id", Password: "rahasia-123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.AccessToken))
	assert.Empty(t, sessions.sessions)
	require.Len(t, sessions.revoked, 1)

	// Logging out twice stays idempotent.
	require.NoError(t, svc.Logout(context.Background(), login.AccessToken))
}

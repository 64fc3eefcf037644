package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds-portal/internal/models"
	"rds-portal/internal/utils"
)

type fakeSessionStore struct {
	sessions map[string]*models.Session
	ttls     map[string]time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*models.Session{},
		ttls:     map[string]time.Duration{},
	}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.Session, ttl time.Duration) error {
	copied := *session
	f.sessions[session.ID] = &copied
	f.ttls[session.ID] = ttl
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	delete(f.ttls, id)
	return nil
}

func (f *fakeSessionStore) SetWelcomed(ctx context.Context, id string) error {
	if session, ok := f.sessions[id]; ok {
		session.Welcomed = true
	}
	return nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.users[username], nil
}

func (f *fakeUserStore) TouchLastLogin(ctx context.Context, username string) error {
	return nil
}

var testSecret = []byte("test-session-secret")

func staticAuthService(sessions SessionStore) *AuthService {
	return NewAuthService(&StaticAuthenticator{Username: "admin", Password: "pass"}, sessions, testSecret)
}

func TestLoginWithStaticCredentials(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := staticAuthService(sessions)

	result, err := svc.Login(context.Background(), "admin", "pass", false, "")
	require.NoError(t, err)
	assert.Equal(t, "admin", result.Username)
	assert.Zero(t, result.MaxAge, "without remember-me the cookie expires with the browser session")
	assert.Len(t, sessions.sessions, 1)

	session, err := svc.SessionFromToken(context.Background(), result.Token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "admin", session.Username)
	assert.Equal(t, models.StrategyStatic, session.Strategy)
	assert.False(t, session.Welcomed)
}

func TestLoginRejectsWrongPasswordWithoutSession(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := staticAuthService(sessions)

	result, err := svc.Login(context.Background(), "admin", "wrong", false, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, result)
	assert.Empty(t, sessions.sessions, "no session is established on failure")
}

func TestLoginRememberMeExtendsSession(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := staticAuthService(sessions)

	result, err := svc.Login(context.Background(), "admin", "pass", true, "")
	require.NoError(t, err)
	assert.Equal(t, int(RememberTTL.Seconds()), result.MaxAge)

	for _, ttl := range sessions.ttls {
		assert.Equal(t, RememberTTL, ttl)
	}
}

func TestLoginDiscardsPriorSession(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := staticAuthService(sessions)

	first, err := svc.Login(context.Background(), "admin", "pass", false, "")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "admin", "pass", false, first.Token)
	require.NoError(t, err)

	assert.Len(t, sessions.sessions, 1, "exactly one active identity at a time")
	prior, err := svc.SessionFromToken(context.Background(), first.Token)
	require.NoError(t, err)
	assert.Nil(t, prior, "the prior session is invalidated")
}

func TestProviderAuthenticator(t *testing.T) {
	hash, err := utils.Hash("s3cret")
	require.NoError(t, err)

	users := &fakeUserStore{users: map[string]*models.User{
		"carol": {Username: "carol", PasswordHash: string(hash)},
	}}
	auth := &ProviderAuthenticator{Users: users}

	user, err := auth.Authenticate(context.Background(), "carol", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)

	_, err = auth.Authenticate(context.Background(), "carol", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Authenticate(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionFromTokenRejectsTamperedToken(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := staticAuthService(sessions)

	result, err := svc.Login(context.Background(), "admin", "pass", false, "")
	require.NoError(t, err)

	otherSecret := NewAuthService(&StaticAuthenticator{Username: "admin", Password: "pass"}, sessions, []byte("different"))
	session, err := otherSecret.SessionFromToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestLogoutDestroysSession(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := staticAuthService(sessions)

	result, err := svc.Login(context.Background(), "admin", "pass", false, "")
	require.NoError(t, err)

	svc.Logout(context.Background(), result.Token)

	session, err := svc.SessionFromToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

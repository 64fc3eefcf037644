package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rds-portal/internal/models"
	"rds-portal/internal/utils"
)

const (
	// RememberTTL is the session lifetime when "remember me" is checked.
	RememberTTL = 30 * 24 * time.Hour
	// DefaultTTL caps the server-side lifetime of a browser-session login.
	DefaultTTL = 24 * time.Hour
)

// Authenticator validates credentials and resolves them to a user. The two
// implementations below are swappable without touching the rest of the app.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Strategy() string
}

// StaticAuthenticator checks a fixed demo credential pair.
type StaticAuthenticator struct {
	Username string
	Password string
}

func (a *StaticAuthenticator) Strategy() string { return models.StrategyStatic }

func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}
	return &models.User{Username: username}, nil
}

// UserStore is what the provider strategy needs from the users table.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, username string) error
}

// ProviderAuthenticator delegates to the user table: argon2id password
// verification against stored hashes.
type ProviderAuthenticator struct {
	Users UserStore
}

func (a *ProviderAuthenticator) Strategy() string { return models.StrategyProvider }

func (a *ProviderAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.Users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := utils.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := a.Users.TouchLastLogin(ctx, username); err != nil {
		log.Printf("failed to record last login for %s: %v", username, err)
	}

	return user, nil
}

// SessionStore is the server-side session state the gate reads and writes.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	SetWelcomed(ctx context.Context, id string) error
}

type AuthService struct {
	authenticator Authenticator
	sessions      SessionStore
	secret        []byte
}

func NewAuthService(authenticator Authenticator, sessions SessionStore, secret []byte) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		secret:        secret,
	}
}

// LoginResult carries what the handler needs to establish the cookie.
type LoginResult struct {
	Token    string
	MaxAge   int // seconds; 0 means expire with the browser session
	Username string
}

// Login authenticates the credentials, tears down any session the prior
// cookie pointed at (exactly one active identity at a time), then creates a
// fresh session and signs a cookie token for it.
func (s *AuthService) Login(ctx context.Context, username, password string, remember bool, priorToken string) (*LoginResult, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if priorToken != "" {
		if priorID, err := utils.ParseSessionToken(priorToken, s.secret); err == nil {
			if err := s.sessions.Delete(ctx, priorID); err != nil {
				log.Printf("failed to discard prior session: %v", err)
			}
		}
	}

	ttl := DefaultTTL
	maxAge := 0
	if remember {
		ttl = RememberTTL
		maxAge = int(RememberTTL.Seconds())
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Strategy:  s.authenticator.Strategy(),
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Create(ctx, session, ttl); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := utils.SignSessionToken(session.ID, s.secret, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &LoginResult{Token: token, MaxAge: maxAge, Username: user.Username}, nil
}

// SessionFromToken resolves a cookie token to its live session. Returns
// nil, nil for expired, tampered or unknown tokens.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	id, err := utils.ParseSessionToken(token, s.secret)
	if err != nil {
		return nil, nil
	}
	return s.sessions.Get(ctx, id)
}

// Logout destroys the session named by the token, if any.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	id, err := utils.ParseSessionToken(token, s.secret)
	if err != nil {
		return
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		log.Printf("failed to delete session: %v", err)
	}
}

// MarkWelcomed flips the one-time welcome flag on the session.
func (s *AuthService) MarkWelcomed(ctx context.Context, sessionID string) {
	if err := s.sessions.SetWelcomed(ctx, sessionID); err != nil {
		log.Printf("failed to mark session welcomed: %v", err)
	}
}

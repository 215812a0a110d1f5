package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"codeassess/internal/api"
	"codeassess/internal/models"
	"codeassess/internal/security"
	"codeassess/internal/validation"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrTokenExpired    = errors.New("access token has already expired")
)

// SessionStore persists login sessions. Get returns nil, nil for an
// unknown ID.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// AuthService handles login against the grading backend and the
// server-side sessions that hold the resulting access token
type AuthService struct {
	store           SessionStore
	sealer          *security.TokenSealer
	client          *api.Client
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(store SessionStore, sealer *security.TokenSealer, client *api.Client, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		store:           store,
		sealer:          sealer,
		client:          client,
		sessionDuration: sessionDuration,
	}
}

// Login authenticates against the backend and creates a session. The
// returned session carries the plain access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	req := api.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("backend returned no access token")
	}

	now := time.Now()
	session := &models.Session{
		ID:        security.GenerateSessionID(),
		Token:     resp.AccessToken,
		Role:      resp.Role,
		Email:     req.Email,
		ExpiresAt: now.Add(s.sessionDuration),
		CreatedAt: now,
	}

	claims := parseTokenClaims(resp.AccessToken)
	if !claims.ExpiresAt.IsZero() {
		if !claims.ExpiresAt.After(now) {
			return nil, ErrTokenExpired
		}
		session.ExpiresAt = claims.ExpiresAt
	}
	if session.Role == "" {
		session.Role = claims.Role
	}

	sealed, err := s.sealer.Seal(session.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to seal token: %w", err)
	}

	stored := *session
	stored.Token = sealed
	if err := s.store.CreateSession(ctx, &stored); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Register creates a backend account. Domain defaults to "general".
func (s *AuthService) Register(ctx context.Context, req api.RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" {
		req.Role = "employee"
	}
	if strings.TrimSpace(req.Domain) == "" {
		req.Domain = "general"
	}

	if err := validation.Struct(req); err != nil {
		return err
	}
	return s.client.Register(ctx, req)
}

// ValidateSession loads a session and opens its token
func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.store.DeleteSession(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	token, err := s.sealer.Open(session.Token)
	if err != nil {
		// Sealed under a previous SECRET_KEY; the session cannot be used
		log.Printf("Discarding session %s: %v", sessionID, err)
		_ = s.store.DeleteSession(ctx, sessionID)
		return nil, ErrSessionNotFound
	}
	session.Token = token

	return session, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the store
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return removed, nil
}

// ClientFor returns a backend client that authenticates as the session.
// A nil session yields an unauthenticated client.
func (s *AuthService) ClientFor(session *models.Session) *api.Client {
	if session == nil {
		return s.client.WithToken("")
	}
	return s.client.WithToken(session.Token)
}

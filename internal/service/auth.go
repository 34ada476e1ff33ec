package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login, session tracking and JWT token operations.
type AuthService struct {
	users       domain.UserRepository
	sessions    domain.SessionRepository
	jwtSecret   []byte
	sessionTTL  time.Duration
	idleTimeout time.Duration
	delay       time.Duration
	now         func() time.Time
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token   string
	Session *domain.Session
	User    *domain.User
}

// NewAuthService creates a new AuthService with a 24-hour session lifetime
// and a 30-minute inactivity timeout.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:       users,
		sessions:    sessions,
		jwtSecret:   []byte(jwtSecret),
		sessionTTL:  domain.DefaultSessionTTL,
		idleTimeout: domain.DefaultIdleTimeout,
		now:         time.Now,
	}
}

func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// WithSessionLimits overrides the absolute lifetime and inactivity window.
// An idle of zero disables the inactivity check.
func (s *AuthService) WithSessionLimits(ttl, idle time.Duration) *AuthService {
	s.sessionTTL = ttl
	s.idleTimeout = idle
	return s
}

func (s *AuthService) WithDelay(d time.Duration) *AuthService {
	s.delay = d
	return s
}

// SessionTTL returns the absolute session lifetime.
func (s *AuthService) SessionTTL() time.Duration { return s.sessionTTL }

// IdleTimeout returns the inactivity window, zero when disabled.
func (s *AuthService) IdleTimeout() time.Duration { return s.idleTimeout }

// Login verifies credentials, opens a session and returns a signed JWT
// bound to it. Unknown emails and wrong passwords both yield
// domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = validate.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	if err := sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLoginAt = &now

	session := &domain.Session{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		LoginTime:      now,
		LastActivityAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.generateJWT(session)
	if err != nil {
		return nil, fmt.Errorf("generate jwt: %w", err)
	}

	return &LoginResult{Token: token, Session: session, User: user}, nil
}

// Authenticate resolves a token to its user and live session, recording the
// request as activity. Tokens past their lifetime and sessions that have
// gone idle yield domain.ErrSessionExpired; anything else unusable yields
// domain.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, *domain.Session, error) {
	sid, err := s.parseToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.GetByID(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	now := s.now().UTC()
	if session.Expired(now, s.sessionTTL, s.idleTimeout) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			return nil, nil, fmt.Errorf("delete session: %w", err)
		}
		return nil, nil, domain.ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.sessions.Touch(ctx, session.ID, now); err != nil {
		return nil, nil, fmt.Errorf("touch session: %w", err)
	}
	session.LastActivityAt = now

	return user, session, nil
}

// Logout ends a session. Ending a session that no longer exists is not an
// error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// LogoutToken ends the session a token refers to, even if the token itself
// has expired.
func (s *AuthService) LogoutToken(ctx context.Context, tokenString string) error {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sid, _ := claims["sid"].(string)
	return s.Logout(ctx, sid)
}

// PurgeExpiredSessions deletes every session past its lifetime or idle
// window and returns how many were removed.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	var activeBefore time.Time
	if s.idleTimeout > 0 {
		activeBefore = now.Add(-s.idleTimeout)
	}
	return s.sessions.DeleteExpired(ctx, now.Add(-s.sessionTTL), activeBefore)
}

// Run purges expired sessions every interval until ctx is done.
func (s *AuthService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.PurgeExpiredSessions(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired sessions", "count", n)
			}
		}
	}
}

// parseToken returns the session ID a token carries. exp is whole seconds,
// so a second of leeway leaves the session row's millisecond lifetime as
// the authority on expiry.
func (s *AuthService) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired(), jwt.WithLeeway(time.Second))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrSessionExpired
		}
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrUnauthorized
	}
	return sid, nil
}

func (s *AuthService) generateJWT(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":       session.UserID,
		"sid":       session.ID,
		"email":     session.Email,
		"full_name": session.FullName,
		"iat":       session.LoginTime.Unix(),
		"exp":       session.LoginTime.Add(s.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

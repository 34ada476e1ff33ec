package domain

import (
	"context"
	"time"
)

// Session asserts that a user is currently logged in. It is bounded by an
// absolute lifetime measured from LoginTime and by an inactivity window
// measured from LastActivityAt.
type Session struct {
	ID             string
	UserID         string
	Email          string
	FullName       string
	LoginTime      time.Time
	LastActivityAt time.Time
}

const (
	DefaultSessionTTL  = 24 * time.Hour
	DefaultIdleTimeout = 30 * time.Minute
)

// Expired reports whether the session is no longer valid at now.
// A zero idle disables the inactivity check.
func (s *Session) Expired(now time.Time, ttl, idle time.Duration) bool {
	if now.Sub(s.LoginTime) > ttl {
		return true
	}
	return idle > 0 && now.Sub(s.LastActivityAt) > idle
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions that logged in before loginBefore or
	// were last active before activeBefore, returning the number removed.
	DeleteExpired(ctx context.Context, loginBefore, activeBefore time.Time) (int64, error)
}

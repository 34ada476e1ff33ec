package domain

import (
	"context"
	"time"
)

// User represents a verified admin account for a college chatbot.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	CollegeURL   string
	PhoneNumber  string
	IsVerified   bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// UserRepository defines persistence operations for users.
// Email is unique across all users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

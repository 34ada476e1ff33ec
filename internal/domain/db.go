package domain

import "context"

// Database is the store behind users, sessions, cached documents and chat
// history. Implementations own their schema and migrations.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned when no status entry exists for a user.
var ErrCacheMiss = errors.New("cache miss")

// StatusCache mirrors online status for fast CRUD reads. It is a
// best-effort projection of the in-memory presence table, never the
// source of truth for delivery decisions.
type StatusCache interface {
	SetOnline(ctx context.Context, userID string, online bool) error
	IsOnline(ctx context.Context, userID string) (bool, error)
	Close() error
}

package repository

import (
	"context"
	"errors"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoPartner       = errors.New("no partner available to pair with")
)

// MessageLedger is the durable, append-mostly store of chat messages.
// It is the system of record: the coordinator holds a message only for
// the duration of a delivery attempt.
type MessageLedger interface {
	// Append durably records a message and returns the stored copy.
	Append(ctx context.Context, msg *domain.Message) (*domain.Message, error)

	// MarkRead flips the read flag to true. Idempotent: marking an
	// already-read message succeeds without error.
	MarkRead(ctx context.Context, id string) error

	// GetByID returns a single message.
	GetByID(ctx context.Context, id string) (*domain.Message, error)

	// ListRecent returns up to limit messages in ascending timestamp order.
	ListRecent(ctx context.Context, limit int) ([]domain.Message, error)
}

// UserRepository stores the two participants.
type UserRepository interface {
	// Upsert creates the user on first login or refreshes the display
	// name on subsequent logins, keyed by the client-supplied login ID.
	Upsert(ctx context.Context, name, loginID string) (*domain.User, error)

	GetByID(ctx context.Context, id string) (*domain.User, error)

	// SetOnline writes the persisted online projection. Best-effort;
	// the in-memory presence table stays authoritative for delivery.
	SetOnline(ctx context.Context, id string, online bool) error
}

// PairRepository stores the explicit two-user pairing.
type PairRepository interface {
	// EnsureFor returns the pair containing userID, creating one with
	// the first unpaired other user if needed. Returns ErrNoPartner
	// when the user is alone.
	EnsureFor(ctx context.Context, userID string) (*domain.Pair, error)

	// GetFor returns the pair containing userID, or ErrNoPartner.
	GetFor(ctx context.Context, userID string) (*domain.Pair, error)
}

// PushSubscriptionRepository stores per-user web push endpoints.
type PushSubscriptionRepository interface {
	// Add registers an endpoint; re-registering the same endpoint URL
	// is a no-op.
	Add(ctx context.Context, sub *domain.PushSubscription) error

	// RemoveAllForUser drops every endpoint registered for the user.
	RemoveAllForUser(ctx context.Context, userID string) error

	// ListForUser returns all endpoints registered for the user.
	ListForUser(ctx context.Context, userID string) ([]domain.PushSubscription, error)
}

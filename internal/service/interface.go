package service

import (
	"context"
	"errors"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/hub"
)

var (
	// ErrAuthFailed means credential verification failed; the
	// connection must be refused before any session state is created.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotActive means an event arrived on a session that is not in
	// the active state.
	ErrNotActive = errors.New("session is not active")
)

// TokenVerifier resolves a bearer credential to a stable user identity.
type TokenVerifier interface {
	Verify(token string) (userID, name string, err error)
}

// Coordinator owns the lifecycle of authenticated real-time sessions
// and the routing decision for every event: persist via the ledger,
// relay to a live counterpart, or fall back to push.
type Coordinator interface {
	// Authenticate verifies a handshake credential. Called before the
	// transport upgrade so a bad credential refuses the connection
	// without side effects.
	Authenticate(ctx context.Context, token string) (userID, name string, err error)

	// Connect binds a verified identity to the connection, registers
	// presence (last-connect-wins), and notifies the counterpart.
	Connect(ctx context.Context, c *hub.Client, userID, name string) error

	// Disconnect clears presence for the connection and notifies the
	// counterpart. Safe to call for connections that were already
	// displaced by a newer one.
	Disconnect(ctx context.Context, c *hub.Client)

	// HandleTyping relays a typing signal to the counterpart.
	// Ephemeral: no persistence, no push fallback.
	HandleTyping(ctx context.Context, c *hub.Client, isTyping bool)

	// HandleMessage persists an inbound message (unless it is a late
	// echo of one already persisted) and delivers it live or via push.
	HandleMessage(ctx context.Context, c *hub.Client, ev *domain.MessageEvent) error

	// HandleRead marks a message read and relays the receipt to a live
	// counterpart. No push fallback.
	HandleRead(ctx context.Context, c *hub.Client, messageID string) error

	// HandleAlert pushes an attention notification to every counterpart
	// endpoint regardless of presence, and relays a live alert when the
	// counterpart is connected. Never persisted.
	HandleAlert(ctx context.Context, c *hub.Client) error

	// SendMessage is the out-of-band HTTP send path. It shares the
	// socket path's persist-then-deliver flow so a message is recorded
	// exactly once no matter how it entered the system.
	SendMessage(ctx context.Context, senderID string, content string, kind domain.MessageKind) (*domain.Message, error)

	// MarkRead is the out-of-band HTTP read path. It flips the read
	// flag and relays the receipt to a live counterpart.
	MarkRead(ctx context.Context, userID, messageID string) error
}

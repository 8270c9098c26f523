package push

import "context"

// Notification is the payload shown to the user by the push service.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
}

// Notifier dispatches a notification to every push endpoint registered
// for a user. Implementations never surface errors to the caller:
// per-endpoint failures are logged and the remaining endpoints are
// still attempted. No retry, no deduplication.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification)
}

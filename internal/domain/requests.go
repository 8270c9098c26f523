package domain

// LoginRequest identifies a participant. UserID is a client-chosen
// stable identifier; the pair {name, user_id} is upserted on login.
type LoginRequest struct {
	Name   string `json:"name" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

// LoginResponse carries the issued credential and participant record.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      *User  `json:"user"`
}

// SendMessageRequest is the out-of-band HTTP send payload.
type SendMessageRequest struct {
	Content string      `json:"content" binding:"required"`
	Kind    MessageKind `json:"kind"`
}

// SubscriptionKeys mirrors the keys object of a browser PushSubscription.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// SubscribeRequest registers a web push endpoint for the caller.
type SubscribeRequest struct {
	Endpoint string           `json:"endpoint" binding:"required"`
	Keys     SubscriptionKeys `json:"keys" binding:"required"`
}

// StatusRequest sets the caller's persisted online projection.
type StatusRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// PartnerResponse describes the counterpart and their live presence.
type PartnerResponse struct {
	User   *User `json:"user"`
	Online bool  `json:"online"`
}

// MediaResponse points at an uploaded blob.
type MediaResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

package domain

// WebSocket event types from client.
const (
	EventTypeTyping  = "typing"
	EventTypeMessage = "message"
	EventTypeRead    = "message-read"
	EventTypeAlert   = "alert"
)

// WebSocket event types to client.
const (
	EventTypePartnerStatus = "partner-status"
	EventTypeError         = "error"
)

// Error codes carried in error events.
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseEvent is the envelope shared by all WebSocket events.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server events

type TypingEvent struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"is_typing"`
}

// MessageEvent carries an inbound chat message. ID is set only when the
// message was already persisted via the HTTP path and the socket send is
// a late echo.
type MessageEvent struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Content string      `json:"content"`
	Kind    MessageKind `json:"kind"`
}

type ReadEvent struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
}

type AlertEvent struct {
	Type string `json:"type"`
	From string `json:"from,omitempty"`
}

// Server -> Client events

type MessageOut struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	SenderID   string      `json:"sender_id"`
	SenderName string      `json:"sender_name"`
	Content    string      `json:"content"`
	Kind       MessageKind `json:"kind"`
	Timestamp  int64       `json:"timestamp"`
	Read       bool        `json:"read"`
}

// NewMessageOut converts a persisted message into its wire form.
func NewMessageOut(m *Message) *MessageOut {
	return &MessageOut{
		Type:       EventTypeMessage,
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		Kind:       m.Kind,
		Timestamp:  m.Timestamp.UnixMilli(),
		Read:       m.Read,
	}
}

type PartnerStatusEvent struct {
	Type   string `json:"type"`
	Online bool   `json:"online"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorEvent(code, message string) *ErrorEvent {
	return &ErrorEvent{
		Type:    EventTypeError,
		Code:    code,
		Message: message,
	}
}

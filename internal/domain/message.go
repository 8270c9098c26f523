package domain

import (
	"errors"
	"time"
)

// ErrInvalidMessage is returned when a message fails validation before
// it reaches the ledger.
var ErrInvalidMessage = errors.New("invalid message")

// MessageKind distinguishes text from voice messages.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindVoice MessageKind = "voice"
)

// Valid reports whether k is a known message kind.
func (k MessageKind) Valid() bool {
	return k == KindText || k == KindVoice
}

// Message is a durably recorded chat message. Immutable once appended,
// except for the Read flag which transitions false to true exactly once.
type Message struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"sender_id"`
	SenderName string      `json:"sender_name"` // display name snapshot at send time
	Content    string      `json:"content"`
	Kind       MessageKind `json:"kind"`
	Timestamp  time.Time   `json:"timestamp"`
	Read       bool        `json:"read"`
}

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	SenderID   string    `gorm:"type:varchar(36);index;not null"`
	SenderName string    `gorm:"type:varchar(120);not null"`
	Content    string    `gorm:"type:text;not null"`
	Kind       string    `gorm:"type:varchar(10);not null;default:'text'"`
	Timestamp  time.Time `gorm:"index;not null"`
	Read       bool      `gorm:"not null;default:false"`
}

func (MessageModel) TableName() string {
	return "messages"
}

func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		Kind:       MessageKind(m.Kind),
		Timestamp:  m.Timestamp,
		Read:       m.Read,
	}
}

func MessageToModel(msg *Message) *MessageModel {
	return &MessageModel{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Content:    msg.Content,
		Kind:       string(msg.Kind),
		Timestamp:  msg.Timestamp,
		Read:       msg.Read,
	}
}

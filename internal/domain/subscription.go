package domain

import "time"

// PushSubscription is a registered web push endpoint for a user.
// A user may hold several, one per browser/device.
type PushSubscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// PushSubscriptionModel is the GORM model for the push_subscriptions table.
type PushSubscriptionModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	Endpoint  string    `gorm:"type:varchar(512);uniqueIndex;not null"`
	P256dh    string    `gorm:"type:varchar(255);not null"`
	Auth      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PushSubscriptionModel) TableName() string {
	return "push_subscriptions"
}

func (m *PushSubscriptionModel) ToDomain() *PushSubscription {
	return &PushSubscription{
		ID:        m.ID,
		UserID:    m.UserID,
		Endpoint:  m.Endpoint,
		P256dh:    m.P256dh,
		Auth:      m.Auth,
		CreatedAt: m.CreatedAt,
	}
}

func PushSubscriptionToModel(s *PushSubscription) *PushSubscriptionModel {
	return &PushSubscriptionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		Endpoint:  s.Endpoint,
		P256dh:    s.P256dh,
		Auth:      s.Auth,
		CreatedAt: s.CreatedAt,
	}
}

package domain

import "time"

// User is one of the two chat participants.
// IsOnline is a persisted projection of live presence for CRUD read
// paths; the in-memory presence table is authoritative at delivery time.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LoginID   string    `json:"login_id"`
	IsOnline  bool      `json:"is_online"`
	CreatedAt time.Time `json:"created_at"`
}

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Name      string    `gorm:"type:varchar(120);not null"`
	LoginID   string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	IsOnline  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToDomain() *User {
	return &User{
		ID:        m.ID,
		Name:      m.Name,
		LoginID:   m.LoginID,
		IsOnline:  m.IsOnline,
		CreatedAt: m.CreatedAt,
	}
}

func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Name:      u.Name,
		LoginID:   u.LoginID,
		IsOnline:  u.IsOnline,
		CreatedAt: u.CreatedAt,
	}
}

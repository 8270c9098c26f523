package domain

import "time"

// Pair associates exactly two users as chat counterparts. The pairing
// is explicit so the counterpart is never inferred by elimination from
// the full user list.
type Pair struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Counterpart returns the other member of the pair, or "" if userID is
// not a member.
func (p *Pair) Counterpart(userID string) string {
	switch userID {
	case p.UserAID:
		return p.UserBID
	case p.UserBID:
		return p.UserAID
	}
	return ""
}

// PairModel is the GORM model for the pairs table.
type PairModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserAID   string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	UserBID   string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PairModel) TableName() string {
	return "pairs"
}

func (m *PairModel) ToDomain() *Pair {
	return &Pair{
		ID:        m.ID,
		UserAID:   m.UserAID,
		UserBID:   m.UserBID,
		CreatedAt: m.CreatedAt,
	}
}

func PairToModel(p *Pair) *PairModel {
	return &PairModel{
		ID:        p.ID,
		UserAID:   p.UserAID,
		UserBID:   p.UserBID,
		CreatedAt: p.CreatedAt,
	}
}

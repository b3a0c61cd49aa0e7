package models

import "time"

// Session is a server-side login session, persisted through whichever
// storage backend is active.
type Session struct {
	Token     string    `gorm:"column:token;primaryKey;size:64" json:"-"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expiresAt"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

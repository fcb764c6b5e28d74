package entity

import (
	"time"
)

type Session struct {
	BaseSimple `bson:",inline"`
	UserID     string     `bson:"user_id" db:"user_id"`
	Token      string     `bson:"token" db:"token"`
	UserAgent  *string    `bson:"user_agent,omitempty" db:"user_agent"`
	IPAddress  *string    `bson:"ip_address,omitempty" db:"ip_address"`
	ExpiresAt  time.Time  `bson:"expires_at" db:"expires_at"`
	RevokedAt  *time.Time `bson:"revoked_at,omitempty" db:"revoked_at"`
}

// Active reports whether the session can still authenticate at t
func (s *Session) Active(t time.Time) bool {
	return s.RevokedAt == nil && t.Before(s.ExpiresAt)
}

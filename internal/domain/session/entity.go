// internal/domain/session/entity.go
package session

import "time"

// GuestSession identifies an anonymous shopper via an opaque cookie-borne
// token. Rows are never deleted explicitly; they expire passively.
type GuestSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null;size:64" json:"token"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for GuestSession
func (GuestSession) TableName() string { return "guest_sessions" }

// IsExpired reports whether the session has passed its expiry
func (s *GuestSession) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

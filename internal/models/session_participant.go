package models

import "time"

// SessionParticipant records a user's presence in a live group session.
// One row per (session, user); re-joining reactivates the row.
type SessionParticipant struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	SessionID   string     `gorm:"not null;index:idx_session_participants_session_user,unique" json:"session_id"`
	UserID      string     `gorm:"not null;index:idx_session_participants_session_user,unique" json:"user_id"`
	SessionType string     `gorm:"not null" json:"session_type"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	JoinedAt    time.Time  `gorm:"not null" json:"joined_at"`
	LeftAt      *time.Time `json:"left_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

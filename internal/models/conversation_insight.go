package models

import "time"

// ConversationInsight is an insight generated for a group conversation.
// AcknowledgedAt is written once, by the first acknowledgment.
type ConversationInsight struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	GroupID        string     `gorm:"not null;index" json:"group_id"`
	SessionID      string     `json:"session_id"`
	Kind           string     `gorm:"not null" json:"kind"`
	Content        string     `gorm:"type:text" json:"content"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

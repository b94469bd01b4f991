package models

import (
	"gorm.io/gorm"
	"time"
)

// GroupMember represents the mapping of users to groups
type GroupMember struct {
	gorm.Model
	GroupID  string    `gorm:"not null;index:idx_group_members_group_user,unique" json:"group_id"`
	UserID   string    `gorm:"not null;index:idx_group_members_group_user,unique" json:"user_id"`
	Role     string    `gorm:"not null;default:member" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`
	JoinedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joined_at"`
}

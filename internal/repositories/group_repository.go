package repositories

import (
	"context"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{
		db: db,
	}
}

func (gr *GroupRepository) IsActiveMember(ctx context.Context, groupId string, userId string) (bool, error) {
	var count int64
	err := gr.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND is_active = ?", groupId, userId, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count group members: %w", err)
	}
	return count > 0, nil
}

// AddMember creates or reactivates a membership.
func (gr *GroupRepository) AddMember(ctx context.Context, groupId string, userId string, role string) error {
	member := models.GroupMember{
		GroupID:  groupId,
		UserID:   userId,
		Role:     role,
		IsActive: true,
	}
	return gr.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "is_active", "updated_at", "deleted_at"}),
		}).
		Create(&member).Error
}

// DeactivateMember keeps the row but revokes access.
func (gr *GroupRepository) DeactivateMember(ctx context.Context, groupId string, userId string) error {
	return gr.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupId, userId).
		Update("is_active", false).Error
}

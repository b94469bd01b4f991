package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"gorm.io/gorm"
)

type InsightRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{
		db:  db,
		now: time.Now,
	}
}

func (ir *InsightRepository) CreateInsight(ctx context.Context, insight *models.ConversationInsight) error {
	if err := ir.db.WithContext(ctx).Create(insight).Error; err != nil {
		return fmt.Errorf("create insight: %w", err)
	}
	return nil
}

// Acknowledge sets acknowledged_at only when it is still unset and returns
// the stored acknowledgment time.
func (ir *InsightRepository) Acknowledge(ctx context.Context, insightId string, groupId string) (time.Time, error) {
	var acknowledgedAt time.Time

	err := ir.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.ConversationInsight{}).
			Where("id = ? AND group_id = ? AND acknowledged_at IS NULL", insightId, groupId).
			Update("acknowledged_at", ir.now().UTC()).Error; err != nil {
			return err
		}

		var insight models.ConversationInsight
		if err := tx.
			Where("id = ? AND group_id = ?", insightId, groupId).
			First(&insight).Error; err != nil {
			return err
		}
		if insight.AcknowledgedAt == nil {
			return fmt.Errorf("insight %s has no acknowledgment after update", insightId)
		}
		acknowledgedAt = *insight.AcknowledgedAt
		return nil
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, errs.ErrRecordNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("acknowledge insight: %w", err)
	}
	return acknowledgedAt, nil
}

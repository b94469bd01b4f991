package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipantRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{
		db:  db,
		now: time.Now,
	}
}

// UpsertJoin inserts the participant row, or reactivates it and refreshes the
// join time when the user has been in the session before.
func (pr *ParticipantRepository) UpsertJoin(ctx context.Context, sessionId string, userId string, sessionType string) error {
	now := pr.now().UTC()
	participant := models.SessionParticipant{
		SessionID:   sessionId,
		UserID:      userId,
		SessionType: sessionType,
		IsActive:    true,
		JoinedAt:    now,
		LeftAt:      nil,
	}
	err := pr.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"session_type", "is_active", "joined_at", "left_at", "updated_at"}),
		}).
		Create(&participant).Error
	if err != nil {
		return fmt.Errorf("upsert session participant: %w", err)
	}
	return nil
}

// MarkLeft deactivates the participant row. Rows that are already inactive
// or missing are left untouched.
func (pr *ParticipantRepository) MarkLeft(ctx context.Context, sessionId string, userId string) error {
	now := pr.now().UTC()
	err := pr.db.WithContext(ctx).
		Model(&models.SessionParticipant{}).
		Where("session_id = ? AND user_id = ? AND is_active = ?", sessionId, userId, true).
		Updates(map[string]any{"is_active": false, "left_at": now}).Error
	if err != nil {
		return fmt.Errorf("mark session participant left: %w", err)
	}
	return nil
}

func (pr *ParticipantRepository) GetParticipant(ctx context.Context, sessionId string, userId string) (*models.SessionParticipant, error) {
	var participant models.SessionParticipant
	err := pr.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionId, userId).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session participant: %w", err)
	}
	return &participant, nil
}

func (pr *ParticipantRepository) ActiveParticipants(ctx context.Context, sessionId string) ([]models.SessionParticipant, error) {
	var participants []models.SessionParticipant
	err := pr.db.WithContext(ctx).
		Where("session_id = ? AND is_active = ?", sessionId, true).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("list session participants: %w", err)
	}
	return participants, nil
}

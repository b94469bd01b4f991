package services

import (
	"context"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/rs/zerolog/log"
)

type insightRepository interface {
	Acknowledge(ctx context.Context, insightId string, groupId string) (time.Time, error)
}

// InsightService records insight acknowledgments for the signaling manager.
type InsightService struct {
	insightRepo insightRepository
}

func NewInsightService(insightRepo insightRepository) *InsightService {
	return &InsightService{
		insightRepo: insightRepo,
	}
}

func (is *InsightService) Acknowledge(ctx context.Context, insightId string, groupId string) (time.Time, error) {
	if insightId == "" || groupId == "" {
		return time.Time{}, errs.ErrInvalidParams
	}
	acknowledgedAt, err := is.insightRepo.Acknowledge(ctx, insightId, groupId)
	if err != nil {
		log.Warn().Str("module", "services.insight").Str("insight_id", insightId).Str("group_id", groupId).Err(err).Msg("acknowledge failed")
		return time.Time{}, err
	}
	return acknowledgedAt, nil
}

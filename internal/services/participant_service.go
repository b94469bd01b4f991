package services

import (
	"context"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/rs/zerolog/log"
)

type participantRepository interface {
	UpsertJoin(ctx context.Context, sessionId string, userId string, sessionType string) error
	MarkLeft(ctx context.Context, sessionId string, userId string) error
}

// ParticipantService records session joins and leaves for the signaling manager.
type ParticipantService struct {
	participantRepo participantRepository
}

func NewParticipantService(participantRepo participantRepository) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
	}
}

func (ps *ParticipantService) UpsertJoin(ctx context.Context, sessionId string, userId string, sessionType string) error {
	if sessionId == "" || userId == "" || sessionType == "" {
		return errs.ErrInvalidParams
	}
	if err := ps.participantRepo.UpsertJoin(ctx, sessionId, userId, sessionType); err != nil {
		log.Error().Str("module", "services.participant").Str("session_id", sessionId).Str("user_id", userId).Err(err).Msg("failed to record join")
		return err
	}
	return nil
}

func (ps *ParticipantService) MarkLeft(ctx context.Context, sessionId string, userId string) error {
	if sessionId == "" || userId == "" {
		return errs.ErrInvalidParams
	}
	if err := ps.participantRepo.MarkLeft(ctx, sessionId, userId); err != nil {
		log.Error().Str("module", "services.participant").Str("session_id", sessionId).Str("user_id", userId).Err(err).Msg("failed to record leave")
		return err
	}
	return nil
}

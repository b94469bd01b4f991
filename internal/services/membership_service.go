package services

import (
	"context"

	"github.com/rs/zerolog/log"
)

type groupRepository interface {
	IsActiveMember(ctx context.Context, groupId string, userId string) (bool, error)
}

// MembershipService answers the signaling manager's authorization checks.
type MembershipService struct {
	groupRepo groupRepository
}

func NewMembershipService(groupRepo groupRepository) *MembershipService {
	return &MembershipService{
		groupRepo: groupRepo,
	}
}

func (ms *MembershipService) IsActiveMember(ctx context.Context, groupId string, userId string) (bool, error) {
	if groupId == "" || userId == "" {
		return false, nil
	}
	ok, err := ms.groupRepo.IsActiveMember(ctx, groupId, userId)
	if err != nil {
		log.Error().Str("module", "services.membership").Str("group_id", groupId).Str("user_id", userId).Err(err).Msg("membership check failed")
		return false, err
	}
	return ok, nil
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/msgs"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SignalingManager is the part of the signaling manager exposed over REST.
type SignalingManager interface {
	BroadcastVoteEvent(groupId string, event socket.Event) (int, error)
	BroadcastInsightEvent(groupId string, event socket.Event) (int, error)
	GetConnectedGroupMembers(groupId string) []socket.Participant
	IsUserConnected(userId string) bool
	SendToUser(userId string, event socket.Event) error
}

type RestHandler struct {
	manager SignalingManager
}

func NewRestHandler(manager SignalingManager) *RestHandler {
	return &RestHandler{manager: manager}
}

func (rh *RestHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
	})
}

// BroadcastVoteEvent fans a vote event out to the group's vote subscribers.
func (rh *RestHandler) BroadcastVoteEvent(ctx *gin.Context) {
	rh.broadcast(ctx, rh.manager.BroadcastVoteEvent)
}

// BroadcastInsightEvent fans an insight event out to the group's insight subscribers.
func (rh *RestHandler) BroadcastInsightEvent(ctx *gin.Context) {
	rh.broadcast(ctx, rh.manager.BroadcastInsightEvent)
}

func (rh *RestHandler) broadcast(ctx *gin.Context, fanout func(string, socket.Event) (int, error)) {
	groupId := ctx.Param("groupId")

	var event socket.Event
	if err := ctx.ShouldBindJSON(&event); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse(msgs.MsgOperationFailed, errs.ErrInvalidRequestBody))
		return
	}

	delivered, err := fanout(groupId, event)
	if err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), models.ErrorResponse(msgs.MsgOperationFailed, err))
		return
	}

	log.Debug().
		Str("module", "handlers.rest").
		Str("group_id", groupId).
		Str("type", event.Type).
		Int("delivered", delivered).
		Str("requested_by", ctx.GetString("user_id")).
		Msg("event broadcast")

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgEventBroadcasted,
		Data: models.BroadcastResponse{
			GroupID:   groupId,
			Type:      event.Type,
			Delivered: delivered,
		},
	})
}

func (rh *RestHandler) GetGroupPresence(ctx *gin.Context) {
	groupId := ctx.Param("groupId")
	members := rh.manager.GetConnectedGroupMembers(groupId)
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data: models.GroupPresenceResponse{
			GroupID: groupId,
			Members: members,
			Count:   len(members),
		},
	})
}

func (rh *RestHandler) GetUserPresence(ctx *gin.Context) {
	userId := ctx.Param("userId")
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data: models.UserPresenceResponse{
			UserID: userId,
			Online: rh.manager.IsUserConnected(userId),
		},
	})
}

// SendToUser delivers one event directly to a connected user.
func (rh *RestHandler) SendToUser(ctx *gin.Context) {
	userId := ctx.Param("userId")

	var event socket.Event
	if err := ctx.ShouldBindJSON(&event); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse(msgs.MsgOperationFailed, errs.ErrInvalidRequestBody))
		return
	}

	if err := rh.manager.SendToUser(userId, event); err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), models.ErrorResponse(msgs.MsgOperationFailed, err))
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgFrameDelivered,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnsupportedEventType), errors.Is(err, errs.ErrEmptyGroupId):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUserNotConnected):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrSendBufferFull), errors.Is(err, errs.ErrTransportClosed):
		return http.StatusServiceUnavailable
	case errs.CodeOf(err) == enums.ERROR_CODE_INVALID_MESSAGE:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

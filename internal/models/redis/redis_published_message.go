package models

import "github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"

// RedisPublishedEvent is an externally produced event addressed to one group.
type RedisPublishedEvent struct {
	GroupId string       `json:"groupId"`
	Event   socket.Event `json:"event"`
}

package models

import "github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"

type GroupPresenceResponse struct {
	GroupID string               `json:"group_id"`
	Members []socket.Participant `json:"members"`
	Count   int                  `json:"count"`
}

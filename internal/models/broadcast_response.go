package models

type BroadcastResponse struct {
	GroupID   string `json:"group_id"`
	Type      string `json:"type"`
	Delivered int    `json:"delivered"`
}

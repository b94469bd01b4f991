package models

type UserPresenceResponse struct {
	UserID string `json:"user_id"`
	Online bool   `json:"online"`
}

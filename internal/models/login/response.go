package models

import "time"

type LoginResponse struct {
	// Token is the session ID sent back as "Authorization: Bearer <token>".
	Token     string    `json:"token"`
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
	Redirect  string    `json:"redirect"`
}

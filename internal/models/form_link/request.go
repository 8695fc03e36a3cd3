package models

type FormLinkRequest struct {
	EventName         string `json:"eventName" binding:"required"`
	URL               string `json:"url" binding:"required"`
	EventDate         string `json:"eventDate,omitempty"`
	LastDayToRegister string `json:"lastDayToRegister,omitempty"`
}

package models

// SessionResponse tells the browser whether to render the login view or the
// console. State is "unknown", "unauthenticated" or "authorized".
type SessionResponse struct {
	State string `json:"state"`
	Email string `json:"email,omitempty"`
	View  string `json:"view"`
}

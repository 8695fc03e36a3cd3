package models

type ChangePasswordResponse struct {
	Message string `json:"message"`
}

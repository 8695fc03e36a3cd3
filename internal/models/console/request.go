package models

type SelectSectionRequest struct {
	Section string `json:"section" binding:"required"`
}

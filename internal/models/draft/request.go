package models

type OpenDraftRequest struct {
	Collection string `json:"collection" binding:"required"`
	RecordID   string `json:"recordId,omitempty"`
}

type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

package models

import "io.winapps.clubconsole/internal/editor"

type DraftResponse struct {
	Draft editor.Snapshot `json:"draft"`
}

type SubmitDraftResponse struct {
	Message  string   `json:"message"`
	RecordID string   `json:"recordId,omitempty"`
	Images   []string `json:"images"`
}

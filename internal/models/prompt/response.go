package models

import "io.winapps.clubconsole/internal/confirm"

type PromptResponse struct {
	Prompt confirm.Prompt `json:"prompt"`
}

type ConfirmPromptResponse struct {
	Message string `json:"message"`
	// Redirect is set when the confirmed action ends the session.
	Redirect string `json:"redirect,omitempty"`
}

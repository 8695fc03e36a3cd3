package models

import "io.winapps.clubconsole/internal/content"

type FormLinkResponse struct {
	FormLink content.FormLink `json:"formLink"`
	Message  string           `json:"message"`
}

package models

import "io.winapps.clubconsole/internal/content"

type ListEventsResponse struct {
	Events []content.Event `json:"events"`
	Count  int             `json:"count"`
}

type GetEventResponse struct {
	Event content.Event `json:"event"`
}

type ListImagesResponse struct {
	Images []content.Image `json:"images"`
	Count  int             `json:"count"`
}

type ListMembersResponse struct {
	Members []content.Member `json:"members"`
	Count   int              `json:"count"`
	Query   string           `json:"query,omitempty"`
}

type ListFormLinksResponse struct {
	FormLinks []content.FormLink `json:"formLinks"`
	Count     int                `json:"count"`
	Query     string             `json:"query,omitempty"`
}

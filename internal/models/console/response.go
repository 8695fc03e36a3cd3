package models

import (
	"io.winapps.clubconsole/internal/console"
	"io.winapps.clubconsole/internal/notice"
)

type ConsoleResponse struct {
	Section  console.Section   `json:"section"`
	Sections []console.Section `json:"sections"`
	Busy     bool              `json:"busy"`
	Notices  []notice.Notice   `json:"notices"`
}

type OverviewResponse struct {
	Panels []console.Panel `json:"panels"`
}

type BusyResponse struct {
	Busy     bool `json:"busy"`
	InFlight int  `json:"inFlight"`
}

type NoticesResponse struct {
	Notices []notice.Notice `json:"notices"`
}

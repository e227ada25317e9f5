package models

import (
	"time"
)

// NotificationLevel classifies a transient notification
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a transient message shown to the user once
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

// ShareLinks holds the outbound share URLs for one article
type ShareLinks struct {
	Facebook string `json:"facebook"`
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
}

// ShareRequest identifies the article being shared
type ShareRequest struct {
	Title string `json:"title"`
	URL   string `json:"url" binding:"required"`
}

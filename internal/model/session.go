package model

import "time"

type PageStatus string

const (
	PageWaiting   PageStatus = "waiting"   // served, no event channel yet
	PageAttached  PageStatus = "attached"  // websocket connected
	PageSubmitted PageStatus = "submitted" // results view shown
)

type PageSession struct {
	ID         string     `json:"id"`
	Status     PageStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	AttachedAt *time.Time `json:"attachedAt,omitempty"`
}

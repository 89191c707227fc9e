// internal/models/notification.go
package models

import "time"

// Audience identifies which of the two submission emails a dispatch belongs to.
type Audience string

const (
	AudienceClient   Audience = "client"
	AudienceInternal Audience = "internal"
)

const (
	DispatchStatusSent   = "sent"
	DispatchStatusFailed = "failed"
)

// DispatchOutcome records the result of handing one message to the sender.
type DispatchOutcome struct {
	Audience   Audience      `json:"audience"`
	Recipients []string      `json:"recipients"`
	Status     string        `json:"status"` // "sent" or "failed"
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

func (o DispatchOutcome) Sent() bool {
	return o.Status == DispatchStatusSent
}

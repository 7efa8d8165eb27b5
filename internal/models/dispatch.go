package models

import "time"

// Responder is a dispatchable unit: an ambulance, police vehicle, fire
// engine, or other service unit keyed by a human-readable identifier.
type Responder struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	ResponderType ResponderType   `gorm:"size:16;index" json:"responderType"`
	Identifier    string          `gorm:"size:32;uniqueIndex" json:"identifier"`
	Status        ResponderStatus `gorm:"size:16;default:AVAILABLE;index" json:"status"`
	LocationID    *string         `gorm:"size:36" json:"locationId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

// Dispatch links a session to a responder and tracks en-route progress.
// ArrivalTime is set only on the transition to ARRIVED.
type Dispatch struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	SessionID    string         `gorm:"size:36;not null;index" json:"sessionId"`
	ResponderID  string         `gorm:"size:36;not null" json:"responderId"`
	Status       DispatchStatus `gorm:"size:16;default:DISPATCHED;index" json:"status"`
	Notes        string         `gorm:"type:text" json:"notes"`
	DispatchTime time.Time      `json:"dispatchTime"`
	ArrivalTime  *time.Time     `json:"arrivalTime"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	Responder *Responder `gorm:"foreignKey:ResponderID" json:"responder,omitempty"`
}

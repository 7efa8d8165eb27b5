// Package models defines the GORM entities for Lifeline.
package models

import "time"

// Session is the central aggregate: one in-flight emergency call.
// It is created once at connect time and mutated by id for the rest
// of the call.
type Session struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	CallerID      *string       `gorm:"size:36;index" json:"callerId"`
	LocationID    *string       `gorm:"size:36" json:"locationId"`
	EmergencyType EmergencyType `gorm:"size:16;index" json:"emergencyType"`
	Description   string        `gorm:"type:text" json:"description"`
	PriorityLevel int           `gorm:"default:3" json:"priorityLevel"`
	Status        SessionStatus `gorm:"size:24;default:ACTIVE;index" json:"status"`
	ResponseNotes string        `gorm:"type:text" json:"responseNotes"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	Caller      *Caller             `gorm:"foreignKey:CallerID" json:"caller,omitempty"`
	Location    *Location           `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Dispatches  []Dispatch          `gorm:"foreignKey:SessionID" json:"dispatches,omitempty"`
	Transcripts []SessionTranscript `gorm:"foreignKey:SessionID" json:"transcripts,omitempty"`
}

// SessionTranscript is one ordered, append-only utterance in a session.
// Entries are never mutated after creation.
type SessionTranscript struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string      `gorm:"size:36;not null;index" json:"sessionId"`
	Speaker   SpeakerType `gorm:"size:16;not null" json:"speaker"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time   `gorm:"index" json:"timestamp"`
}

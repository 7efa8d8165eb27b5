package models

import "time"

// Caller identifies the person reporting an emergency. The phone number is
// the natural key for dedup; enrichment only fills fields that are still
// empty, never overwrites populated ones.
type Caller struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	PhoneNumber string    `gorm:"size:32;uniqueIndex" json:"phoneNumber"`
	Email       string    `gorm:"size:128;index" json:"email"`
	Name        string    `gorm:"size:128" json:"name"`
	Language    string    `gorm:"size:32;default:Tamil" json:"language"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Location is a place record tied to sessions and responders. Locations are
// immutable once created; a session is re-pointed at a new row instead of
// editing an existing one in place.
type Location struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Address        string    `gorm:"size:256" json:"address"`
	Landmark       string    `gorm:"size:256" json:"landmark"`
	GPSCoordinates string    `gorm:"size:64" json:"gpsCoordinates"`
	City           string    `gorm:"size:64" json:"city"`
	District       string    `gorm:"size:64;index" json:"district"`
	CreatedAt      time.Time `json:"createdAt"`
}

package dashboard

import (
	"time"

	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/gorm"
)

const (
	defaultSessionLimit = 50
	maxSessionLimit     = 200
)

// SessionFilter narrows the session list.
type SessionFilter struct {
	Status        string
	EmergencyType string
	Limit         int
}

// ListSessions returns recent sessions, newest first, with caller, location
// and dispatch associations loaded.
func ListSessions(db *gorm.DB, filter SessionFilter) ([]models.Session, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	if limit > maxSessionLimit {
		limit = maxSessionLimit
	}

	q := db.Model(&models.Session{}).
		Preload("Caller").
		Preload("Location").
		Preload("Dispatches").
		Preload("Dispatches.Responder").
		Order("created_at DESC").
		Limit(limit)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EmergencyType != "" {
		q = q.Where("emergency_type = ?", filter.EmergencyType)
	}

	var sessions []models.Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionDetail returns one session with every association, including the
// transcript in timestamp order, or nil when absent.
func SessionDetail(db *gorm.DB, id string) (*models.Session, error) {
	var session models.Session
	err := db.
		Preload("Caller").
		Preload("Location").
		Preload("Dispatches").
		Preload("Dispatches.Responder").
		Preload("Transcripts", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("timestamp ASC, id ASC")
		}).
		First(&session, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Stats summarizes session counts for the operations view.
type Stats struct {
	Total    int64            `json:"total"`
	Recent24 int64            `json:"recent_24h"`
	ByStatus map[string]int64 `json:"by_status"`
	ByType   map[string]int64 `json:"by_type"`
}

// SessionStats aggregates totals, the last-24-hours count, and breakdowns
// by status and emergency type.
func SessionStats(db *gorm.DB) (*Stats, error) {
	stats := &Stats{
		ByStatus: map[string]int64{},
		ByType:   map[string]int64{},
	}

	if err := db.Model(&models.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	if err := db.Model(&models.Session{}).
		Where("created_at >= ?", cutoff).
		Count(&stats.Recent24).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byStatus []bucket
	if err := db.Model(&models.Session{}).
		Select("status as key, count(*) as count").
		Group("status").
		Find(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	var byType []bucket
	if err := db.Model(&models.Session{}).
		Select("emergency_type as key, count(*) as count").
		Group("emergency_type").
		Find(&byType).Error; err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	return stats, nil
}

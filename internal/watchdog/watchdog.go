// Package watchdog sweeps the store on a cron schedule: stale sessions are
// dropped and responders whose dispatches have closed are returned to the
// available pool.
package watchdog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lifeline-ai/lifeline/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Sweeper performs one maintenance pass over sessions and responders.
type Sweeper struct {
	db         *gorm.DB
	staleAfter time.Duration
}

// New creates a Sweeper. staleAfter is how long a session may sit without
// updates before it is considered abandoned.
func New(db *gorm.DB, staleAfter time.Duration) *Sweeper {
	return &Sweeper{db: db, staleAfter: staleAfter}
}

// Report summarizes one sweep.
type Report struct {
	SessionsDropped int
	RespondersFreed int
}

// Sweep drops abandoned sessions and frees responders with no open
// dispatch. A session is abandoned when it is still in a live status but
// has not been touched within the stale window.
func (s *Sweeper) Sweep(now time.Time) (Report, error) {
	var report Report
	cutoff := now.Add(-s.staleAfter)

	var stale []models.Session
	err := s.db.
		Where("status IN ?", []models.SessionStatus{models.SessionActive, models.SessionEmergencyVerified}).
		Where("updated_at < ?", cutoff).
		Find(&stale).Error
	if err != nil {
		return report, fmt.Errorf("watchdog: find stale sessions: %w", err)
	}

	for _, session := range stale {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Session{}).
				Where("id = ?", session.ID).
				Update("status", models.SessionDropped).Error; err != nil {
				return err
			}
			marker := models.SessionTranscript{
				SessionID: session.ID,
				Speaker:   models.SpeakerSystem,
				Content:   fmt.Sprintf("Session dropped after %s of inactivity", s.staleAfter),
				Timestamp: now,
			}
			return tx.Create(&marker).Error
		})
		if err != nil {
			return report, fmt.Errorf("watchdog: drop session %s: %w", session.ID, err)
		}
		report.SessionsDropped++
	}

	// Responders stuck in an active state with every dispatch closed go
	// back to AVAILABLE. OUT_OF_SERVICE units are left alone.
	res := s.db.Model(&models.Responder{}).
		Where("status IN ?", []models.ResponderStatus{
			models.ResponderDispatched, models.ResponderOnRoute,
			models.ResponderOnScene, models.ResponderReturning,
		}).
		Where("NOT EXISTS (SELECT 1 FROM dispatches WHERE dispatches.responder_id = responders.id AND dispatches.status NOT IN ?)",
			[]models.DispatchStatus{models.DispatchCompleted, models.DispatchCancelled}).
		Update("status", models.ResponderAvailable)
	if res.Error != nil {
		return report, fmt.Errorf("watchdog: free responders: %w", res.Error)
	}
	report.RespondersFreed = int(res.RowsAffected)

	return report, nil
}

// Run schedules sweeps with the given 5-field cron expression and blocks
// until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, schedule string) error {
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("watchdog: invalid schedule %q: %w", schedule, err)
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		report, err := s.Sweep(time.Now())
		if err != nil {
			log.Printf("watchdog: sweep failed: %v", err)
			return
		}
		if report.SessionsDropped > 0 || report.RespondersFreed > 0 {
			log.Printf("watchdog: dropped %d sessions, freed %d responders",
				report.SessionsDropped, report.RespondersFreed)
		}
	})
	if err != nil {
		return fmt.Errorf("watchdog: schedule: %w", err)
	}

	c.Start()
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

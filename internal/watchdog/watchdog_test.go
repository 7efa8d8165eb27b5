package watchdog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lifeline-ai/lifeline/internal/db"
	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedSession(t *testing.T, gdb *gorm.DB, status models.SessionStatus, age time.Duration) models.Session {
	t.Helper()
	s := models.Session{
		ID:     uuid.NewString(),
		Status: status,
	}
	if err := gdb.Create(&s).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if age > 0 {
		stamp := time.Now().Add(-age)
		if err := gdb.Model(&models.Session{}).Where("id = ?", s.ID).
			Update("updated_at", stamp).Error; err != nil {
			t.Fatalf("backdate session: %v", err)
		}
	}
	return s
}

func seedResponder(t *testing.T, gdb *gorm.DB, status models.ResponderStatus) models.Responder {
	t.Helper()
	r := models.Responder{
		ID:            uuid.NewString(),
		ResponderType: models.ResponderAmbulance,
		Identifier:    "AMB-" + uuid.NewString()[:8],
		Status:        status,
	}
	if err := gdb.Create(&r).Error; err != nil {
		t.Fatalf("seed responder: %v", err)
	}
	return r
}

func seedDispatch(t *testing.T, gdb *gorm.DB, sessionID, responderID string, status models.DispatchStatus) {
	t.Helper()
	d := models.Dispatch{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		ResponderID:  responderID,
		Status:       status,
		DispatchTime: time.Now(),
	}
	if err := gdb.Create(&d).Error; err != nil {
		t.Fatalf("seed dispatch: %v", err)
	}
}

func TestSweepDropsStaleSessions(t *testing.T) {
	gdb := openTestDB(t)
	stale := seedSession(t, gdb, models.SessionActive, 2*time.Hour)
	verified := seedSession(t, gdb, models.SessionEmergencyVerified, 2*time.Hour)
	fresh := seedSession(t, gdb, models.SessionActive, 0)
	done := seedSession(t, gdb, models.SessionCompleted, 2*time.Hour)

	report, err := New(gdb, time.Hour).Sweep(time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if report.SessionsDropped != 2 {
		t.Fatalf("dropped %d, want 2", report.SessionsDropped)
	}

	wantStatus := map[string]models.SessionStatus{
		stale.ID:    models.SessionDropped,
		verified.ID: models.SessionDropped,
		fresh.ID:    models.SessionActive,
		done.ID:     models.SessionCompleted,
	}
	for id, want := range wantStatus {
		var s models.Session
		if err := gdb.First(&s, "id = ?", id).Error; err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if s.Status != want {
			t.Errorf("session %s: status %s, want %s", id, s.Status, want)
		}
	}
}

func TestSweepWritesDropMarker(t *testing.T) {
	gdb := openTestDB(t)
	stale := seedSession(t, gdb, models.SessionActive, 2*time.Hour)

	if _, err := New(gdb, time.Hour).Sweep(time.Now()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	var entries []models.SessionTranscript
	if err := gdb.Where("session_id = ?", stale.ID).Find(&entries).Error; err != nil {
		t.Fatalf("load transcripts: %v", err)
	}
	if len(entries) != 1 || entries[0].Speaker != models.SpeakerSystem {
		t.Fatalf("entries: %+v", entries)
	}
}

func TestSweepFreesRespondersWithClosedDispatches(t *testing.T) {
	gdb := openTestDB(t)
	session := seedSession(t, gdb, models.SessionCompleted, 0)

	freed := seedResponder(t, gdb, models.ResponderDispatched)
	seedDispatch(t, gdb, session.ID, freed.ID, models.DispatchCompleted)

	busy := seedResponder(t, gdb, models.ResponderOnScene)
	seedDispatch(t, gdb, session.ID, busy.ID, models.DispatchArrived)

	offline := seedResponder(t, gdb, models.ResponderOutOfService)

	report, err := New(gdb, time.Hour).Sweep(time.Now())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if report.RespondersFreed != 1 {
		t.Fatalf("freed %d, want 1", report.RespondersFreed)
	}

	wantStatus := map[string]models.ResponderStatus{
		freed.ID:   models.ResponderAvailable,
		busy.ID:    models.ResponderOnScene,
		offline.ID: models.ResponderOutOfService,
	}
	for id, want := range wantStatus {
		var r models.Responder
		if err := gdb.First(&r, "id = ?", id).Error; err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if r.Status != want {
			t.Errorf("responder %s: status %s, want %s", id, r.Status, want)
		}
	}
}

func TestSweepIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	seedSession(t, gdb, models.SessionActive, 2*time.Hour)

	sweeper := New(gdb, time.Hour)
	if _, err := sweeper.Sweep(time.Now()); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	report, err := sweeper.Sweep(time.Now())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if report.SessionsDropped != 0 {
		t.Fatalf("second sweep dropped %d", report.SessionsDropped)
	}
}

func TestRunRejectsBadSchedule(t *testing.T) {
	gdb := openTestDB(t)
	err := New(gdb, time.Hour).Run(context.Background(), "not a schedule")
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/gorm"
)

// CallerInput carries identifying and profile fields for a caller upsert.
type CallerInput struct {
	Phone    string
	Email    string
	Name     string
	Language string
}

// LocationInput carries the fields of a new location record.
type LocationInput struct {
	Address        string
	Landmark       string
	GPSCoordinates string
	City           string
	District       string
}

func (in LocationInput) empty() bool {
	return in.Address == "" && in.Landmark == "" && in.GPSCoordinates == "" &&
		in.City == "" && in.District == ""
}

// SessionPatch holds the fields of a session create-or-update. Nil fields
// are omitted from updates (partial patch), and zero-valued on creation.
type SessionPatch struct {
	CallerID      *string
	LocationID    *string
	EmergencyType *models.EmergencyType
	Description   *string
	PriorityLevel *int
	Status        *models.SessionStatus
	ResponseNotes *string
}

// DispatchPatch holds the fields of a dispatch create-or-update.
type DispatchPatch struct {
	SessionID   string
	ResponderID string
	Status      *models.DispatchStatus
	Notes       *string
	ArrivalTime *time.Time
}

// UpsertCaller resolves a caller by natural key (phone first, then email)
// and fills only fields the existing record still has empty; a submitted
// value never overwrites a populated one. Absent a match it creates a
// fresh record.
func (s *Store) UpsertCaller(in CallerInput) (*models.Caller, error) {
	var caller *models.Caller
	err := s.do("upsert caller", func(tx *gorm.DB) error {
		var existing models.Caller
		found := false

		if in.Phone != "" {
			if err := tx.Where("phone_number = ?", in.Phone).First(&existing).Error; err == nil {
				found = true
			} else if err != gorm.ErrRecordNotFound {
				return err
			}
		}
		if !found && in.Email != "" {
			if err := tx.Where("email = ?", in.Email).First(&existing).Error; err == nil {
				found = true
			} else if err != gorm.ErrRecordNotFound {
				return err
			}
		}

		if !found {
			language := in.Language
			if language == "" {
				language = s.defaultLanguage
			}
			fresh := models.Caller{
				ID:          uuid.NewString(),
				PhoneNumber: in.Phone,
				Email:       in.Email,
				Name:        in.Name,
				Language:    language,
			}
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
			caller = &fresh
			return nil
		}

		updates := map[string]any{}
		if existing.PhoneNumber == "" && in.Phone != "" {
			updates["phone_number"] = in.Phone
		}
		if existing.Email == "" && in.Email != "" {
			updates["email"] = in.Email
		}
		if existing.Name == "" && in.Name != "" {
			updates["name"] = in.Name
		}
		if existing.Language == "" && in.Language != "" {
			updates["language"] = in.Language
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		caller = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return caller, nil
}

// UpsertLocation creates a new location record when any field is non-empty.
// A fully empty input is a no-op returning (nil, nil): an empty location is
// never written.
func (s *Store) UpsertLocation(in LocationInput) (*models.Location, error) {
	if in.empty() {
		return nil, nil
	}
	loc := models.Location{
		ID:             uuid.NewString(),
		Address:        in.Address,
		Landmark:       in.Landmark,
		GPSCoordinates: in.GPSCoordinates,
		City:           in.City,
		District:       in.District,
	}
	err := s.do("upsert location", func(tx *gorm.DB) error {
		return tx.Create(&loc).Error
	})
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// UpsertSession creates a session when id is empty, otherwise patches only
// the non-nil fields of patch onto the existing record. Updating an unknown
// id returns (nil, nil) so the caller can fall back to creation.
func (s *Store) UpsertSession(id string, patch SessionPatch) (*models.Session, error) {
	if id == "" {
		return s.createSession(patch)
	}

	var session *models.Session
	err := s.do("update session", func(tx *gorm.DB) error {
		var existing models.Session
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		updates := sessionUpdates(patch)
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		session = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Store) createSession(patch SessionPatch) (*models.Session, error) {
	session := models.Session{
		ID:            uuid.NewString(),
		CallerID:      patch.CallerID,
		LocationID:    patch.LocationID,
		EmergencyType: models.EmergencyOther,
		PriorityLevel: 3,
		Status:        models.SessionActive,
	}
	if patch.EmergencyType != nil {
		session.EmergencyType = *patch.EmergencyType
	}
	if patch.Description != nil {
		session.Description = *patch.Description
	}
	if patch.PriorityLevel != nil {
		session.PriorityLevel = *patch.PriorityLevel
	}
	if patch.Status != nil {
		session.Status = *patch.Status
	}
	if patch.ResponseNotes != nil {
		session.ResponseNotes = *patch.ResponseNotes
	}
	err := s.do("create session", func(tx *gorm.DB) error {
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func sessionUpdates(patch SessionPatch) map[string]any {
	updates := map[string]any{}
	if patch.CallerID != nil {
		updates["caller_id"] = *patch.CallerID
	}
	if patch.LocationID != nil {
		updates["location_id"] = *patch.LocationID
	}
	if patch.EmergencyType != nil {
		updates["emergency_type"] = *patch.EmergencyType
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.PriorityLevel != nil {
		updates["priority_level"] = *patch.PriorityLevel
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.ResponseNotes != nil {
		updates["response_notes"] = *patch.ResponseNotes
	}
	return updates
}

// GetSession loads one session by id, or (nil, nil) when absent.
func (s *Store) GetSession(id string) (*models.Session, error) {
	var session *models.Session
	err := s.do("get session", func(tx *gorm.DB) error {
		var found models.Session
		if err := tx.First(&found, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		session = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// UpsertDispatch creates a dispatch when id is empty, otherwise patches the
// existing record. Creation (and only creation) forces the parent session's
// status to DISPATCHED; updates never re-trigger that transition. Updating
// an unknown id returns (nil, nil).
func (s *Store) UpsertDispatch(id string, patch DispatchPatch) (*models.Dispatch, error) {
	if id == "" {
		return s.createDispatch(patch)
	}

	var dispatch *models.Dispatch
	err := s.do("update dispatch", func(tx *gorm.DB) error {
		var existing models.Dispatch
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		updates := map[string]any{}
		if patch.Status != nil {
			updates["status"] = *patch.Status
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}
		if patch.ArrivalTime != nil {
			updates["arrival_time"] = *patch.ArrivalTime
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		dispatch = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dispatch, nil
}

func (s *Store) createDispatch(patch DispatchPatch) (*models.Dispatch, error) {
	dispatch := models.Dispatch{
		ID:           uuid.NewString(),
		SessionID:    patch.SessionID,
		ResponderID:  patch.ResponderID,
		Status:       models.DispatchDispatched,
		DispatchTime: time.Now(),
	}
	if patch.Status != nil {
		dispatch.Status = *patch.Status
	}
	if patch.Notes != nil {
		dispatch.Notes = *patch.Notes
	}
	if patch.ArrivalTime != nil {
		dispatch.ArrivalTime = patch.ArrivalTime
	}
	err := s.do("create dispatch", func(tx *gorm.DB) error {
		if err := tx.Create(&dispatch).Error; err != nil {
			return err
		}
		// The one cross-entity side effect in the upsert layer: the first
		// dispatch moves the session to DISPATCHED.
		return tx.Model(&models.Session{}).
			Where("id = ?", patch.SessionID).
			Update("status", models.SessionDispatched).Error
	})
	if err != nil {
		return nil, err
	}
	return &dispatch, nil
}

// ActiveDispatch returns the session's most recent non-closed dispatch, or
// (nil, nil) when the session holds none.
func (s *Store) ActiveDispatch(sessionID string) (*models.Dispatch, error) {
	var dispatch *models.Dispatch
	err := s.do("active dispatch", func(tx *gorm.DB) error {
		var found models.Dispatch
		err := tx.Where("session_id = ? AND status NOT IN ?", sessionID,
			[]models.DispatchStatus{models.DispatchCompleted, models.DispatchCancelled}).
			Order("dispatch_time DESC").First(&found).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		dispatch = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dispatch, nil
}

// AppendTranscript appends one speaker-tagged utterance to a session. A
// zero timestamp means now. Entries are append-only and never mutated.
func (s *Store) AppendTranscript(sessionID string, speaker models.SpeakerType, content string, ts time.Time) error {
	if ts.IsZero() {
		ts = time.Now()
	}
	entry := models.SessionTranscript{
		SessionID: sessionID,
		Speaker:   speaker,
		Content:   content,
		Timestamp: ts,
	}
	return s.do("append transcript", func(tx *gorm.DB) error {
		return tx.Create(&entry).Error
	})
}

// Transcripts returns a session's transcript entries in timestamp order.
func (s *Store) Transcripts(sessionID string) ([]models.SessionTranscript, error) {
	var entries []models.SessionTranscript
	err := s.do("list transcripts", func(tx *gorm.DB) error {
		return tx.Where("session_id = ?", sessionID).
			Order("timestamp ASC, id ASC").Find(&entries).Error
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

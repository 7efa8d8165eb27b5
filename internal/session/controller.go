// Package session implements the session aggregate controller: the tool
// surface through which the conversation LLM builds up one in-flight
// emergency session from partial, unordered tool invocations.
//
// Every public operation returns a structured Result instead of an error;
// the LLM must always receive a well-formed map it can reason about.
// Unexpected panics are recovered and converted to the same shape.
package session

import (
	"fmt"
	"log"
	"time"

	"github.com/lifeline-ai/lifeline/internal/models"
	"github.com/lifeline-ai/lifeline/internal/store"
	"github.com/lifeline-ai/lifeline/internal/transcript"
)

// Result is the structured map returned to the LLM from every tool call.
type Result map[string]any

// Notifier is the push-channel surface the controller needs. notify.Client
// satisfies it; tests use fakes.
type Notifier interface {
	JoinRoom(id string) error
	Publish(event string, payload any)
}

// nopNotifier backs controllers constructed without a push channel.
type nopNotifier struct{}

func (nopNotifier) JoinRoom(string) error { return nil }
func (nopNotifier) Publish(string, any)   {}

// Policy holds dispatch behavior choices.
type Policy struct {
	// AllowMultipleDispatches permits several live dispatches per session
	// (multi-unit response). When false, a dispatch request against a
	// session already holding a live dispatch patches that dispatch
	// instead of creating another.
	AllowMultipleDispatches bool
}

// Controller owns the single mutable in-flight session for one call. The
// voice pipeline serializes tool invocations per turn, so the controller
// is not safe for concurrent use and does not need to be.
type Controller struct {
	store    *store.Store
	recorder *transcript.Recorder
	notifier Notifier
	policy   Policy

	// sessionID is the one true identifier for the call, minted on first
	// creation and substituted whenever the LLM omits session_id.
	sessionID string
}

// Opts holds parameters for creating a Controller.
type Opts struct {
	Store    *store.Store
	Recorder *transcript.Recorder
	Notifier Notifier
	Policy   Policy
}

// New creates a Controller for one call.
func New(opts Opts) (*Controller, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session: store is required")
	}
	if opts.Recorder == nil {
		return nil, fmt.Errorf("session: recorder is required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Controller{
		store:    opts.Store,
		recorder: opts.Recorder,
		notifier: notifier,
		policy:   opts.Policy,
	}, nil
}

// SessionID returns the currently-held session identifier, empty before the
// first successful creation.
func (c *Controller) SessionID() string { return c.sessionID }

func failure(format string, args ...any) Result {
	return Result{"success": false, "error": fmt.Sprintf(format, args...)}
}

// guard converts a panic into the standard failure shape so nothing below
// the tool boundary ever raises into the conversation loop.
func guard(result *Result) {
	if r := recover(); r != nil {
		log.Printf("session: recovered: %v", r)
		*result = failure("internal error: %v", r)
	}
}

// SessionArgs are the arguments of the create_or_update_session tool.
// Field names are part of the LLM prompt contract and must not change.
type SessionArgs struct {
	SessionID      string `json:"session_id,omitempty"`
	EmergencyType  string `json:"emergency_type,omitempty"`
	Description    string `json:"description,omitempty"`
	CallerPhone    string `json:"caller_phone,omitempty"`
	CallerName     string `json:"caller_name,omitempty"`
	CallerEmail    string `json:"caller_email,omitempty"`
	Language       string `json:"language,omitempty"`
	Address        string `json:"address,omitempty"`
	Landmark       string `json:"landmark,omitempty"`
	GPSCoordinates string `json:"gps_coordinates,omitempty"`
	City           string `json:"city,omitempty"`
	District       string `json:"district,omitempty"`
	PriorityLevel  int    `json:"priority_level,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Status         string `json:"status,omitempty"`
}

func (a SessionArgs) hasCallerFields() bool {
	return a.CallerPhone != "" || a.CallerEmail != ""
}

func (a SessionArgs) hasLocationFields() bool {
	return a.Address != "" || a.Landmark != "" || a.GPSCoordinates != "" ||
		a.City != "" || a.District != ""
}

// CreateOrUpdateSession is the main entry point for managing the session
// aggregate. With no id held it creates the session and the returned
// identifier becomes the one true id for the rest of the call; with an id
// it patches only the supplied fields, falling back to creation when the
// id turns out not to exist.
func (c *Controller) CreateOrUpdateSession(args SessionArgs) (result Result) {
	defer guard(&result)

	if args.PriorityLevel != 0 && (args.PriorityLevel < 1 || args.PriorityLevel > 5) {
		return failure("priority_level must be between 1 and 5, got %d", args.PriorityLevel)
	}

	var status *models.SessionStatus
	if args.Status != "" {
		parsed, ok := models.ParseSessionStatus(args.Status)
		if !ok {
			return failure("invalid status: %s", args.Status)
		}
		status = &parsed
	}

	patch := store.SessionPatch{Status: status}

	var callerID any
	if args.hasCallerFields() {
		caller, err := c.store.UpsertCaller(store.CallerInput{
			Phone:    args.CallerPhone,
			Email:    args.CallerEmail,
			Name:     args.CallerName,
			Language: args.Language,
		})
		if err != nil {
			return failure("failed to save caller: %v", err)
		}
		patch.CallerID = &caller.ID
		callerID = caller.ID
	}

	var locationID any
	if args.hasLocationFields() {
		loc, err := c.store.UpsertLocation(store.LocationInput{
			Address:        args.Address,
			Landmark:       args.Landmark,
			GPSCoordinates: args.GPSCoordinates,
			City:           args.City,
			District:       args.District,
		})
		if err != nil {
			return failure("failed to save location: %v", err)
		}
		if loc != nil {
			patch.LocationID = &loc.ID
			locationID = loc.ID
		}
	}

	var emergencyType any
	if args.EmergencyType != "" {
		et := models.ParseEmergencyType(args.EmergencyType)
		patch.EmergencyType = &et
		emergencyType = string(et)
	}
	if args.Description != "" {
		patch.Description = &args.Description
	}
	if args.PriorityLevel != 0 {
		patch.PriorityLevel = &args.PriorityLevel
	}
	if args.Notes != "" {
		patch.ResponseNotes = &args.Notes
	}

	id := args.SessionID
	if id == "" {
		id = c.sessionID
	}

	created := false
	var session *models.Session
	if id != "" {
		updated, err := c.store.UpsertSession(id, patch)
		if err != nil {
			return failure("failed to update session: %v", err)
		}
		session = updated
	}
	if session == nil {
		// Either no id was held or the update found nothing: start fresh,
		// as for a new call.
		fresh, err := c.store.UpsertSession("", patch)
		if err != nil {
			return failure("failed to create session: %v", err)
		}
		session = fresh
		created = true
	}
	c.sessionID = session.ID

	c.notifier.Publish("session-updated", session)
	if status != nil && status.IsTerminal() {
		c.markSessionEnded(session.ID, *status)
	}

	timestamp := session.UpdatedAt
	if created {
		timestamp = session.CreatedAt
	}
	return Result{
		"success":        true,
		"session_id":     session.ID,
		"caller_id":      callerID,
		"location_id":    locationID,
		"emergency_type": emergencyType,
		"timestamp":      timestamp.UTC().Format(time.RFC3339),
	}
}

// DispatchArgs are the arguments of the dispatch_responder tool.
type DispatchArgs struct {
	SessionID     string `json:"session_id,omitempty"`
	DispatchID    string `json:"dispatch_id,omitempty"`
	ResponderID   string `json:"responder_id,omitempty"`
	EmergencyType string `json:"emergency_type,omitempty"`
	LocationID    string `json:"location_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"` // ISO 8601
}

// DispatchResponder creates or updates the session's dispatch. Without a
// responder_id it matches one from the available pool; an empty pool is a
// normal soft failure, not an error — the conversation continues.
func (c *Controller) DispatchResponder(args DispatchArgs) (result Result) {
	defer guard(&result)

	sessionID := args.SessionID
	if sessionID == "" {
		sessionID = c.sessionID
	}
	if sessionID == "" {
		return failure("no session in progress")
	}
	sess, err := c.store.GetSession(sessionID)
	if err != nil {
		return failure("failed to load session: %v", err)
	}
	if sess == nil {
		return failure("session not found: %s", sessionID)
	}

	var status *models.DispatchStatus
	if args.Status != "" {
		parsed, ok := models.ParseDispatchStatus(args.Status)
		if !ok {
			return failure("invalid status: %s", args.Status)
		}
		status = &parsed
	}

	var arrival *time.Time
	if args.ArrivalTime != "" {
		t, err := time.Parse(time.RFC3339, args.ArrivalTime)
		if err != nil {
			return failure("invalid arrival_time: %s", args.ArrivalTime)
		}
		arrival = &t
	}

	responderID := args.ResponderID
	if responderID == "" && args.EmergencyType != "" {
		et := models.ParseEmergencyType(args.EmergencyType)
		candidates, err := c.store.FindAvailableResponders(et, args.LocationID)
		if err != nil {
			return failure("failed to find responders: %v", err)
		}
		if len(candidates) == 0 {
			return failure("No available responders found")
		}
		responderID = candidates[0].ID
	}
	if responderID == "" && args.DispatchID == "" {
		return failure("No responder ID provided")
	}

	dispatchID := args.DispatchID
	if dispatchID == "" && !c.policy.AllowMultipleDispatches {
		existing, err := c.store.ActiveDispatch(sessionID)
		if err != nil {
			return failure("failed to check dispatches: %v", err)
		}
		if existing != nil {
			dispatchID = existing.ID
		}
	}

	patch := store.DispatchPatch{
		SessionID:   sessionID,
		ResponderID: responderID,
		Status:      status,
		ArrivalTime: arrival,
	}
	if args.Notes != "" {
		patch.Notes = &args.Notes
	}

	created := dispatchID == ""
	dispatch, err := c.store.UpsertDispatch(dispatchID, patch)
	if err != nil {
		return failure("failed to save dispatch: %v", err)
	}
	if dispatch == nil {
		return failure("dispatch not found: %s", dispatchID)
	}

	if created {
		// The session's DISPATCHED transition has already been written and
		// awaited inside the upsert; the audit trail rides behind it.
		c.markResponderDispatched(dispatch.ResponderID)
		c.recorder.Record(sessionID, models.SpeakerSystem,
			fmt.Sprintf("Responder %s dispatched", dispatch.ResponderID), time.Time{})
		c.notifier.Publish("dispatch-created", dispatch)
	} else {
		c.notifier.Publish("dispatch-updated", dispatch)
	}

	timestamp := dispatch.UpdatedAt
	if created {
		timestamp = dispatch.DispatchTime
	}
	return Result{
		"success":      true,
		"dispatch_id":  dispatch.ID,
		"session_id":   sessionID,
		"responder_id": dispatch.ResponderID,
		"timestamp":    timestamp.UTC().Format(time.RFC3339),
		"status":       string(dispatch.Status),
	}
}

// StatusArgs are the arguments of the update_session_status tool.
type StatusArgs struct {
	SessionID     string `json:"session_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Description   string `json:"description,omitempty"`
	PriorityLevel int    `json:"priority_level,omitempty"`
	Notes         string `json:"notes,omitempty"`
	EmergencyType string `json:"emergency_type,omitempty"`
}

// UpdateSessionStatus patches only the supplied fields of the session. A
// terminal status value in the patch is the trigger point for the SYSTEM
// transcript entry marking session end.
func (c *Controller) UpdateSessionStatus(args StatusArgs) (result Result) {
	defer guard(&result)

	sessionID := args.SessionID
	if sessionID == "" {
		sessionID = c.sessionID
	}
	if sessionID == "" {
		return failure("no session in progress")
	}

	if args.PriorityLevel != 0 && (args.PriorityLevel < 1 || args.PriorityLevel > 5) {
		return failure("priority_level must be between 1 and 5, got %d", args.PriorityLevel)
	}

	var status *models.SessionStatus
	if args.Status != "" {
		parsed, ok := models.ParseSessionStatus(args.Status)
		if !ok {
			return failure("invalid status: %s", args.Status)
		}
		status = &parsed
	}

	patch := store.SessionPatch{Status: status}
	if args.Description != "" {
		patch.Description = &args.Description
	}
	if args.PriorityLevel != 0 {
		patch.PriorityLevel = &args.PriorityLevel
	}
	if args.Notes != "" {
		patch.ResponseNotes = &args.Notes
	}
	if args.EmergencyType != "" {
		et := models.ParseEmergencyType(args.EmergencyType)
		patch.EmergencyType = &et
	}

	session, err := c.store.UpsertSession(sessionID, patch)
	if err != nil {
		return failure("failed to update session: %v", err)
	}
	if session == nil {
		return failure("session not found: %s", sessionID)
	}
	c.sessionID = session.ID

	c.notifier.Publish("session-updated", session)
	if status != nil && status.IsTerminal() {
		c.markSessionEnded(session.ID, *status)
	}

	return Result{
		"success":    true,
		"session_id": session.ID,
		"updated_at": session.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// markSessionEnded appends the SYSTEM marker and notifies observers when a
// patch moved the session to a terminal status.
func (c *Controller) markSessionEnded(sessionID string, status models.SessionStatus) {
	c.recorder.Record(sessionID, models.SpeakerSystem,
		fmt.Sprintf("Session ended with status %s", status), time.Time{})
	c.notifier.Publish("session-ended", map[string]any{
		"sessionId": sessionID,
		"status":    string(status),
	})
}

// markResponderDispatched flips the dispatched unit out of the available
// pool. Best-effort: the dispatch record is already the source of truth.
func (c *Controller) markResponderDispatched(responderID string) {
	if err := c.store.MarkResponderStatus(responderID, models.ResponderDispatched); err != nil {
		log.Printf("session: mark responder %s dispatched: %v", responderID, err)
	}
}

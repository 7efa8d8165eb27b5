package models

import "strings"

// EmergencyType classifies an emergency session.
type EmergencyType string

const (
	EmergencyMedical EmergencyType = "MEDICAL"
	EmergencyPolice  EmergencyType = "POLICE"
	EmergencyFire    EmergencyType = "FIRE"
	EmergencyOther   EmergencyType = "OTHER"
)

// ParseEmergencyType maps a free-text value to an EmergencyType. Unrecognized
// values fall back to OTHER; this function never fails.
func ParseEmergencyType(s string) EmergencyType {
	switch EmergencyType(strings.ToUpper(strings.TrimSpace(s))) {
	case EmergencyMedical:
		return EmergencyMedical
	case EmergencyPolice:
		return EmergencyPolice
	case EmergencyFire:
		return EmergencyFire
	default:
		return EmergencyOther
	}
}

// SessionStatus is the lifecycle status of an emergency session.
type SessionStatus string

const (
	SessionActive            SessionStatus = "ACTIVE"
	SessionEmergencyVerified SessionStatus = "EMERGENCY_VERIFIED"
	SessionDispatched        SessionStatus = "DISPATCHED"
	SessionCompleted         SessionStatus = "COMPLETED"
	SessionDropped           SessionStatus = "DROPPED"
	SessionTransferred       SessionStatus = "TRANSFERRED"
	SessionNonEmergency      SessionStatus = "NON_EMERGENCY"
)

// ParseSessionStatus maps a free-text value to a SessionStatus. Unknown
// values are rejected rather than defaulted: a bad status must never be
// written to the store.
func ParseSessionStatus(s string) (SessionStatus, bool) {
	status := SessionStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case SessionActive, SessionEmergencyVerified, SessionDispatched,
		SessionCompleted, SessionDropped, SessionTransferred, SessionNonEmergency:
		return status, true
	}
	return "", false
}

// IsTerminal reports whether the status ends the session lifecycle.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionCompleted, SessionDropped, SessionTransferred, SessionNonEmergency:
		return true
	}
	return false
}

// DispatchStatus tracks a dispatched responder's progress.
type DispatchStatus string

const (
	DispatchDispatched DispatchStatus = "DISPATCHED"
	DispatchEnRoute    DispatchStatus = "EN_ROUTE"
	DispatchArrived    DispatchStatus = "ARRIVED"
	DispatchCompleted  DispatchStatus = "COMPLETED"
	DispatchCancelled  DispatchStatus = "CANCELLED"
)

// ParseDispatchStatus maps a free-text value to a DispatchStatus.
func ParseDispatchStatus(s string) (DispatchStatus, bool) {
	status := DispatchStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case DispatchDispatched, DispatchEnRoute, DispatchArrived,
		DispatchCompleted, DispatchCancelled:
		return status, true
	}
	return "", false
}

// Closed reports whether the dispatch no longer occupies its responder.
func (s DispatchStatus) Closed() bool {
	return s == DispatchCompleted || s == DispatchCancelled
}

// ResponderType is the category of a dispatchable unit.
type ResponderType string

const (
	ResponderAmbulance ResponderType = "AMBULANCE"
	ResponderPolice    ResponderType = "POLICE"
	ResponderFire      ResponderType = "FIRE"
	ResponderOther     ResponderType = "OTHER"
)

// MapEmergencyType resolves the responder category for an emergency type.
// The mapping is total: anything outside MEDICAL/POLICE/FIRE maps to OTHER.
func MapEmergencyType(et EmergencyType) ResponderType {
	switch et {
	case EmergencyMedical:
		return ResponderAmbulance
	case EmergencyPolice:
		return ResponderPolice
	case EmergencyFire:
		return ResponderFire
	default:
		return ResponderOther
	}
}

// ResponderStatus is the availability state of a responder unit.
type ResponderStatus string

const (
	ResponderAvailable    ResponderStatus = "AVAILABLE"
	ResponderDispatched   ResponderStatus = "DISPATCHED"
	ResponderOnRoute      ResponderStatus = "ON_ROUTE"
	ResponderOnScene      ResponderStatus = "ON_SCENE"
	ResponderReturning    ResponderStatus = "RETURNING"
	ResponderOutOfService ResponderStatus = "OUT_OF_SERVICE"
)

// SpeakerType tags who produced a transcript entry.
type SpeakerType string

const (
	SpeakerAgent     SpeakerType = "AGENT"
	SpeakerCaller    SpeakerType = "CALLER"
	SpeakerCandidate SpeakerType = "CANDIDATE"
	SpeakerSystem    SpeakerType = "SYSTEM"
)

// InterviewStatus is the lifecycle status of an interview session.
type InterviewStatus string

const (
	InterviewActive        InterviewStatus = "ACTIVE"
	InterviewCompleted     InterviewStatus = "COMPLETED"
	InterviewCancelled     InterviewStatus = "CANCELLED"
	InterviewPendingReview InterviewStatus = "PENDING_REVIEW"
)

// ParseInterviewStatus maps a free-text value to an InterviewStatus.
func ParseInterviewStatus(s string) (InterviewStatus, bool) {
	status := InterviewStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case InterviewActive, InterviewCompleted, InterviewCancelled, InterviewPendingReview:
		return status, true
	}
	return "", false
}

// IsTerminal reports whether the status ends the interview lifecycle.
func (s InterviewStatus) IsTerminal() bool {
	switch s {
	case InterviewCompleted, InterviewCancelled, InterviewPendingReview:
		return true
	}
	return false
}

// JobLevel is the seniority level for an interview position.
type JobLevel string

const (
	LevelEntry     JobLevel = "ENTRY"
	LevelMid       JobLevel = "MID"
	LevelSenior    JobLevel = "SENIOR"
	LevelLead      JobLevel = "LEAD"
	LevelManager   JobLevel = "MANAGER"
	LevelExecutive JobLevel = "EXECUTIVE"
)

// ParseJobLevel maps a free-text value to a JobLevel, defaulting to ENTRY.
func ParseJobLevel(s string) JobLevel {
	level := JobLevel(strings.ToUpper(strings.TrimSpace(s)))
	switch level {
	case LevelEntry, LevelMid, LevelSenior, LevelLead, LevelManager, LevelExecutive:
		return level
	}
	return LevelEntry
}

package alert

import (
	"fmt"

	"github.com/lifeline-ai/lifeline/internal/models"
)

// Sidebar colors per severity.
const (
	colorError   = "#d50200"
	colorWarning = "#de9e31"
	colorSuccess = "#36a64f"
	colorInfo    = "#439fe0"
)

// emergencyColor maps an emergency type to a sidebar color.
func emergencyColor(et models.EmergencyType) string {
	switch et {
	case models.EmergencyMedical, models.EmergencyFire:
		return colorError
	case models.EmergencyPolice:
		return colorWarning
	default:
		return colorInfo
	}
}

// FormatEmergencyVerified builds the alert for a session whose emergency
// has been confirmed by the caller.
func FormatEmergencyVerified(session *models.Session) FormattedEvent {
	evt := FormattedEvent{
		Title:    fmt.Sprintf("%s emergency reported", session.EmergencyType),
		Body:     session.Description,
		Severity: "warning",
		Color:    emergencyColor(session.EmergencyType),
		Fields: []Field{
			{Name: "Session", Value: session.ID, Short: true},
			{Name: "Priority", Value: fmt.Sprintf("%d", session.PriorityLevel), Short: true},
		},
	}
	if session.Location != nil && session.Location.District != "" {
		evt.Fields = append(evt.Fields,
			Field{Name: "District", Value: session.Location.District, Short: true})
	}
	return evt
}

// FormatDispatchCreated builds the alert for a newly created dispatch.
func FormatDispatchCreated(dispatch *models.Dispatch, responder *models.Responder) FormattedEvent {
	evt := FormattedEvent{
		Title:    fmt.Sprintf("Responder %s dispatched", responder.Identifier),
		Severity: "info",
		Color:    colorInfo,
		Fields: []Field{
			{Name: "Session", Value: dispatch.SessionID, Short: true},
			{Name: "Unit", Value: string(responder.ResponderType), Short: true},
		},
	}
	if dispatch.Notes != "" {
		evt.Body = dispatch.Notes
	}
	return evt
}

// FormatSessionClosed builds the alert for a session reaching a terminal
// status.
func FormatSessionClosed(session *models.Session) FormattedEvent {
	severity := "success"
	color := colorSuccess
	if session.Status == models.SessionDropped {
		severity = "error"
		color = colorError
	}
	return FormattedEvent{
		Title:    fmt.Sprintf("Session closed: %s", session.Status),
		Body:     session.ResponseNotes,
		Severity: severity,
		Color:    color,
		Fields: []Field{
			{Name: "Session", Value: session.ID, Short: true},
			{Name: "Type", Value: string(session.EmergencyType), Short: true},
		},
	}
}

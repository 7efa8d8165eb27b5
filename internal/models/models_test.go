package models

import "testing"

func TestParseEmergencyType(t *testing.T) {
	tests := []struct {
		in   string
		want EmergencyType
	}{
		{"MEDICAL", EmergencyMedical},
		{"medical", EmergencyMedical},
		{" Police ", EmergencyPolice},
		{"FIRE", EmergencyFire},
		{"OTHER", EmergencyOther},
		{"flood", EmergencyOther},
		{"", EmergencyOther},
		{"🔥", EmergencyOther},
	}
	for _, tt := range tests {
		if got := ParseEmergencyType(tt.in); got != tt.want {
			t.Errorf("ParseEmergencyType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapEmergencyType(t *testing.T) {
	tests := []struct {
		in   EmergencyType
		want ResponderType
	}{
		{EmergencyMedical, ResponderAmbulance},
		{EmergencyPolice, ResponderPolice},
		{EmergencyFire, ResponderFire},
		{EmergencyOther, ResponderOther},
		{EmergencyType("EARTHQUAKE"), ResponderOther},
	}
	for _, tt := range tests {
		if got := MapEmergencyType(tt.in); got != tt.want {
			t.Errorf("MapEmergencyType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSessionStatus(t *testing.T) {
	status, ok := ParseSessionStatus("emergency_verified")
	if !ok || status != SessionEmergencyVerified {
		t.Errorf("ParseSessionStatus = %q, %v", status, ok)
	}
	if _, ok := ParseSessionStatus("URGENT"); ok {
		t.Error("expected unknown status to be rejected")
	}
	if _, ok := ParseSessionStatus(""); ok {
		t.Error("expected empty status to be rejected")
	}
}

func TestSessionStatus_IsTerminal(t *testing.T) {
	terminal := []SessionStatus{SessionCompleted, SessionDropped, SessionTransferred, SessionNonEmergency}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	open := []SessionStatus{SessionActive, SessionEmergencyVerified, SessionDispatched}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestParseDispatchStatus(t *testing.T) {
	status, ok := ParseDispatchStatus("en_route")
	if !ok || status != DispatchEnRoute {
		t.Errorf("ParseDispatchStatus = %q, %v", status, ok)
	}
	if _, ok := ParseDispatchStatus("LOST"); ok {
		t.Error("expected unknown dispatch status to be rejected")
	}
}

func TestDispatchStatus_Closed(t *testing.T) {
	if !DispatchCompleted.Closed() || !DispatchCancelled.Closed() {
		t.Error("COMPLETED and CANCELLED should be closed")
	}
	if DispatchDispatched.Closed() || DispatchArrived.Closed() {
		t.Error("active dispatch statuses should not be closed")
	}
}

func TestParseInterviewStatus(t *testing.T) {
	status, ok := ParseInterviewStatus("pending_review")
	if !ok || status != InterviewPendingReview {
		t.Errorf("ParseInterviewStatus = %q, %v", status, ok)
	}
	if !InterviewPendingReview.IsTerminal() {
		t.Error("PENDING_REVIEW should be terminal")
	}
	if InterviewActive.IsTerminal() {
		t.Error("ACTIVE should not be terminal")
	}
}

func TestParseJobLevel(t *testing.T) {
	if got := ParseJobLevel("senior"); got != LevelSenior {
		t.Errorf("ParseJobLevel(senior) = %q", got)
	}
	if got := ParseJobLevel("intern"); got != LevelEntry {
		t.Errorf("ParseJobLevel(intern) = %q, want ENTRY fallback", got)
	}
}

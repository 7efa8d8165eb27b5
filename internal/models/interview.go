package models

import "time"

// Candidate identifies an interviewee. Phone (then email) is the natural
// key; enrichment fills only fields that are still empty.
type Candidate struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Email      string    `gorm:"size:128;index" json:"email"`
	Phone      string    `gorm:"size:32;index" json:"phone"`
	Name       string    `gorm:"size:128" json:"name"`
	Resume     string    `gorm:"type:text" json:"resume"`
	Experience string    `gorm:"type:text" json:"experience"`
	Skills     string    `gorm:"type:text" json:"skills"`
	Education  string    `gorm:"type:text" json:"education"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Interview is the interview-variant aggregate, mirroring Session.
type Interview struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	CandidateID *string         `gorm:"size:36;index" json:"candidateId"`
	Position    string          `gorm:"size:128" json:"position"`
	Department  string          `gorm:"size:64" json:"department"`
	Level       JobLevel        `gorm:"size:16;default:ENTRY" json:"level"`
	Description string          `gorm:"type:text" json:"description"`
	Feedback    string          `gorm:"type:text" json:"feedback"`
	Status      InterviewStatus `gorm:"size:24;default:ACTIVE;index" json:"status"`

	OverallScore             int `gorm:"default:0" json:"overallScore"`
	TechnicalSkillScore      int `gorm:"default:0" json:"technicalSkillScore"`
	ProblemSolvingScore      int `gorm:"default:0" json:"problemSolvingScore"`
	CommunicationScore       int `gorm:"default:0" json:"communicationScore"`
	AttitudeScore            int `gorm:"default:0" json:"attitudeScore"`
	ExperienceRelevanceScore int `gorm:"default:0" json:"experienceRelevanceScore"`

	StrengthsNotes        string `gorm:"type:text" json:"strengthsNotes"`
	ImprovementAreasNotes string `gorm:"type:text" json:"improvementAreasNotes"`
	TechnicalFeedback     string `gorm:"type:text" json:"technicalFeedback"`
	CulturalFitNotes      string `gorm:"type:text" json:"culturalFitNotes"`
	RecommendationNotes   string `gorm:"type:text" json:"recommendationNotes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Candidate   *Candidate            `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Transcripts []InterviewTranscript `gorm:"foreignKey:InterviewID" json:"transcripts,omitempty"`
}

// InterviewTranscript is one ordered utterance in an interview.
type InterviewTranscript struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	InterviewID string      `gorm:"size:36;not null;index" json:"interviewId"`
	Speaker     SpeakerType `gorm:"size:16;not null" json:"speaker"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Timestamp   time.Time   `gorm:"index" json:"timestamp"`
}

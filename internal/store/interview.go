package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/gorm"
)

// CandidateInput carries identifying and profile fields for a candidate
// upsert. Phone, then email, is the natural key.
type CandidateInput struct {
	Phone      string
	Email      string
	Name       string
	Resume     string
	Experience string
	Skills     string
	Education  string
}

// InterviewPatch holds the fields of an interview create-or-update.
type InterviewPatch struct {
	CandidateID *string
	Position    *string
	Department  *string
	Level       *models.JobLevel
	Description *string
	Feedback    *string
	Status      *models.InterviewStatus

	OverallScore             *int
	TechnicalSkillScore      *int
	ProblemSolvingScore      *int
	CommunicationScore       *int
	AttitudeScore            *int
	ExperienceRelevanceScore *int

	StrengthsNotes        *string
	ImprovementAreasNotes *string
	TechnicalFeedback     *string
	CulturalFitNotes      *string
	RecommendationNotes   *string
}

// UpsertCandidate mirrors UpsertCaller for the interview variant: resolve
// by phone then email, fill only empty fields, create when absent.
func (s *Store) UpsertCandidate(in CandidateInput) (*models.Candidate, error) {
	var candidate *models.Candidate
	err := s.do("upsert candidate", func(tx *gorm.DB) error {
		var existing models.Candidate
		found := false

		if in.Phone != "" {
			if err := tx.Where("phone = ?", in.Phone).First(&existing).Error; err == nil {
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
			fresh := models.Candidate{
				ID:         uuid.NewString(),
				Email:      in.Email,
				Phone:      in.Phone,
				Name:       in.Name,
				Resume:     in.Resume,
				Experience: in.Experience,
				Skills:     in.Skills,
				Education:  in.Education,
			}
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
			candidate = &fresh
			return nil
		}

		updates := map[string]any{}
		fill := func(column, current, submitted string) {
			if current == "" && submitted != "" {
				updates[column] = submitted
			}
		}
		fill("phone", existing.Phone, in.Phone)
		fill("email", existing.Email, in.Email)
		fill("name", existing.Name, in.Name)
		fill("resume", existing.Resume, in.Resume)
		fill("experience", existing.Experience, in.Experience)
		fill("skills", existing.Skills, in.Skills)
		fill("education", existing.Education, in.Education)
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		candidate = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// UpsertInterview creates an interview when id is empty, otherwise patches
// only the non-nil fields. Updating an unknown id returns (nil, nil).
func (s *Store) UpsertInterview(id string, patch InterviewPatch) (*models.Interview, error) {
	if id == "" {
		return s.createInterview(patch)
	}

	var interview *models.Interview
	err := s.do("update interview", func(tx *gorm.DB) error {
		var existing models.Interview
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		updates := interviewUpdates(patch)
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		interview = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return interview, nil
}

func (s *Store) createInterview(patch InterviewPatch) (*models.Interview, error) {
	interview := models.Interview{
		ID:          uuid.NewString(),
		CandidateID: patch.CandidateID,
		Level:       models.LevelEntry,
		Status:      models.InterviewActive,
	}
	if patch.Position != nil {
		interview.Position = *patch.Position
	}
	if patch.Department != nil {
		interview.Department = *patch.Department
	}
	if patch.Level != nil {
		interview.Level = *patch.Level
	}
	if patch.Description != nil {
		interview.Description = *patch.Description
	}
	if patch.Status != nil {
		interview.Status = *patch.Status
	}
	err := s.do("create interview", func(tx *gorm.DB) error {
		return tx.Create(&interview).Error
	})
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func interviewUpdates(patch InterviewPatch) map[string]any {
	updates := map[string]any{}
	if patch.CandidateID != nil {
		updates["candidate_id"] = *patch.CandidateID
	}
	if patch.Position != nil {
		updates["position"] = *patch.Position
	}
	if patch.Department != nil {
		updates["department"] = *patch.Department
	}
	if patch.Level != nil {
		updates["level"] = *patch.Level
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Feedback != nil {
		updates["feedback"] = *patch.Feedback
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.OverallScore != nil {
		updates["overall_score"] = *patch.OverallScore
	}
	if patch.TechnicalSkillScore != nil {
		updates["technical_skill_score"] = *patch.TechnicalSkillScore
	}
	if patch.ProblemSolvingScore != nil {
		updates["problem_solving_score"] = *patch.ProblemSolvingScore
	}
	if patch.CommunicationScore != nil {
		updates["communication_score"] = *patch.CommunicationScore
	}
	if patch.AttitudeScore != nil {
		updates["attitude_score"] = *patch.AttitudeScore
	}
	if patch.ExperienceRelevanceScore != nil {
		updates["experience_relevance_score"] = *patch.ExperienceRelevanceScore
	}
	if patch.StrengthsNotes != nil {
		updates["strengths_notes"] = *patch.StrengthsNotes
	}
	if patch.ImprovementAreasNotes != nil {
		updates["improvement_areas_notes"] = *patch.ImprovementAreasNotes
	}
	if patch.TechnicalFeedback != nil {
		updates["technical_feedback"] = *patch.TechnicalFeedback
	}
	if patch.CulturalFitNotes != nil {
		updates["cultural_fit_notes"] = *patch.CulturalFitNotes
	}
	if patch.RecommendationNotes != nil {
		updates["recommendation_notes"] = *patch.RecommendationNotes
	}
	return updates
}

// GetInterview loads one interview by id, or (nil, nil) when absent.
func (s *Store) GetInterview(id string) (*models.Interview, error) {
	var interview *models.Interview
	err := s.do("get interview", func(tx *gorm.DB) error {
		var found models.Interview
		if err := tx.First(&found, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		interview = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return interview, nil
}

// AppendInterviewTranscript appends one utterance to an interview.
func (s *Store) AppendInterviewTranscript(interviewID string, speaker models.SpeakerType, content string, ts time.Time) error {
	if ts.IsZero() {
		ts = time.Now()
	}
	entry := models.InterviewTranscript{
		InterviewID: interviewID,
		Speaker:     speaker,
		Content:     content,
		Timestamp:   ts,
	}
	return s.do("append interview transcript", func(tx *gorm.DB) error {
		return tx.Create(&entry).Error
	})
}

// InterviewTranscripts returns an interview's transcript in timestamp order.
func (s *Store) InterviewTranscripts(interviewID string) ([]models.InterviewTranscript, error) {
	var entries []models.InterviewTranscript
	err := s.do("list interview transcripts", func(tx *gorm.DB) error {
		return tx.Where("interview_id = ?", interviewID).
			Order("timestamp ASC, id ASC").Find(&entries).Error
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Package interview implements the interview-variant aggregate controller.
// It mirrors the emergency session controller: one mutable interview built
// up from partial tool invocations, structured results, never-raise
// semantics at the tool boundary.
package interview

import (
	"fmt"
	"log"
	"time"

	"github.com/lifeline-ai/lifeline/internal/models"
	"github.com/lifeline-ai/lifeline/internal/session"
	"github.com/lifeline-ai/lifeline/internal/store"
	"github.com/lifeline-ai/lifeline/internal/transcript"
)

// FarewellDelay is the grace period between the farewell utterance and the
// realtime teardown, long enough for the candidate to hear it. This is a
// deliberate pause, not a timeout.
const FarewellDelay = 10 * time.Second

// Notifier is the push-channel surface the controller needs.
type Notifier interface {
	JoinRoom(id string) error
	Publish(event string, payload any)
	Close() error
}

// Speaker delivers an utterance through the voice pipeline.
type Speaker interface {
	Say(text string) error
}

// SpeakerFunc adapts a function to the Speaker interface.
type SpeakerFunc func(text string) error

func (f SpeakerFunc) Say(text string) error { return f(text) }

type nopNotifier struct{}

func (nopNotifier) JoinRoom(string) error { return nil }
func (nopNotifier) Publish(string, any)   {}
func (nopNotifier) Close() error          { return nil }

// Controller owns the single in-flight interview for one call.
type Controller struct {
	store    *store.Store
	recorder *transcript.Recorder
	notifier Notifier
	speaker  Speaker
	delay    time.Duration

	interviewID string
}

// Opts holds parameters for creating a Controller.
type Opts struct {
	Store    *store.Store
	Recorder *transcript.Recorder // must sink to interview transcripts
	Notifier Notifier
	Speaker  Speaker
	// Delay overrides the farewell grace period. Tests only; production
	// callers leave it zero to get FarewellDelay.
	Delay time.Duration
}

// New creates a Controller for one interview call.
func New(opts Opts) (*Controller, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("interview: store is required")
	}
	if opts.Recorder == nil {
		return nil, fmt.Errorf("interview: recorder is required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	speaker := opts.Speaker
	if speaker == nil {
		speaker = SpeakerFunc(func(string) error { return nil })
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = FarewellDelay
	}
	return &Controller{
		store:    opts.Store,
		recorder: opts.Recorder,
		notifier: notifier,
		speaker:  speaker,
		delay:    delay,
	}, nil
}

// InterviewID returns the currently-held interview identifier.
func (c *Controller) InterviewID() string { return c.interviewID }

// InterviewArgs are the arguments of the create_or_update_interview tool.
type InterviewArgs struct {
	InterviewID string `json:"interview_id,omitempty"`
	Position    string `json:"position,omitempty"`
	Department  string `json:"department,omitempty"`
	Level       string `json:"level,omitempty"`
	Description string `json:"description,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
	Status      string `json:"status,omitempty"`

	CandidateEmail      string `json:"candidate_email,omitempty"`
	CandidatePhone      string `json:"candidate_phone,omitempty"`
	CandidateName       string `json:"candidate_name,omitempty"`
	CandidateResume     string `json:"candidate_resume,omitempty"`
	CandidateExperience string `json:"candidate_experience,omitempty"`
	CandidateSkills     string `json:"candidate_skills,omitempty"`
	CandidateEducation  string `json:"candidate_education,omitempty"`

	OverallScore             int `json:"overall_score,omitempty"`
	TechnicalSkillScore      int `json:"technical_skill_score,omitempty"`
	ProblemSolvingScore      int `json:"problem_solving_score,omitempty"`
	CommunicationScore       int `json:"communication_score,omitempty"`
	AttitudeScore            int `json:"attitude_score,omitempty"`
	ExperienceRelevanceScore int `json:"experience_relevance_score,omitempty"`

	StrengthsNotes        string `json:"strengths_notes,omitempty"`
	ImprovementAreasNotes string `json:"improvement_areas_notes,omitempty"`
	TechnicalFeedback     string `json:"technical_feedback,omitempty"`
	CulturalFitNotes      string `json:"cultural_fit_notes,omitempty"`
	RecommendationNotes   string `json:"recommendation_notes,omitempty"`
}

func (a InterviewArgs) hasCandidateFields() bool {
	return a.CandidatePhone != "" || a.CandidateEmail != ""
}

func (a InterviewArgs) scores() map[string]int {
	m := map[string]int{}
	add := func(name string, v int) {
		if v != 0 {
			m[name] = v
		}
	}
	add("overall_score", a.OverallScore)
	add("technical_skill_score", a.TechnicalSkillScore)
	add("problem_solving_score", a.ProblemSolvingScore)
	add("communication_score", a.CommunicationScore)
	add("attitude_score", a.AttitudeScore)
	add("experience_relevance_score", a.ExperienceRelevanceScore)
	return m
}

func (a InterviewArgs) hasEvaluation() bool {
	return len(a.scores()) > 0 || a.Feedback != "" || a.StrengthsNotes != "" ||
		a.ImprovementAreasNotes != "" || a.TechnicalFeedback != "" ||
		a.CulturalFitNotes != "" || a.RecommendationNotes != ""
}

// CreateOrUpdateInterview is the main entry point for managing the
// interview aggregate, including candidate sub-document upserts and
// evaluation deltas.
func (c *Controller) CreateOrUpdateInterview(args InterviewArgs) (result session.Result) {
	defer recoverGuard(&result)

	for name, v := range args.scores() {
		if v < 0 || v > 100 {
			return failure("%s must be between 0 and 100, got %d", name, v)
		}
	}

	var status *models.InterviewStatus
	if args.Status != "" {
		parsed, ok := models.ParseInterviewStatus(args.Status)
		if !ok {
			return failure("invalid status: %s", args.Status)
		}
		status = &parsed
	}

	patch := store.InterviewPatch{Status: status}

	var candidateID any
	if args.hasCandidateFields() {
		candidate, err := c.store.UpsertCandidate(store.CandidateInput{
			Phone:      args.CandidatePhone,
			Email:      args.CandidateEmail,
			Name:       args.CandidateName,
			Resume:     args.CandidateResume,
			Experience: args.CandidateExperience,
			Skills:     args.CandidateSkills,
			Education:  args.CandidateEducation,
		})
		if err != nil {
			return failure("failed to save candidate: %v", err)
		}
		patch.CandidateID = &candidate.ID
		candidateID = candidate.ID
	}

	setStr := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setStr(&patch.Position, args.Position)
	setStr(&patch.Department, args.Department)
	setStr(&patch.Description, args.Description)
	setStr(&patch.Feedback, args.Feedback)
	setStr(&patch.StrengthsNotes, args.StrengthsNotes)
	setStr(&patch.ImprovementAreasNotes, args.ImprovementAreasNotes)
	setStr(&patch.TechnicalFeedback, args.TechnicalFeedback)
	setStr(&patch.CulturalFitNotes, args.CulturalFitNotes)
	setStr(&patch.RecommendationNotes, args.RecommendationNotes)
	if args.Level != "" {
		level := models.ParseJobLevel(args.Level)
		patch.Level = &level
	}
	setInt := func(dst **int, v int) {
		if v != 0 {
			*dst = &v
		}
	}
	setInt(&patch.OverallScore, args.OverallScore)
	setInt(&patch.TechnicalSkillScore, args.TechnicalSkillScore)
	setInt(&patch.ProblemSolvingScore, args.ProblemSolvingScore)
	setInt(&patch.CommunicationScore, args.CommunicationScore)
	setInt(&patch.AttitudeScore, args.AttitudeScore)
	setInt(&patch.ExperienceRelevanceScore, args.ExperienceRelevanceScore)

	id := args.InterviewID
	if id == "" {
		id = c.interviewID
	}

	created := false
	var interview *models.Interview
	if id != "" {
		updated, err := c.store.UpsertInterview(id, patch)
		if err != nil {
			return failure("failed to update interview: %v", err)
		}
		interview = updated
	}
	if interview == nil {
		fresh, err := c.store.UpsertInterview("", patch)
		if err != nil {
			return failure("failed to create interview: %v", err)
		}
		interview = fresh
		created = true
	}
	c.interviewID = interview.ID

	if args.hasEvaluation() {
		c.notifier.Publish("update-evaluation", map[string]any{
			"interviewId":    interview.ID,
			"evaluationData": interview,
		})
	}
	if status != nil && status.IsTerminal() {
		c.markInterviewEnded(interview.ID, *status)
	}

	timestamp := interview.UpdatedAt
	if created {
		timestamp = interview.CreatedAt
	}
	return session.Result{
		"success":      true,
		"interview_id": interview.ID,
		"candidate_id": candidateID,
		"status":       string(interview.Status),
		"timestamp":    timestamp.UTC().Format(time.RFC3339),
	}
}

// StatusArgs are the arguments of the update_interview_status tool.
type StatusArgs struct {
	InterviewID string `json:"interview_id,omitempty"`
	Status      string `json:"status,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
}

// UpdateInterviewStatus patches status (and optionally feedback); terminal
// values trigger the SYSTEM transcript marker.
func (c *Controller) UpdateInterviewStatus(args StatusArgs) (result session.Result) {
	defer recoverGuard(&result)

	id := args.InterviewID
	if id == "" {
		id = c.interviewID
	}
	if id == "" {
		return failure("no interview in progress")
	}

	var status *models.InterviewStatus
	if args.Status != "" {
		parsed, ok := models.ParseInterviewStatus(args.Status)
		if !ok {
			return failure("invalid status: %s", args.Status)
		}
		status = &parsed
	}

	patch := store.InterviewPatch{Status: status}
	if args.Feedback != "" {
		patch.Feedback = &args.Feedback
	}

	interview, err := c.store.UpsertInterview(id, patch)
	if err != nil {
		return failure("failed to update interview: %v", err)
	}
	if interview == nil {
		return failure("interview not found: %s", id)
	}
	c.interviewID = interview.ID

	if status != nil && status.IsTerminal() {
		c.markInterviewEnded(interview.ID, *status)
	}

	return session.Result{
		"success":      true,
		"interview_id": interview.ID,
		"updated_at":   interview.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// EndArgs are the arguments of the end_interview_session tool.
type EndArgs struct {
	InterviewID     string `json:"interview_id,omitempty"`
	FarewellMessage string `json:"farewell_message,omitempty"`
	Status          string `json:"status,omitempty"`
}

// EndInterviewSession closes the interview: it speaks a farewell, waits the
// fixed grace period so the candidate hears it, then tears down the
// realtime connection. The wait is part of the contract, not a timeout.
func (c *Controller) EndInterviewSession(args EndArgs) (result session.Result) {
	defer recoverGuard(&result)

	id := args.InterviewID
	if id == "" {
		id = c.interviewID
	}
	if id == "" {
		return failure("no interview in progress")
	}

	status := models.InterviewCompleted
	if args.Status != "" {
		parsed, ok := models.ParseInterviewStatus(args.Status)
		if !ok {
			return failure("invalid status: %s", args.Status)
		}
		status = parsed
	}

	interview, err := c.store.UpsertInterview(id, store.InterviewPatch{Status: &status})
	if err != nil {
		return failure("failed to close interview: %v", err)
	}
	if interview == nil {
		return failure("interview not found: %s", id)
	}
	c.markInterviewEnded(interview.ID, status)

	farewell := args.FarewellMessage
	if farewell == "" {
		farewell = "Thank you for your time today. We will be in touch with the next steps. Goodbye!"
	}
	if err := c.speaker.Say(farewell); err != nil {
		log.Printf("interview: farewell utterance failed: %v", err)
	}
	time.Sleep(c.delay)

	if err := c.notifier.Close(); err != nil {
		log.Printf("interview: notifier close: %v", err)
	}

	return session.Result{
		"success":      true,
		"interview_id": interview.ID,
		"status":       string(status),
	}
}

func (c *Controller) markInterviewEnded(id string, status models.InterviewStatus) {
	c.recorder.Record(id, models.SpeakerSystem,
		fmt.Sprintf("Interview ended with status %s", status), time.Time{})
	c.notifier.Publish("interview-ended", map[string]any{
		"interviewId": id,
		"status":      string(status),
	})
}

func failure(format string, args ...any) session.Result {
	return session.Result{"success": false, "error": fmt.Sprintf(format, args...)}
}

func recoverGuard(result *session.Result) {
	if r := recover(); r != nil {
		log.Printf("interview: recovered: %v", r)
		*result = failure("internal error: %v", r)
	}
}

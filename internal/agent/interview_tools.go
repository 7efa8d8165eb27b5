package agent

import (
	"encoding/json"
	"fmt"

	"github.com/lifeline-ai/lifeline/internal/interview"
	"github.com/lifeline-ai/lifeline/internal/session"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

var interviewStatusEnum = []string{"ACTIVE", "COMPLETED", "CANCELLED", "PENDING_REVIEW"}

// InterviewTools builds the registry for the screening interview agent.
func InterviewTools(ctrl *interview.Controller) *Registry {
	r := NewRegistry()

	scoreDef := func(desc string) jsonschema.Definition {
		return jsonschema.Definition{Type: jsonschema.Integer, Description: desc + " (0-100)"}
	}

	r.Register(Tool{
		Definition: openai.FunctionDefinition{
			Name: "create_or_update_interview",
			Description: "Create or update the interview record. Call this whenever a new detail " +
				"is learned: candidate identity, background, or evaluation scores and notes. " +
				"Omit fields you do not know yet.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"interview_id": {Type: jsonschema.String, Description: "Existing interview id, omit to reuse the current call's interview"},
					"position":     {Type: jsonschema.String},
					"department":   {Type: jsonschema.String},
					"level":        {Type: jsonschema.String, Enum: []string{"ENTRY", "MID", "SENIOR", "LEAD", "MANAGER", "EXECUTIVE"}},
					"description":  {Type: jsonschema.String},
					"feedback":     {Type: jsonschema.String},
					"status":       {Type: jsonschema.String, Enum: interviewStatusEnum},

					"candidate_phone":      {Type: jsonschema.String},
					"candidate_name":       {Type: jsonschema.String},
					"candidate_email":      {Type: jsonschema.String},
					"candidate_resume":     {Type: jsonschema.String},
					"candidate_experience": {Type: jsonschema.String},
					"candidate_skills":     {Type: jsonschema.String},
					"candidate_education":  {Type: jsonschema.String},

					"overall_score":              scoreDef("Overall impression"),
					"technical_skill_score":      scoreDef("Technical depth"),
					"problem_solving_score":      scoreDef("Problem solving"),
					"communication_score":        scoreDef("Communication"),
					"attitude_score":             scoreDef("Attitude and collaboration"),
					"experience_relevance_score": scoreDef("Experience relevance"),

					"strengths_notes":         {Type: jsonschema.String},
					"improvement_areas_notes": {Type: jsonschema.String},
					"technical_feedback":      {Type: jsonschema.String},
					"cultural_fit_notes":      {Type: jsonschema.String},
					"recommendation_notes":    {Type: jsonschema.String},
				},
			},
		},
		Handler: func(args json.RawMessage) session.Result {
			return decode(args, ctrl.CreateOrUpdateInterview)
		},
	})

	r.Register(Tool{
		Definition: openai.FunctionDefinition{
			Name:        "update_interview_status",
			Description: "Update the status of the current interview, optionally with closing feedback.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"interview_id": {Type: jsonschema.String},
					"status":       {Type: jsonschema.String, Enum: interviewStatusEnum},
					"feedback":     {Type: jsonschema.String},
				},
				Required: []string{"status"},
			},
		},
		Handler: func(args json.RawMessage) session.Result {
			return decode(args, ctrl.UpdateInterviewStatus)
		},
	})

	r.Register(Tool{
		Definition: openai.FunctionDefinition{
			Name: "end_interview_session",
			Description: "End the interview call. Speaks the farewell, waits so the candidate " +
				"hears it in full, then disconnects. Call this exactly once, as the last action.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"interview_id":     {Type: jsonschema.String},
					"farewell_message": {Type: jsonschema.String},
					"status":           {Type: jsonschema.String, Enum: interviewStatusEnum},
				},
			},
		},
		Handler: func(args json.RawMessage) session.Result {
			return decode(args, ctrl.EndInterviewSession)
		},
	})

	return r
}

// interviewSystemPrompt is the instruction set for the screening agent.
const interviewSystemPrompt = `You are %s, a professional and friendly technical screening interviewer.

Your job on every call:
1. Confirm who you are speaking with: name, phone or email.
2. Learn their background: experience, skills, education.
3. Ask focused questions about the position they applied for.
4. Score what you observe as the conversation progresses.

Record everything with the create_or_update_interview tool as you learn it; do not wait until the end. Update evaluation scores whenever your assessment changes.

When the interview is over, thank the candidate, set the final status (normally PENDING_REVIEW) and call end_interview_session.

Be encouraging but honest. Ask one question at a time. Keep responses short; this is a voice conversation.`

// InterviewSystemPrompt renders the screening prompt for the given agent name.
func InterviewSystemPrompt(agentName string) string {
	return fmt.Sprintf(interviewSystemPrompt, agentName)
}

// InterviewGreeting is the screening agent's opening line.
func InterviewGreeting(agentName string) string {
	return fmt.Sprintf("Hello, I'm %s and I'll be conducting your screening interview today. Could you start by telling me your name?", agentName)
}

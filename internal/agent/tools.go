package agent

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lifeline-ai/lifeline/internal/session"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// ToolFunc executes one tool invocation. It never returns an error: failures
// are reported inside the result so the model can react to them.
type ToolFunc func(args json.RawMessage) session.Result

// Tool pairs a function-calling definition with its handler.
type Tool struct {
	Definition openai.FunctionDefinition
	Handler    ToolFunc
}

// Registry holds the tools exposed to the model.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds a tool, replacing any previous tool of the same name.
func (r *Registry) Register(t Tool) {
	r.tools[t.Definition.Name] = t
}

// Definitions returns the tool list for a chat completion request, in
// stable name order.
func (r *Registry) Definitions() []openai.Tool {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]openai.Tool, 0, len(names))
	for _, name := range names {
		def := r.tools[name].Definition
		defs = append(defs, openai.Tool{
			Type:     openai.ToolTypeFunction,
			Function: &def,
		})
	}
	return defs
}

// Dispatch runs the named tool. Unknown names and malformed arguments come
// back as failure results, not errors.
func (r *Registry) Dispatch(name string, args json.RawMessage) session.Result {
	tool, ok := r.tools[name]
	if !ok {
		return session.Result{
			"success": false,
			"error":   fmt.Sprintf("unknown tool: %s", name),
		}
	}
	return tool.Handler(args)
}

func decode[T any](args json.RawMessage, fn func(T) session.Result) session.Result {
	var parsed T
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return session.Result{
				"success": false,
				"error":   fmt.Sprintf("invalid tool arguments: %v", err),
			}
		}
	}
	return fn(parsed)
}

// SessionTools builds the registry for the emergency intake agent.
func SessionTools(ctrl *session.Controller) *Registry {
	r := NewRegistry()

	r.Register(Tool{
		Definition: openai.FunctionDefinition{
			Name: "create_or_update_session",
			Description: "Create or update the emergency session. Call this as soon as any " +
				"detail is learned: emergency type, description, caller identity, location. " +
				"Omit fields you do not know yet; they are filled in later calls.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"session_id":      {Type: jsonschema.String, Description: "Existing session id, omit to reuse the current call's session"},
					"emergency_type":  {Type: jsonschema.String, Enum: []string{"MEDICAL", "POLICE", "FIRE", "OTHER"}},
					"description":     {Type: jsonschema.String, Description: "What is happening, in the caller's words"},
					"caller_phone":    {Type: jsonschema.String},
					"caller_name":     {Type: jsonschema.String},
					"caller_email":    {Type: jsonschema.String},
					"language":        {Type: jsonschema.String},
					"address":         {Type: jsonschema.String},
					"landmark":        {Type: jsonschema.String},
					"gps_coordinates": {Type: jsonschema.String},
					"city":            {Type: jsonschema.String},
					"district":        {Type: jsonschema.String},
					"priority_level":  {Type: jsonschema.Integer, Description: "1 (most urgent) to 5"},
					"notes":           {Type: jsonschema.String},
					"status":          {Type: jsonschema.String, Enum: []string{"ACTIVE", "EMERGENCY_VERIFIED", "DISPATCHED", "COMPLETED", "DROPPED", "TRANSFERRED", "NON_EMERGENCY"}},
				},
			},
		},
		Handler: func(args json.RawMessage) session.Result {
			return decode(args, ctrl.CreateOrUpdateSession)
		},
	})

	r.Register(Tool{
		Definition: openai.FunctionDefinition{
			Name: "dispatch_responder",
			Description: "Dispatch an emergency responder to the current session, or update an " +
				"existing dispatch. With no responder_id, an available unit matching the " +
				"emergency type is selected automatically.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"session_id":     {Type: jsonschema.String, Description: "Existing session id, omit to reuse the current call's session"},
					"dispatch_id":    {Type: jsonschema.String, Description: "Existing dispatch to update"},
					"responder_id":   {Type: jsonschema.String},
					"emergency_type": {Type: jsonschema.String, Enum: []string{"MEDICAL", "POLICE", "FIRE", "OTHER"}},
					"location_id":    {Type: jsonschema.String},
					"notes":          {Type: jsonschema.String},
					"status":         {Type: jsonschema.String, Enum: []string{"DISPATCHED", "EN_ROUTE", "ARRIVED", "COMPLETED", "CANCELLED"}},
					"arrival_time":   {Type: jsonschema.String, Description: "RFC 3339 timestamp"},
				},
			},
		},
		Handler: func(args json.RawMessage) session.Result {
			return decode(args, ctrl.DispatchResponder)
		},
	})

	r.Register(Tool{
		Definition: openai.FunctionDefinition{
			Name: "update_session_status",
			Description: "Update the status of the current session. Use COMPLETED when the " +
				"emergency is resolved, NON_EMERGENCY for false alarms, TRANSFERRED when " +
				"handing off to a human operator.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"session_id":     {Type: jsonschema.String},
					"status":         {Type: jsonschema.String, Enum: []string{"ACTIVE", "EMERGENCY_VERIFIED", "DISPATCHED", "COMPLETED", "DROPPED", "TRANSFERRED", "NON_EMERGENCY"}},
					"description":    {Type: jsonschema.String},
					"priority_level": {Type: jsonschema.Integer, Description: "1 (most urgent) to 5"},
					"emergency_type": {Type: jsonschema.String, Enum: []string{"MEDICAL", "POLICE", "FIRE", "OTHER"}},
					"notes":          {Type: jsonschema.String},
				},
			},
		},
		Handler: func(args json.RawMessage) session.Result {
			return decode(args, ctrl.UpdateSessionStatus)
		},
	})

	return r
}

// Package agent runs the text-mode intake loop: a chat model with
// function-calling drives the session tools while the transcript recorder
// captures both sides of the conversation.
package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/lifeline-ai/lifeline/internal/interview"
	"github.com/lifeline-ai/lifeline/internal/models"
	"github.com/lifeline-ai/lifeline/internal/session"
	"github.com/lifeline-ai/lifeline/internal/transcript"
	openai "github.com/sashabaranov/go-openai"
)

// maxToolRounds caps tool-call round trips within a single caller turn.
const maxToolRounds = 8

// chatClient abstracts the OpenAI API surface we use, enabling test mocks.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Notifier is the push-channel surface the runner needs.
type Notifier interface {
	JoinRoom(id string) error
}

type nopNotifier struct{}

func (nopNotifier) JoinRoom(string) error { return nil }

// Profile binds the runner to one kind of conversation: which tools the
// model sees, how the aggregate is opened, and how utterances are tagged.
type Profile struct {
	Registry     *Registry
	Open         func() (string, error) // create the aggregate, return its id
	HeldID       func() string
	SystemPrompt string
	Greeting     string
	Speaker      models.SpeakerType // tag for the human side of the call
}

// SessionProfile drives an emergency intake call.
func SessionProfile(ctrl *session.Controller, agentName, language string) Profile {
	return Profile{
		Registry: SessionTools(ctrl),
		Open: func() (string, error) {
			res := ctrl.CreateOrUpdateSession(session.SessionArgs{
				Description: "details pending",
			})
			if res["success"] != true {
				return "", fmt.Errorf("open session: %v", res["error"])
			}
			return ctrl.SessionID(), nil
		},
		HeldID:       ctrl.SessionID,
		SystemPrompt: SystemPrompt(agentName, language),
		Greeting:     Greeting(agentName),
		Speaker:      models.SpeakerCaller,
	}
}

// InterviewProfile drives a screening interview call.
func InterviewProfile(ctrl *interview.Controller, agentName string) Profile {
	return Profile{
		Registry: InterviewTools(ctrl),
		Open: func() (string, error) {
			res := ctrl.CreateOrUpdateInterview(interview.InterviewArgs{
				Description: "details pending",
			})
			if res["success"] != true {
				return "", fmt.Errorf("open interview: %v", res["error"])
			}
			return ctrl.InterviewID(), nil
		},
		HeldID:       ctrl.InterviewID,
		SystemPrompt: InterviewSystemPrompt(agentName),
		Greeting:     InterviewGreeting(agentName),
		Speaker:      models.SpeakerCandidate,
	}
}

// Runner owns one conversation.
type Runner struct {
	client   chatClient
	model    string
	profile  Profile
	recorder *transcript.Recorder
	notifier Notifier
	in       io.Reader
	out      io.Writer

	agentName string
	messages  []openai.ChatCompletionMessage
}

// Opts holds parameters for creating a Runner.
type Opts struct {
	Client   chatClient
	Model    string
	Profile  Profile
	Recorder *transcript.Recorder
	Notifier Notifier
	Input    io.Reader
	Output   io.Writer

	AgentName string
}

// NewClient builds the production chat client.
func NewClient(apiKey, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}

// New creates a Runner.
func New(opts Opts) (*Runner, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("agent: chat client is required")
	}
	if opts.Profile.Registry == nil || opts.Profile.Open == nil || opts.Profile.HeldID == nil {
		return nil, fmt.Errorf("agent: profile is incomplete")
	}
	if opts.Recorder == nil {
		return nil, fmt.Errorf("agent: recorder is required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	agentName := opts.AgentName
	if agentName == "" {
		agentName = "inbound-agent"
	}
	return &Runner{
		client:    opts.Client,
		model:     model,
		profile:   opts.Profile,
		recorder:  opts.Recorder,
		notifier:  notifier,
		in:        opts.Input,
		out:       opts.Output,
		agentName: agentName,
	}, nil
}

// Start opens the call: it creates the placeholder aggregate, joins the
// realtime room, and speaks the greeting.
func (r *Runner) Start(ctx context.Context) error {
	id, err := r.profile.Open()
	if err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := r.notifier.JoinRoom(id); err != nil {
		log.Printf("agent: join room: %v", err)
	}

	r.messages = []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: r.profile.SystemPrompt},
	}

	r.say(r.profile.Greeting)
	r.recorder.Record(id, models.SpeakerAgent, r.profile.Greeting, time.Now())
	r.messages = append(r.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: r.profile.Greeting,
	})
	return nil
}

// Run drives the full conversation until EOF or an exit command.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply, err := r.Turn(ctx, line)
		if err != nil {
			return err
		}
		r.say(reply)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("agent: read input: %w", err)
	}
	return nil
}

// Turn processes one human utterance and returns the agent's reply,
// executing any tool calls the model makes along the way.
func (r *Runner) Turn(ctx context.Context, utterance string) (string, error) {
	r.recorder.Record(r.profile.HeldID(), r.profile.Speaker, utterance, time.Now())
	r.messages = append(r.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: utterance,
	})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    r.model,
			Messages: r.messages,
			Tools:    r.profile.Registry.Definitions(),
		})
		if err != nil {
			return "", fmt.Errorf("agent: chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("agent: no response choices")
		}

		msg := resp.Choices[0].Message
		r.messages = append(r.messages, msg)

		if len(msg.ToolCalls) == 0 {
			r.recorder.Record(r.profile.HeldID(), models.SpeakerAgent, msg.Content, time.Now())
			return msg.Content, nil
		}

		for _, call := range msg.ToolCalls {
			result := r.profile.Registry.Dispatch(call.Function.Name, json.RawMessage(call.Function.Arguments))
			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"success":false,"error":"unencodable tool result"}`)
			}
			r.messages = append(r.messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    string(payload),
			})
		}
	}
	return "", fmt.Errorf("agent: tool rounds exhausted")
}

func (r *Runner) say(text string) {
	if r.out != nil {
		fmt.Fprintf(r.out, "%s: %s\n", r.agentName, text)
	}
}

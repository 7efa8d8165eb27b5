package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifeline-ai/lifeline/internal/agent"
	"github.com/lifeline-ai/lifeline/internal/alert"
	alertdiscord "github.com/lifeline-ai/lifeline/internal/alert/discord"
	alertslack "github.com/lifeline-ai/lifeline/internal/alert/slack"
	"github.com/lifeline-ai/lifeline/internal/config"
	"github.com/lifeline-ai/lifeline/internal/notify"
	"github.com/lifeline-ai/lifeline/internal/session"
	"github.com/lifeline-ai/lifeline/internal/store"
	"github.com/lifeline-ai/lifeline/internal/transcript"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAgentCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the emergency intake agent in text mode",
		Long:  "Answers one call on stdin/stdout: classifies the emergency, records details, and dispatches responders.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "lifeline.yaml", "path to Lifeline config file")
	return cmd
}

// buildAlertHub assembles the configured chat-platform adapters. A hub with
// no adapters is returned when none are configured.
func buildAlertHub(cfg *config.Config) (*alert.Hub, error) {
	hub := alert.NewHub()
	if cfg.Alerts.Slack.BotToken != "" {
		a, err := alertslack.New(alertslack.AdapterOpts{
			BotToken:  cfg.Alerts.Slack.BotToken,
			ChannelID: cfg.Alerts.Slack.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		hub.Register(a)
	}
	if cfg.Alerts.Discord.BotToken != "" {
		a, err := alertdiscord.New(alertdiscord.AdapterOpts{
			BotToken:  cfg.Alerts.Discord.BotToken,
			ChannelID: cfg.Alerts.Discord.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		hub.Register(a)
	}
	return hub, nil
}

func runAgent(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key (or OPENAI_API_KEY) is required for the agent")
	}

	st := store.New(cfg.MySQL, cfg.Language)
	defer st.Close()

	recorder := transcript.New(transcript.SinkFunc(st.AppendTranscript), 64)
	defer recorder.Close()

	notifier := notify.New(notify.Opts{
		URL:       cfg.Realtime.URL,
		AgentName: cfg.AgentName,
	})
	if err := notifier.Connect(); err != nil {
		log.Printf("realtime connect: %v (continuing without push events)", err)
	}
	defer notifier.Close()

	hub, err := buildAlertHub(cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hub.Connect(ctx); err != nil {
		log.Printf("alert connect: %v (continuing without alerts)", err)
	}
	defer hub.Close()

	bridge := alert.NewBridge(notifier, hub, st.GetResponder)

	ctrl, err := session.New(session.Opts{
		Store:    st,
		Recorder: recorder,
		Notifier: bridge,
		Policy:   session.Policy{AllowMultipleDispatches: cfg.Dispatch.AllowMultiple},
	})
	if err != nil {
		return err
	}

	runner, err := agent.New(agent.Opts{
		Client:    agent.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL),
		Model:     cfg.LLM.Model,
		Profile:   agent.SessionProfile(ctrl, cfg.AgentName, cfg.Language),
		Recorder:  recorder,
		Notifier:  bridge,
		Input:     cmd.InOrStdin(),
		Output:    out,
		AgentName: cfg.AgentName,
	})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, ending call...\n", sig)
		cancel()
	}()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(out, "Lifeline intake agent. Type your messages; 'exit' ends the call.")
	}

	return runner.Run(ctx)
}

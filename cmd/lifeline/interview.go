package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifeline-ai/lifeline/internal/agent"
	"github.com/lifeline-ai/lifeline/internal/config"
	"github.com/lifeline-ai/lifeline/internal/interview"
	"github.com/lifeline-ai/lifeline/internal/notify"
	"github.com/lifeline-ai/lifeline/internal/store"
	"github.com/lifeline-ai/lifeline/internal/transcript"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newInterviewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run the screening interview agent in text mode",
		Long:  "Conducts one candidate screening on stdin/stdout, recording evaluation scores as the conversation progresses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterview(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "lifeline.yaml", "path to Lifeline config file")
	return cmd
}

func runInterview(cmd *cobra.Command, configPath string) error {
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

	recorder := transcript.New(transcript.SinkFunc(st.AppendInterviewTranscript), 64)
	defer recorder.Close()

	notifier := notify.New(notify.Opts{
		URL:       cfg.Realtime.URL,
		AgentName: cfg.AgentName,
		JoinEvent: "join-interview",
	})
	if err := notifier.Connect(); err != nil {
		log.Printf("realtime connect: %v (continuing without push events)", err)
	}
	defer notifier.Close()

	ctrl, err := interview.New(interview.Opts{
		Store:    st,
		Recorder: recorder,
		Notifier: notifier,
		Speaker: interview.SpeakerFunc(func(text string) error {
			fmt.Fprintf(out, "%s: %s\n", cfg.AgentName, text)
			return nil
		}),
	})
	if err != nil {
		return err
	}

	runner, err := agent.New(agent.Opts{
		Client:    agent.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL),
		Model:     cfg.LLM.Model,
		Profile:   agent.InterviewProfile(ctrl, cfg.AgentName),
		Recorder:  recorder,
		Notifier:  notifier,
		Input:     cmd.InOrStdin(),
		Output:    out,
		AgentName: cfg.AgentName,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, ending interview...\n", sig)
		cancel()
	}()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(out, "Lifeline interview agent. Type your answers; 'exit' ends the call.")
	}

	return runner.Run(ctx)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lifeline-ai/lifeline/internal/watchdog"
	"github.com/spf13/cobra"
)

func newWatchdogCmd() *cobra.Command {
	var (
		configPath string
		once       bool
	)

	cmd := &cobra.Command{
		Use:   "watchdog",
		Short: "Run the store maintenance sweeper",
		Long:  "Drops sessions abandoned mid-call and returns responders with closed dispatches to the available pool.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchdog(cmd, configPath, once)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "lifeline.yaml", "path to Lifeline config file")
	cmd.Flags().BoolVar(&once, "once", false, "run a single sweep and exit")
	return cmd
}

func runWatchdog(cmd *cobra.Command, configPath string, once bool) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	staleAfter := time.Duration(cfg.Watchdog.StaleAfterMins) * time.Minute
	sweeper := watchdog.New(gormDB, staleAfter)

	if once {
		report, err := sweeper.Sweep(time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Dropped %d sessions, freed %d responders\n",
			report.SessionsDropped, report.RespondersFreed)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	fmt.Fprintf(out, "Watchdog running on schedule %q (stale after %s)\n",
		cfg.Watchdog.Schedule, staleAfter)
	return sweeper.Run(ctx, cfg.Watchdog.Schedule)
}

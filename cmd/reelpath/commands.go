package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/reelpath/internal/app"
	"github.com/vanshika/reelpath/internal/config"
	"github.com/vanshika/reelpath/internal/logging"
	"github.com/vanshika/reelpath/internal/search"
	"github.com/vanshika/reelpath/internal/service"
)

type findOptions struct {
	progress bool
	dataset  string
	fanOut   int
	timeout  time.Duration
	maxSteps int
	verbose  bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reelpath",
		Short: "Connect two movies through actors they share",
		Long: `reelpath finds a chain of movies linking two titles, where each
consecutive pair shares a cast member. Lookups go to TMDB unless a local
catalog file is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newFindCmd())
	return root
}

func newFindCmd() *cobra.Command {
	opts := findOptions{}
	cmd := &cobra.Command{
		Use:   "find <start title> <target title>",
		Short: "Find an actor chain between two movies",
		Example: `  reelpath find "The Matrix" "Heat"
  reelpath find --dataset data/catalog.yaml --progress "The Silent Harbor" "A Golden Mirror"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runFind(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.progress, "progress", false, "print each movie as it is expanded")
	flags.StringVar(&opts.dataset, "dataset", "", "search a local YAML/JSON catalog instead of TMDB")
	flags.IntVar(&opts.fanOut, "fan-out", 0, "concurrent credit lookups per step (default from SEARCH_FAN_OUT)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "give up after this long (default from SEARCH_TIMEOUT)")
	flags.IntVar(&opts.maxSteps, "max-steps", -1, "stop after this many expansions, 0 for no limit (default from SEARCH_MAX_STEPS)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log catalog lookups to stderr")
	return cmd
}

func runFind(ctx context.Context, out, errOut io.Writer, opts findOptions, start, target string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if opts.dataset != "" {
		cfg.Catalog.Source = config.SourceDataset
		cfg.Catalog.DatasetPath = opts.dataset
	}
	if opts.fanOut > 0 {
		cfg.Search.FanOut = opts.fanOut
	}
	if opts.timeout > 0 {
		cfg.Search.Timeout = opts.timeout
	}
	if opts.maxSteps >= 0 {
		cfg.Search.MaxSteps = opts.maxSteps
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := cfg.Logging
	if !opts.verbose {
		logCfg.Level = "error"
	}
	logger := logging.NewWithWriter(logCfg, errOut)

	stack, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close(context.Background())

	ctx, cancel := context.WithTimeout(ctx, cfg.Search.Timeout)
	defer cancel()

	req := service.ConnectionRequest{Start: start, Target: target}
	if opts.progress {
		req.Observer = func(p search.Progress) {
			fmt.Fprintf(out, "Pruning: %s\n", p.Movie.Title)
		}
	}

	conn, err := service.NewConnectionService(stack.Engine, logger, stack.Metrics).FindConnection(ctx, req)
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("no answer within %s", cfg.Search.Timeout)
	case err != nil:
		return err
	}

	fmt.Fprintln(out, conn.Message)
	if conn.Truncated {
		fmt.Fprintf(out, "(stopped after %d steps)\n", conn.Steps)
	}
	return nil
}

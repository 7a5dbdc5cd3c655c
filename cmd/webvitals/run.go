package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/torosent/webvitals"
	"github.com/torosent/webvitals/internal/config"
	"github.com/torosent/webvitals/internal/output"
	"github.com/torosent/webvitals/internal/tracing"
)

const progressInterval = time.Second

type runOptions struct {
	script    string
	frameRate int
	autoLoad  bool
	progress  bool
	format    string
	budgets   []string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a metrics session driven by a host script",
		Long: `Run starts a session and drives its page from a script read line by line.
SIGINT hides the page (a second SIGINT closes it) and SIGTERM closes the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, opts)
		},
	}
	config.RegisterFlags(cmd)

	flags := cmd.Flags()
	flags.StringVar(&opts.script, "script", "-", "Host script to execute ('-' reads stdin)")
	flags.IntVar(&opts.frameRate, "frame-rate", 0, "Frames per second produced by the built-in frame source (0 disables it)")
	flags.BoolVar(&opts.autoLoad, "auto-load", true, "Release the after-load barrier as soon as the session starts")
	flags.BoolVar(&opts.progress, "progress", false, "Print pending metrics to stderr while running")
	flags.StringVar(&opts.format, "output", formatText, "Output format: text, json or yaml")
	flags.StringArrayVar(&opts.budgets, "budget", nil, "Budget checked against the metrics held at close, e.g. 'fps >= 50' (repeatable)")
	return cmd
}

func runSession(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := config.NewLoader().LoadFlags(cmd.Flags())
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts.format, cfg.JSONOutput)
	if err != nil {
		return err
	}
	budgets, err := parseBudgets(opts.budgets)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel, cfg.JSONOutput, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer done()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	cfg.ReportCallback = logReport(logger)
	wv, err := webvitals.New(*cfg,
		webvitals.WithLogger(logger),
		webvitals.WithTracer(provider.Tracer()),
	)
	if err != nil {
		return err
	}
	logger.WithField("section_id", wv.Session().SectionID).Info("session started")

	if opts.autoLoad {
		wv.Page().Loaded()
	}
	if opts.frameRate > 0 {
		go renderFrames(ctx, wv, opts.frameRate)
	}

	stopSignals := handleSignals(ctx, cancel, wv, logger)
	defer stopSignals()

	if opts.progress {
		progress := output.NewProgressReporter(wv.GetCurrentMetrics, progressInterval, cmd.ErrOrStderr())
		progress.Start()
		defer func() {
			progress.Stop()
			fmt.Fprintln(cmd.ErrOrStderr())
		}()
	}

	script, closeScript, err := openScript(opts.script, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer closeScript()

	host := &scriptHost{wv: wv, out: cmd.OutOrStdout(), format: format}
	scriptDone := make(chan error, 1)
	go func() { scriptDone <- host.run(ctx, script) }()

	var runErr error
	select {
	case err := <-scriptDone:
		if err != nil && !errors.Is(err, errScriptClosed) && !errors.Is(err, context.Canceled) {
			runErr = err
		}
	case <-ctx.Done():
	}

	final := wv.GetCurrentMetrics()
	closeCtx, done := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer done()
	if err := wv.Close(closeCtx); err != nil {
		logger.WithError(err).Warn("session close incomplete")
	}

	if err := printValues(cmd.OutOrStdout(), final, format); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return checkBudgets(budgetWriter(cmd, format), final, budgets)
}

func logReport(logger logrus.FieldLogger) webvitals.Callback {
	return func(r webvitals.Report) {
		logger.WithFields(logrus.Fields{
			"section_id": r.SectionID,
			"metric":     r.Data.Name,
			"value":      r.Data.String(),
		}).Info("metric reported")
	}
}

func renderFrames(ctx context.Context, wv *webvitals.WebVitals, fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wv.Page().Frame()
		}
	}
}

// handleSignals maps SIGINT to a hidden page and SIGTERM (or a second SIGINT) to
// the end of the session.
func handleSignals(ctx context.Context, cancel context.CancelFunc, wv *webvitals.WebVitals, logger logrus.FieldLogger) func() {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		hidden := false
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigs:
				if sig == os.Interrupt && !hidden {
					hidden = true
					logger.Info("interrupt received, page hidden")
					wv.Page().Hide()
					continue
				}
				logger.WithField("signal", sig.String()).Info("closing session")
				cancel()
				return
			}
		}
	}()
	return func() { signal.Stop(sigs) }
}

func openScript(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/config"
	"github.com/magidevv/authflows/internal/fakeapp"
	"github.com/magidevv/authflows/internal/observability"
	"github.com/magidevv/authflows/internal/reporting"
	"github.com/magidevv/authflows/internal/scenarios"
)

const shutdownTimeout = 15 * time.Second

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	var (
		filter   scenarios.Filter
		list     bool
		withFake bool
		report   reportOptions
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the login and registration scenarios in a browser",
		Long: `Run every scenario that targets the configured application (target.app).

Scenarios are named "Suite/Name", for example "Registration/invalid email".
Use --run and --skip to select them by regular expression. The command exits
non-zero when any selected scenario fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if f := report.format; f != reporting.FormatJUnit && f != reporting.FormatJSON {
				return fmt.Errorf("unsupported output format: %s", f)
			}
			if pattern := cfg.Runner().Filter; pattern != "" && !filter.MustMatch.IsDefined() {
				if err := filter.MustMatch.Set(pattern); err != nil {
					return fmt.Errorf("runner.filter: %w", err)
				}
			}

			entries := scenarios.AllEntries()
			if list {
				listScenarios(cmd.OutOrStdout(), cfg, filter, entries)
				return nil
			}

			ctx := cmd.Context()
			logger := observability.GetLogger()
			if withFake {
				stop, err := startFakeApp(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer stop()
			}
			return runScenarios(ctx, cmd.OutOrStdout(), cfg, logger, filter, entries, report)
		},
	}

	flags := runCmd.Flags()
	flags.Var(&filter.MustMatch, "run", "Only run scenarios whose name matches this regex. Repeatable.")
	flags.Var(&filter.MustNotMatch, "skip", "Skip scenarios whose name matches this regex. Repeatable.")
	flags.BoolVar(&list, "list", false, "List the selected scenarios without running them.")
	flags.BoolVar(&withFake, "fake-app", false, "Start the built-in fake application and run against it.")
	flags.StringVarP(&report.path, "output", "o", "", "Write a report to this file. If unset, no report is written.")
	flags.StringVarP(&report.format, "format", "f", reporting.FormatJUnit, "Report format, 'junit' or 'json'.")

	flags.String("app", "", "Application under test, 'tracker' or 'portal'. (Overrides config/env)")
	flags.String("base-url", "", "Base URL of the application under test. (Overrides BASE_URL)")
	flags.IntP("concurrency", "j", 0, "Number of scenarios run at once. (Overrides config/env)")
	flags.Float64("start-rate", 0, "Maximum scenario starts per second, 0 for no limit. (Overrides config/env)")
	flags.Duration("timeout", 0, "Per-scenario timeout. (Overrides config/env)")
	flags.Bool("headless", true, "Run Chrome without a window. (Overrides config/env)")
	configFlag(runCmd, "app", "target.app")
	configFlag(runCmd, "base-url", "target.base_url")
	configFlag(runCmd, "concurrency", "runner.concurrency")
	configFlag(runCmd, "start-rate", "runner.start_rate")
	configFlag(runCmd, "timeout", "runner.scenario_timeout")
	configFlag(runCmd, "headless", "browser.headless")

	return runCmd
}

func listScenarios(w io.Writer, cfg config.Interface, filter scenarios.Filter, entries []scenarios.Entry) {
	app := cfg.Target().App
	for _, e := range entries {
		if e.App != app || !filter.Match(e.ID) {
			continue
		}
		fmt.Fprintln(w, e.ID)
	}
}

type reportOptions struct {
	path   string
	format string
}

// runScenarios drives the selected scenarios through one browser and prints
// the summary to out.
func runScenarios(ctx context.Context, out io.Writer, cfg config.Interface, logger *zap.Logger, filter scenarios.Filter, entries []scenarios.Entry, report reportOptions) error {
	if cfg.Target().BaseURL == "" {
		logger.Warn("No base URL configured. Set BASE_URL or target.base_url; scenarios will fail on navigation.")
	}
	if desc := filter.Describe(); desc != "" {
		logger.Info("Scenario filter active.", zap.String("filter", desc))
	}

	manager := browser.NewManager(cfg, logger, cfg.Runner().Concurrency)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := manager.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Error during browser manager shutdown.", zap.Error(err))
		}
	}()

	results, err := scenarios.NewRunner(cfg, manager, logger, filter).Run(ctx, entries)
	results.Print(out)
	if report.path != "" {
		if werr := writeReport(report, out, results); werr != nil {
			return werr
		}
		logger.Info("Report written.", zap.String("path", report.path), zap.String("format", report.format))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Scenario run aborted.")
			return fmt.Errorf("scenario run aborted by user signal")
		}
		return err
	}
	if failures := results.Failures(); len(failures) > 0 {
		return &exitError{msg: fmt.Sprintf("%d scenario(s) failed", len(failures))}
	}
	return nil
}

func writeReport(opts reportOptions, stdout io.Writer, results scenarios.Results) error {
	r, err := reporting.New(opts.format, opts.path, stdout)
	if err != nil {
		return err
	}
	if err := r.Write(results); err != nil {
		r.Close()
		return err
	}
	return r.Close()
}

// startFakeApp serves the fake application for the configured target on a
// free local port and points the target at it.
func startFakeApp(ctx context.Context, cfg config.Interface, logger *zap.Logger) (stop func(), err error) {
	appCfg := cfg.FakeApp()
	appCfg.Variant = cfg.Target().App

	srv, err := fakeapp.New(appCfg, logger)
	if err != nil {
		return nil, err
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the fake application: %w", err)
	}

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(serveCtx, l); err != nil {
			logger.Error("Fake application stopped.", zap.Error(err))
		}
	}()

	cfg.SetTargetBaseURL("http://" + l.Addr().String())
	cfg.SetTargetCredentials(appCfg.Username, appCfg.Password)
	logger.Info("Running against the fake application.", zap.String("base_url", cfg.Target().BaseURL))

	return func() {
		cancel()
		<-done
	}, nil
}

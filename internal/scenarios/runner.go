package scenarios

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/config"
	"github.com/magidevv/authflows/internal/observability"
)

const sessionCloseTimeout = 10 * time.Second

// SessionFactory opens one isolated browser session per scenario.
// *browser.Manager is the production implementation.
type SessionFactory interface {
	NewSession(ctx context.Context) (*browser.Session, error)
}

var _ SessionFactory = (*browser.Manager)(nil)

// RunEntry runs a single scenario in a fresh session and returns its result.
// Failures are reported in the result, never as a panic.
func RunEntry(ctx context.Context, cfg config.Interface, sessions SessionFactory, logger *zap.Logger, e Entry) Result {
	start := time.Now()
	log := observability.ForScenario(logger, e.ID.String())

	if timeout := cfg.Runner().ScenarioTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	session, err := sessions.NewSession(ctx)
	if err != nil {
		log.Error("Could not open a browser session.", zap.Error(err))
		return Result{
			ID:       e.ID,
			Errors:   []error{fmt.Errorf("failed to open browser session: %w", err)},
			Duration: time.Since(start),
		}
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(browser.Detach(ctx), sessionCloseTimeout)
		defer cancel()
		if err := session.Close(closeCtx); err != nil {
			log.Warn("Failed to close browser session.", zap.Error(err))
		}
	}()

	page := browser.NewPage(session, browser.OptionsFromConfig(cfg))
	s := newScenario(ctx, e.ID, cfg, page, log.With(zap.String("session_id", session.ID())))

	log.Info("Scenario started.")
	s.guard(func() { e.run(s) })
	res := s.result(time.Since(start))
	if res.Failed() {
		log.Error("Scenario failed.", zap.Duration("duration", res.Duration), zap.Int("steps", len(res.Steps)))
	} else {
		log.Info("Scenario passed.", zap.Duration("duration", res.Duration), zap.Int("steps", len(res.Steps)))
	}
	return res
}

// Runner executes a list of scenarios with bounded concurrency.
type Runner struct {
	cfg      config.Interface
	sessions SessionFactory
	logger   *zap.Logger
	filter   Filter
	limiter  *rate.Limiter
}

// NewRunner builds a runner. Concurrency and the start rate come from the
// runner section of cfg. A start rate of zero starts scenarios as fast as
// slots free up.
func NewRunner(cfg config.Interface, sessions SessionFactory, logger *zap.Logger, filter Filter) *Runner {
	limit := rate.Inf
	if r := cfg.Runner().StartRate; r > 0 {
		limit = rate.Limit(r)
	}
	return &Runner{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger.Named("runner"),
		filter:   filter,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Run executes every entry selected by the filter and targeting the
// configured application. Results keep the order of entries. The returned
// error is non-nil only when ctx ended before every scenario could start.
func (r *Runner) Run(ctx context.Context, entries []Entry) (Results, error) {
	results := make([]Result, len(entries))
	app := r.cfg.Target().App

	concurrency := r.cfg.Runner().Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	r.logger.Info("Starting scenario run.",
		zap.Int("scenarios", len(entries)),
		zap.Int("concurrency", concurrency),
		zap.String("app", app),
	)

	for i, e := range entries {
		i, e := i, e
		switch {
		case e.App != "" && e.App != app:
			results[i] = Result{ID: e.ID, Skipped: true, SkipReason: fmt.Sprintf("targets %s, not %s", e.App, app)}
			continue
		case !r.filter.Match(e.ID):
			results[i] = Result{ID: e.ID, Skipped: true, SkipReason: "excluded by filter parameters"}
			continue
		}
		g.Go(func() error {
			if err := r.limiter.Wait(groupCtx); err != nil {
				results[i] = Result{ID: e.ID, Skipped: true, SkipReason: "run cancelled"}
				return err
			}
			results[i] = RunEntry(groupCtx, r.cfg, r.sessions, r.logger, e)
			return nil
		})
	}
	err := g.Wait()
	return Results{Tests: results}, err
}

// Results is the outcome of a run, in entry order.
type Results struct {
	Tests []Result
}

func (r Results) Failures() []Result {
	var out []Result
	for _, t := range r.Tests {
		if t.Failed() {
			out = append(out, t)
		}
	}
	return out
}

func (r Results) OK() bool { return len(r.Failures()) == 0 }

// Counts returns how many scenarios passed, failed and were skipped.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch {
		case t.Skipped:
			skipped++
		case t.Failed():
			failed++
		default:
			passed++
		}
	}
	return passed, failed, skipped
}

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

// Print writes a per-scenario report followed by a summary line.
func (r Results) Print(w io.Writer) {
	for _, t := range r.Tests {
		switch {
		case t.Skipped:
			fmt.Fprintf(w, "%s %s (%s)\n", skipColor.Sprint("SKIP"), t.ID, t.SkipReason)
			continue
		case t.Failed():
			fmt.Fprintf(w, "%s %s %s\n", failColor.Sprint("FAIL"), t.ID, dimColor.Sprintf("(%s)", t.Duration.Round(time.Millisecond)))
		default:
			fmt.Fprintf(w, "%s %s %s\n", passColor.Sprint("PASS"), t.ID, dimColor.Sprintf("(%s)", t.Duration.Round(time.Millisecond)))
		}
		if !t.Failed() {
			continue
		}
		for _, st := range t.Steps {
			mark := passColor.Sprint("ok")
			if st.Failed() {
				mark = failColor.Sprint("x ")
			}
			fmt.Fprintf(w, "    %s %s\n", mark, st.Name)
		}
		for _, err := range t.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}

	passed, failed, skipped := r.Counts()
	summary := fmt.Sprintf("%d passed, %d failed, %d skipped", passed, failed, skipped)
	fmt.Fprintln(w)
	if failed > 0 {
		fmt.Fprintln(w, failColor.Sprint(summary))
		return
	}
	fmt.Fprintln(w, passColor.Sprint(summary))
}

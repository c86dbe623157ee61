package scenarios

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/magidevv/authflows/internal/config"
)

func entry(suite, name, app string, run func(s *Scenario)) Entry {
	return Entry{ID: ID{Suite: suite, Name: name}, App: app, run: run}
}

func passing(s *Scenario) {
	s.Step("do nothing", func(ctx context.Context) error { return nil })
}

func failing(s *Scenario) {
	s.Step("do nothing", func(ctx context.Context) error { return nil })
	s.Step("break", func(ctx context.Context) error { return errBoom })
}

func TestRunEntry(t *testing.T) {
	cfg := config.NewDefaultConfig()
	logger := zaptest.NewLogger(t)

	t.Run("closes the session after the scenario", func(t *testing.T) {
		sessions := newFakeSessions(t, cfg)
		res := RunEntry(context.Background(), cfg, sessions, logger, entry("Unit", "pass", "", passing))
		assert.False(t, res.Failed())
		assert.Len(t, res.Steps, 1)
		assert.EqualValues(t, 1, sessions.opened.Load())
		assert.EqualValues(t, 1, sessions.closed.Load())
		assert.Positive(t, res.Duration)
	})

	t.Run("closes the session after a failure", func(t *testing.T) {
		sessions := newFakeSessions(t, cfg)
		var res Result
		require.NotPanics(t, func() {
			res = RunEntry(context.Background(), cfg, sessions, logger, entry("Unit", "fail", "", failing))
		}, "a failed step is reported in the result")
		assert.True(t, res.Failed())
		assert.ErrorIs(t, res.Err(), errBoom)
		assert.EqualValues(t, 1, sessions.closed.Load())
	})

	t.Run("failed step stops the body", func(t *testing.T) {
		sessions := newFakeSessions(t, cfg)
		reached := false
		var res Result
		require.NotPanics(t, func() {
			res = RunEntry(context.Background(), cfg, sessions, logger, entry("Unit", "abort", "", func(s *Scenario) {
				s.Step("break", func(ctx context.Context) error { return errBoom })
				reached = true
			}))
		})
		assert.False(t, reached, "steps after a failure must not run")
		require.Len(t, res.Steps, 1)
		assert.ErrorIs(t, res.Steps[0].Err, errBoom)
	})

	t.Run("panic in the body is a failure", func(t *testing.T) {
		sessions := newFakeSessions(t, cfg)
		var res Result
		require.NotPanics(t, func() {
			res = RunEntry(context.Background(), cfg, sessions, logger, entry("Unit", "panic", "", func(s *Scenario) {
				panic("out of range")
			}))
		})
		require.True(t, res.Failed())
		assert.ErrorContains(t, res.Err(), "unexpected panic in scenario: out of range")
		assert.EqualValues(t, 1, sessions.closed.Load())
	})

	t.Run("session open error is a failure", func(t *testing.T) {
		sessions := newFakeSessions(t, cfg)
		sessions.err = errors.New("no chrome")
		res := RunEntry(context.Background(), cfg, sessions, logger, entry("Unit", "unreachable", "", passing))
		require.True(t, res.Failed())
		assert.ErrorContains(t, res.Err(), "failed to open browser session: no chrome")
		assert.Empty(t, res.Steps)
	})

	t.Run("scenario timeout bounds the step context", func(t *testing.T) {
		short := config.NewDefaultConfig()
		short.RunnerCfg.ScenarioTimeout = 50 * time.Millisecond
		sessions := newFakeSessions(t, short)
		res := RunEntry(context.Background(), short, sessions, logger, entry("Unit", "slow", "", func(s *Scenario) {
			s.Step("wait", func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			})
		}))
		require.True(t, res.Failed())
		assert.ErrorIs(t, res.Err(), context.DeadlineExceeded)
	})
}

func TestRunner_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.NewDefaultConfig()
	cfg.SetTargetApp(config.AppTracker)
	cfg.SetRunnerConcurrency(2)
	sessions := newFakeSessions(t, cfg)

	mustNotMatch, err := ParseRegexList("excluded")
	require.NoError(t, err)

	var running, peak atomic.Int32
	tracked := func(s *Scenario) {
		s.Step("overlap", func(ctx context.Context) error {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			return nil
		})
	}

	entries := []Entry{
		entry("Login", "one", config.AppTracker, tracked),
		entry("Login", "two", config.AppTracker, tracked),
		entry("Login", "three", config.AppTracker, tracked),
		entry("Login", "broken", config.AppTracker, failing),
		entry("Login", "excluded", config.AppTracker, passing),
		entry("Portal", "elsewhere", config.AppPortal, passing),
	}

	r := NewRunner(cfg, sessions, zaptest.NewLogger(t), Filter{MustNotMatch: mustNotMatch})
	results, err := r.Run(context.Background(), entries)
	require.NoError(t, err)
	require.Len(t, results.Tests, len(entries))

	for i, e := range entries {
		assert.Equal(t, e.ID, results.Tests[i].ID, "results keep entry order")
	}

	passed, failed, skipped := results.Counts()
	assert.Equal(t, 3, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 2, skipped)
	assert.False(t, results.OK())
	require.Len(t, results.Failures(), 1)
	assert.Equal(t, "broken", results.Failures()[0].ID.Name)

	assert.Equal(t, "excluded by filter parameters", results.Tests[4].SkipReason)
	assert.Equal(t, "targets portal, not tracker", results.Tests[5].SkipReason)

	assert.LessOrEqual(t, peak.Load(), int32(2), "concurrency limit respected")
	assert.EqualValues(t, 4, sessions.opened.Load())
	assert.Equal(t, sessions.opened.Load(), sessions.closed.Load())
}

func TestRunner_Cancelled(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.RunnerCfg.StartRate = 0.001
	cfg.SetRunnerConcurrency(1)
	sessions := newFakeSessions(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	entries := []Entry{
		entry("Login", "first", config.AppTracker, func(s *Scenario) {
			s.Step("cancel the run", func(context.Context) error {
				cancel()
				return nil
			})
		}),
		entry("Login", "second", config.AppTracker, passing),
	}

	r := NewRunner(cfg, sessions, zaptest.NewLogger(t), Filter{})
	results, err := r.Run(ctx, entries)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, results.Tests[0].Failed())
	assert.True(t, results.Tests[1].Skipped)
	assert.Equal(t, "run cancelled", results.Tests[1].SkipReason)
}

func TestResults_Print(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	results := Results{Tests: []Result{
		{ID: ID{Suite: "Login", Name: "valid credentials"}, Steps: []StepResult{{Name: "Open login form"}}},
		{
			ID: ID{Suite: "Registration", Name: "invalid email"},
			Steps: []StepResult{
				{Name: "Open registration form"},
				{Name: "Verify error", Err: errBoom},
			},
			Errors: []error{errors.New("step \"Verify error\": boom\nsecond line")},
		},
		{ID: ID{Suite: "Portal", Name: "sign out"}, Skipped: true, SkipReason: "targets portal, not tracker"},
	}}

	var buf bytes.Buffer
	results.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "PASS Login/valid credentials")
	assert.Contains(t, out, "FAIL Registration/invalid email")
	assert.Contains(t, out, "    ok Open registration form\n")
	assert.Contains(t, out, "    x  Verify error\n")
	assert.Contains(t, out, "      second line\n")
	assert.Contains(t, out, "SKIP Portal/sign out (targets portal, not tracker)")
	assert.NotContains(t, out, "Open login form", "steps of passing scenarios are not listed")
	assert.Contains(t, out, "1 passed, 1 failed, 1 skipped")
}

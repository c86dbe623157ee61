package scenarios

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/config"
)

// ID names a scenario within its suite.
type ID struct {
	Suite string
	Name  string
}

func (id ID) String() string {
	if id.Suite == "" {
		return id.Name
	}
	return id.Suite + "/" + id.Name
}

// StepResult records one executed step.
type StepResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

func (s StepResult) Failed() bool { return s.Err != nil }

// Attachment is a named blob recorded while a scenario runs, such as the
// generated user record.
type Attachment struct {
	Name        string
	ContentType string
	Body        string
}

// Result is the outcome of one scenario.
type Result struct {
	ID          ID
	Steps       []StepResult
	Errors      []error
	Attachments []Attachment
	Duration    time.Duration
	Skipped     bool
	SkipReason  string
}

func (r Result) Failed() bool { return len(r.Errors) > 0 }

// Err joins every recorded error, or returns nil for a passing scenario.
func (r Result) Err() error {
	if !r.Failed() {
		return nil
	}
	return fmt.Errorf("scenario %s failed: %w", r.ID, errors.Join(r.Errors...))
}

// Scenario is the handle a scenario body uses to run steps. It satisfies
// testify's require.TestingT, so require and assert helpers can be called
// with it directly: a failed require aborts the scenario.
type Scenario struct {
	id     ID
	ctx    context.Context
	cfg    config.Interface
	page   *browser.Page
	logger *zap.Logger

	steps       []StepResult
	errors      []error
	attachments []Attachment

	// stepErrs collects Errorf calls made while a step is running.
	stepErrs []error
	inStep   bool
}

func newScenario(ctx context.Context, id ID, cfg config.Interface, page *browser.Page, logger *zap.Logger) *Scenario {
	return &Scenario{
		id:     id,
		ctx:    ctx,
		cfg:    cfg,
		page:   page,
		logger: logger,
	}
}

func (s *Scenario) ID() ID                   { return s.id }
func (s *Scenario) Context() context.Context { return s.ctx }
func (s *Scenario) Config() config.Interface { return s.cfg }
func (s *Scenario) Page() *browser.Page      { return s.page }
func (s *Scenario) Logger() *zap.Logger      { return s.logger }

// Expect returns the assertion-style verifier for the scenario's page.
func (s *Scenario) Expect() *browser.Verifier { return s.page.Expect() }

// Failed reports whether any error has been recorded so far.
func (s *Scenario) Failed() bool { return len(s.errors) > 0 || len(s.stepErrs) > 0 }

// Step runs fn as a named step. A returned error, a failed assertion or a
// panic inside fn fails the step and aborts the scenario.
func (s *Scenario) Step(name string, fn func(ctx context.Context) error) {
	log := s.logger.With(zap.String("step", name))
	log.Info("Step started.")

	s.inStep = true
	s.stepErrs = nil
	start := time.Now()
	err := s.runStep(fn)
	elapsed := time.Since(start)
	s.inStep = false

	if err != nil {
		s.stepErrs = append(s.stepErrs, err)
	}
	res := StepResult{Name: name, Duration: elapsed}
	if len(s.stepErrs) > 0 {
		res.Err = fmt.Errorf("step %q: %w", name, errors.Join(s.stepErrs...))
		s.errors = append(s.errors, res.Err)
	}
	s.stepErrs = nil
	s.steps = append(s.steps, res)

	if res.Err != nil {
		log.Error("Step failed.", zap.Duration("duration", elapsed), zap.Error(res.Err))
		panic(s)
	}
	log.Info("Step passed.", zap.Duration("duration", elapsed))
}

// runStep calls fn and turns an abort or an unexpected panic into an error.
func (s *Scenario) runStep(fn func(ctx context.Context) error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if r == s {
			// FailNow inside the step; the cause is already in stepErrs.
			if len(s.stepErrs) == 0 {
				err = errors.New("step failed with no failure message")
			}
			return
		}
		err = fmt.Errorf("unexpected panic: %v\n%s", r, debug.Stack())
	}()
	return fn(s.ctx)
}

// Errorf records a failure. It does not stop the scenario on its own.
func (s *Scenario) Errorf(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	s.logger.Warn("Assertion failed.", zap.String("message", strings.TrimSpace(err.Error())))
	if s.inStep {
		s.stepErrs = append(s.stepErrs, err)
		return
	}
	s.errors = append(s.errors, err)
}

// FailNow aborts the scenario. Steps that have not run yet are skipped.
func (s *Scenario) FailNow() {
	panic(s)
}

// Helper marks the caller as a helper, for testify's benefit.
func (s *Scenario) Helper() {}

// Logf writes an informational message to the scenario log.
func (s *Scenario) Logf(format string, args ...interface{}) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

// Attach records a named blob with the scenario result and logs it.
func (s *Scenario) Attach(name, contentType, body string) {
	s.attachments = append(s.attachments, Attachment{Name: name, ContentType: contentType, Body: body})
	s.logger.Info("Attachment recorded.", zap.String("name", name), zap.String("content_type", contentType), zap.String("body", body))
}

// guard runs fn and stops an abort from escaping. Any other panic is
// recorded as a failure.
func (s *Scenario) guard(fn func()) {
	defer func() {
		r := recover()
		if r == nil || r == s {
			return
		}
		err := fmt.Errorf("unexpected panic in scenario: %v\n%s", r, debug.Stack())
		s.errors = append(s.errors, err)
		s.logger.Error("Scenario panicked.", zap.Error(err))
	}()
	fn()
}

func (s *Scenario) result(elapsed time.Duration) Result {
	return Result{
		ID:          s.id,
		Steps:       append([]StepResult(nil), s.steps...),
		Errors:      append([]error(nil), s.errors...),
		Attachments: append([]Attachment(nil), s.attachments...),
		Duration:    elapsed,
	}
}

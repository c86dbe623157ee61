package scenarios

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magidevv/authflows/internal/browser"
)

func TestID_String(t *testing.T) {
	assert.Equal(t, "Login/valid credentials", ID{Suite: "Login", Name: "valid credentials"}.String())
	assert.Equal(t, "standalone", ID{Name: "standalone"}.String())
}

func TestScenario_Step(t *testing.T) {
	t.Run("passing steps are recorded in order", func(t *testing.T) {
		s := newTestScenario(t)
		s.guard(func() {
			s.Step("first", func(ctx context.Context) error { return nil })
			s.Step("second", func(ctx context.Context) error { return nil })
		})

		res := s.result(0)
		assert.False(t, res.Failed())
		assert.NoError(t, res.Err())
		require.Len(t, res.Steps, 2)
		assert.Equal(t, "first", res.Steps[0].Name)
		assert.Equal(t, "second", res.Steps[1].Name)
		assert.False(t, res.Steps[1].Failed())
	})

	t.Run("an error aborts the remaining steps", func(t *testing.T) {
		s := newTestScenario(t)
		ran := false
		s.guard(func() {
			s.Step("fails", func(ctx context.Context) error { return errBoom })
			s.Step("never runs", func(ctx context.Context) error {
				ran = true
				return nil
			})
		})

		res := s.result(0)
		assert.False(t, ran)
		require.True(t, res.Failed())
		require.Len(t, res.Steps, 1)
		assert.True(t, res.Steps[0].Failed())
		assert.ErrorIs(t, res.Err(), errBoom)
		assert.Contains(t, res.Err().Error(), `step "fails"`)
	})

	t.Run("the step context is the scenario context", func(t *testing.T) {
		s := newTestScenario(t)
		var got context.Context
		s.guard(func() {
			s.Step("capture", func(ctx context.Context) error {
				got = ctx
				return nil
			})
		})
		assert.Equal(t, s.Context(), got)
	})

	t.Run("a timeout error keeps its type", func(t *testing.T) {
		s := newTestScenario(t)
		s.guard(func() {
			s.Step("wait", func(ctx context.Context) error {
				return &browser.TimeoutError{Op: "verify visible", Selector: "#flash"}
			})
		})
		var te *browser.TimeoutError
		require.ErrorAs(t, s.result(0).Err(), &te)
		assert.Equal(t, "#flash", te.Selector)
	})
}

func TestScenario_TestifyIntegration(t *testing.T) {
	t.Run("require aborts the step", func(t *testing.T) {
		s := newTestScenario(t)
		reached := false
		s.guard(func() {
			s.Step("check", func(ctx context.Context) error {
				require.Equal(s, "expected", "actual")
				reached = true
				return nil
			})
		})

		res := s.result(0)
		assert.False(t, reached)
		require.True(t, res.Failed())
		assert.Contains(t, res.Err().Error(), "expected")
	})

	t.Run("assert records but lets the step finish", func(t *testing.T) {
		s := newTestScenario(t)
		reached := false
		s.guard(func() {
			s.Step("check", func(ctx context.Context) error {
				assert.True(s, false, "flag should be set")
				reached = true
				return nil
			})
		})

		res := s.result(0)
		assert.True(t, reached)
		require.Len(t, res.Steps, 1)
		assert.True(t, res.Steps[0].Failed())
		assert.Contains(t, res.Err().Error(), "flag should be set")
	})

	t.Run("Errorf outside a step fails the scenario", func(t *testing.T) {
		s := newTestScenario(t)
		s.guard(func() { s.Errorf("loose failure") })
		assert.True(t, s.Failed())
		assert.Empty(t, s.result(0).Steps)
	})

	t.Run("FailNow without a message is still a failure", func(t *testing.T) {
		s := newTestScenario(t)
		s.guard(func() {
			s.Step("bail", func(ctx context.Context) error {
				s.FailNow()
				return nil
			})
		})
		res := s.result(0)
		require.True(t, res.Failed())
		assert.Contains(t, res.Err().Error(), "no failure message")
	})
}

func TestScenario_Panics(t *testing.T) {
	t.Run("inside a step", func(t *testing.T) {
		s := newTestScenario(t)
		s.guard(func() {
			s.Step("explodes", func(ctx context.Context) error {
				panic("kaboom")
			})
		})
		res := s.result(0)
		require.True(t, res.Failed())
		assert.Contains(t, res.Err().Error(), "unexpected panic: kaboom")
	})

	t.Run("outside a step", func(t *testing.T) {
		s := newTestScenario(t)
		s.guard(func() { panic(errors.New("loose")) })
		res := s.result(0)
		require.True(t, res.Failed())
		assert.Contains(t, res.Err().Error(), "loose")
	})
}

func TestScenario_Attach(t *testing.T) {
	s := newTestScenario(t)
	s.Attach("Generated User Data", "application/json", `{"login":"jsmith"}`)

	res := s.result(0)
	require.Len(t, res.Attachments, 1)
	assert.Equal(t, Attachment{Name: "Generated User Data", ContentType: "application/json", Body: `{"login":"jsmith"}`}, res.Attachments[0])
	assert.False(t, res.Failed())
}

func TestSuite_Entries(t *testing.T) {
	rec := &recorder{}
	suite := Suite[string]{
		Name:     "Hooks",
		App:      "tracker",
		Fixtures: func(p *browser.Page) string { return "fixture" },
		BeforeEach: func(s *Scenario, f string) {
			rec.add("before:" + f)
		},
		AfterEach: func(s *Scenario, f string) {
			s.Step("teardown", func(ctx context.Context) error {
				rec.add("after")
				return nil
			})
		},
		Cases: []Case[string]{
			{Name: "passes", Run: func(s *Scenario, f string) {
				s.Step("body", func(ctx context.Context) error {
					rec.add("body")
					return nil
				})
			}},
			{Name: "fails", Run: func(s *Scenario, f string) {
				s.Step("body", func(ctx context.Context) error { return errBoom })
				rec.add("unreachable")
			}},
		},
	}

	entries := suite.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, ID{Suite: "Hooks", Name: "passes"}, entries[0].ID)
	assert.Equal(t, "tracker", entries[1].App)

	s := newTestScenario(t)
	entries[0].run(s)
	assert.False(t, s.Failed())
	assert.Equal(t, []string{"before:fixture", "body", "after"}, rec.list())

	rec = &recorder{}
	s = newTestScenario(t)
	entries[1].run(s)
	res := s.result(0)
	assert.True(t, res.Failed())
	// The teardown still ran after the failing body.
	assert.Equal(t, []string{"before:fixture", "after"}, rec.list())
	require.Len(t, res.Steps, 2)
	assert.Equal(t, "teardown", res.Steps[1].Name)
	assert.False(t, res.Steps[1].Failed())
}

func TestJoin(t *testing.T) {
	a := []Entry{{ID: ID{Name: "a"}}}
	b := []Entry{{ID: ID{Name: "b"}}, {ID: ID{Name: "c"}}}
	joined := Join(a, nil, b)
	require.Len(t, joined, 3)
	assert.Equal(t, "c", joined[2].ID.Name)
}

func TestDeclaredSuites(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range AllEntries() {
		assert.False(t, seen[e.ID.String()], "duplicate scenario %s", e.ID)
		seen[e.ID.String()] = true
		assert.NotEmpty(t, e.App)
		assert.NotNil(t, e.run)
	}
	assert.True(t, seen["Login/valid credentials"])
	assert.True(t, seen["Registration/invalid email"])
	assert.True(t, seen["Portal/sign out"])
	assert.Len(t, TrackerEntries(), 10)
	assert.Len(t, PortalEntries(), 4)
}

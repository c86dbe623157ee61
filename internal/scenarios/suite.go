package scenarios

import "github.com/magidevv/authflows/internal/browser"

// Hook runs around every case of a suite.
type Hook[F any] func(s *Scenario, f F)

// Case is one scenario of a suite.
type Case[F any] struct {
	Name string
	Run  func(s *Scenario, f F)
}

// Suite groups cases that share a fixture set and BeforeEach/AfterEach hooks.
// F is the fixture set built once per case from the case's page.
type Suite[F any] struct {
	Name string
	// App is the application the suite targets, config.AppTracker or config.AppPortal.
	App        string
	Fixtures   func(p *browser.Page) F
	BeforeEach Hook[F]
	// AfterEach runs even when the case failed, so it must tolerate any
	// state the case may have left behind.
	AfterEach Hook[F]
	Cases     []Case[F]
}

// Entry is a runnable scenario, detached from its suite's fixture type.
type Entry struct {
	ID  ID
	App string
	run func(s *Scenario)
}

// Entries flattens the suite into runnable scenarios, in declaration order.
func (st Suite[F]) Entries() []Entry {
	entries := make([]Entry, 0, len(st.Cases))
	for _, c := range st.Cases {
		c := c
		entries = append(entries, Entry{
			ID:  ID{Suite: st.Name, Name: c.Name},
			App: st.App,
			run: func(s *Scenario) { st.runCase(s, c) },
		})
	}
	return entries
}

func (st Suite[F]) runCase(s *Scenario, c Case[F]) {
	f := st.Fixtures(s.Page())
	s.guard(func() {
		if st.BeforeEach != nil {
			st.BeforeEach(s, f)
		}
		c.Run(s, f)
	})
	if st.AfterEach != nil {
		s.guard(func() { st.AfterEach(s, f) })
	}
}

// Join concatenates the entries of several suites.
func Join(groups ...[]Entry) []Entry {
	var out []Entry
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// AllEntries returns every declared scenario for both applications.
func AllEntries() []Entry {
	return Join(TrackerEntries(), PortalEntries())
}

// Package scenarios holds the end-to-end authentication scenarios and the
// small harness that runs them.
//
// A scenario is a linear list of named steps. Each step is logged and
// recorded with its duration and outcome, and the first failing step aborts
// the scenario. Scenarios are grouped into suites that share BeforeEach and
// AfterEach hooks, and every scenario gets its own browser session, so
// suites can run in parallel without sharing state.
//
// The same entries are run by the e2e package under go test and by the
// "authflows run" command.
package scenarios

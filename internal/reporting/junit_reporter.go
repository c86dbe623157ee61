package reporting

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/magidevv/authflows/internal/scenarios"
)

// JUnitReporter writes the run in the JUnit XML layout CI servers understand.
// Each suite becomes a <testsuite>, each scenario a <testcase>.
type JUnitReporter struct {
	writer io.WriteCloser
	now    func() time.Time
}

func NewJUnitReporter(w io.WriteCloser) *JUnitReporter {
	return &JUnitReporter{writer: w, now: time.Now}
}

type suiteTally struct {
	el                       *etree.Element
	tests, failures, skipped int
	duration                 time.Duration
}

func (r *JUnitReporter) Write(results scenarios.Results) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("testsuites")
	root.CreateAttr("name", "authflows")

	timestamp := r.now().UTC().Format(time.RFC3339)
	tallies := map[string]*suiteTally{}
	var order []string
	var total time.Duration

	for _, t := range results.Tests {
		tally, ok := tallies[t.ID.Suite]
		if !ok {
			el := root.CreateElement("testsuite")
			el.CreateAttr("name", t.ID.Suite)
			el.CreateAttr("timestamp", timestamp)
			tally = &suiteTally{el: el}
			tallies[t.ID.Suite] = tally
			order = append(order, t.ID.Suite)
		}
		tally.tests++
		tally.duration += t.Duration
		total += t.Duration

		tc := tally.el.CreateElement("testcase")
		tc.CreateAttr("classname", t.ID.Suite)
		tc.CreateAttr("name", t.ID.Name)
		tc.CreateAttr("time", seconds(t.Duration))

		switch {
		case t.Skipped:
			tally.skipped++
			tc.CreateElement("skipped").CreateAttr("message", t.SkipReason)
			continue
		case t.Failed():
			tally.failures++
			failure := tc.CreateElement("failure")
			err := t.Err()
			failure.CreateAttr("message", firstLine(err.Error()))
			failure.CreateAttr("type", "ScenarioFailure")
			failure.SetText(err.Error())
		}
		if out := systemOut(t); out != "" {
			tc.CreateElement("system-out").SetText(out)
		}
	}

	passed, failed, skipped := results.Counts()
	root.CreateAttr("tests", strconv.Itoa(passed+failed+skipped))
	root.CreateAttr("failures", strconv.Itoa(failed))
	root.CreateAttr("skipped", strconv.Itoa(skipped))
	root.CreateAttr("time", seconds(total))
	for _, name := range order {
		tally := tallies[name]
		tally.el.CreateAttr("tests", strconv.Itoa(tally.tests))
		tally.el.CreateAttr("failures", strconv.Itoa(tally.failures))
		tally.el.CreateAttr("skipped", strconv.Itoa(tally.skipped))
		tally.el.CreateAttr("time", seconds(tally.duration))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(r.writer); err != nil {
		return fmt.Errorf("failed to write JUnit report: %w", err)
	}
	return nil
}

func (r *JUnitReporter) Close() error {
	return r.writer.Close()
}

// systemOut lists the executed steps followed by any attachments.
func systemOut(t scenarios.Result) string {
	var b strings.Builder
	for _, st := range t.Steps {
		mark := "ok"
		if st.Failed() {
			mark = "FAILED"
		}
		fmt.Fprintf(&b, "%-6s %s (%s)\n", mark, st.Name, st.Duration.Round(time.Millisecond))
	}
	for _, a := range t.Attachments {
		fmt.Fprintf(&b, "--- %s (%s)\n%s\n", a.Name, a.ContentType, a.Body)
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

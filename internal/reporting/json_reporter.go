package reporting

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/magidevv/authflows/internal/scenarios"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report is the JSON document written by JSONReporter.
type Report struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Passed      int              `json:"passed"`
	Failed      int              `json:"failed"`
	Skipped     int              `json:"skipped"`
	Scenarios   []ScenarioReport `json:"scenarios"`
}

type ScenarioReport struct {
	Suite       string             `json:"suite"`
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	DurationMS  int64              `json:"durationMs"`
	SkipReason  string             `json:"skipReason,omitempty"`
	Steps       []StepReport       `json:"steps,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
	Attachments []AttachmentReport `json:"attachments,omitempty"`
}

type StepReport struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

type AttachmentReport struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

// JSONReporter writes a single indented JSON document.
type JSONReporter struct {
	writer io.WriteCloser
	now    func() time.Time
}

func NewJSONReporter(w io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: w, now: time.Now}
}

func (r *JSONReporter) Write(results scenarios.Results) error {
	passed, failed, skipped := results.Counts()
	report := Report{
		GeneratedAt: r.now().UTC(),
		Passed:      passed,
		Failed:      failed,
		Skipped:     skipped,
		Scenarios:   make([]ScenarioReport, 0, len(results.Tests)),
	}
	for _, t := range results.Tests {
		sr := ScenarioReport{
			Suite:      t.ID.Suite,
			Name:       t.ID.Name,
			Status:     status(t),
			DurationMS: t.Duration.Milliseconds(),
			SkipReason: t.SkipReason,
		}
		for _, st := range t.Steps {
			step := StepReport{Name: st.Name, DurationMS: st.Duration.Milliseconds()}
			if st.Err != nil {
				step.Error = st.Err.Error()
			}
			sr.Steps = append(sr.Steps, step)
		}
		for _, err := range t.Errors {
			sr.Errors = append(sr.Errors, err.Error())
		}
		for _, a := range t.Attachments {
			sr.Attachments = append(sr.Attachments, AttachmentReport(a))
		}
		report.Scenarios = append(report.Scenarios, sr)
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

func (r *JSONReporter) Close() error {
	return r.writer.Close()
}

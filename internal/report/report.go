// Package report renders executed results for people and machines. The text
// renderer writes through output.Writer; the JSON renderer emits a stable
// document for tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"specrun/internal/model"
	"specrun/internal/output"
)

// Formats accepted by the CLI and the config file.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var titleCaser = cases.Title(language.English)

// RenderText prints each result and a closing summary.
func RenderText(w *output.Writer, results []*model.SpecResult) {
	for _, r := range results {
		switch r.Status {
		case model.StatusPassed:
			w.SpecPassed(r.Name, formatDuration(r.Duration))
		case model.StatusGenerateRequired:
			w.SpecGenerate(r.Name, r.Generate.TargetPath)
			w.GenerateDetail("framework", frameworkLabel(r.Generate.Framework))
			w.GenerateDetail("description", r.Generate.Description)
			w.GenerateDetail("command", r.Generate.Command)
		default:
			w.SpecFailed(r.Name, r.Error)
			if r.Output != "" {
				w.Hint("%s", output.Indent(r.Output))
			}
		}
	}

	s := model.Summarize(results)
	w.SummaryHeader("Summary")
	w.SummaryItem("Total", fmt.Sprintf("%d", s.Total))
	w.SummaryPassed("Passed", fmt.Sprintf("%d", s.Passed))
	if s.Failed > 0 {
		w.SummaryFailed("Failed", fmt.Sprintf("%d", s.Failed))
	} else {
		w.SummaryItem("Failed", "0")
	}
	if s.GenerateRequired > 0 {
		w.SummaryItem("Generate required", fmt.Sprintf("%d", s.GenerateRequired))
	}
	w.SummaryItem("Duration", formatDuration(s.TotalDuration))

	if s.Failed > 0 {
		w.FinalFailure("%d of %d specs failed", s.Failed, s.Total)
	} else if s.GenerateRequired > 0 {
		w.FinalSuccess("%d specs passed, %d awaiting generated tests", s.Passed, s.GenerateRequired)
	} else {
		w.FinalSuccess("All %d specs passed", s.Total)
	}
}

// frameworkLabel turns a lowercase framework hint into its display form.
func frameworkLabel(framework string) string {
	if framework == "" {
		return ""
	}
	return titleCaser.String(framework)
}

// resultDoc is the wire shape of one result in JSON output.
type resultDoc struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Status     model.Status        `json:"status"`
	Output     string              `json:"output,omitempty"`
	ExitCode   int                 `json:"exit_code"`
	Error      string              `json:"error,omitempty"`
	DurationMS int64               `json:"duration_ms"`
	Generate   *model.GenerateInfo `json:"generate,omitempty"`
}

type summaryDoc struct {
	Total            int   `json:"total"`
	Passed           int   `json:"passed"`
	Failed           int   `json:"failed"`
	GenerateRequired int   `json:"generate_required"`
	DurationMS       int64 `json:"duration_ms"`
}

type runDoc struct {
	Results []resultDoc `json:"results"`
	Summary summaryDoc  `json:"summary"`
}

// RenderJSON writes the full run as one indented JSON document.
func RenderJSON(out io.Writer, results []*model.SpecResult) error {
	doc := runDoc{Results: make([]resultDoc, 0, len(results))}
	for _, r := range results {
		doc.Results = append(doc.Results, resultDoc{
			ID:         r.ID,
			Name:       r.Name,
			Status:     r.Status,
			Output:     r.Output,
			ExitCode:   r.ExitCode,
			Error:      r.Error,
			DurationMS: r.Duration.Milliseconds(),
			Generate:   r.Generate,
		})
	}
	s := model.Summarize(results)
	doc.Summary = summaryDoc{
		Total:            s.Total,
		Passed:           s.Passed,
		Failed:           s.Failed,
		GenerateRequired: s.GenerateRequired,
		DurationMS:       s.TotalDuration.Milliseconds(),
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

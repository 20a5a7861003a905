// Package validation checks plant project files and generated layouts.
package validation

import (
	"fmt"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
)

// Level says which pass produced a result.
type Level string

const (
	LevelSchema   Level = "schema"
	LevelGeometry Level = "geometry"
)

// Severity says how much a result matters. Only errors make a report
// invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single finding. Schema results name a project file field in
// Path; geometry results list block indices in Blocks.
type Result struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Kind        Kind     `json:"kind,omitempty"`
	Message     string   `json:"message"`
	Path        string   `json:"path,omitempty"`
	Blocks      []int    `json:"blocks,omitempty"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Report collects results by severity.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport returns an empty, valid report.
func NewReport() *Report {
	r := &Report{Valid: true, Errors: []Result{}, Warnings: []Result{}, Info: []Result{}}
	r.summarize()
	return r
}

func (r *Report) AddError(result Result)   { r.add(SeverityError, result) }
func (r *Report) AddWarning(result Result) { r.add(SeverityWarning, result) }
func (r *Report) AddInfo(result Result)    { r.add(SeverityInfo, result) }

func (r *Report) add(sev Severity, result Result) {
	result.Severity = sev
	switch sev {
	case SeverityError:
		r.Errors = append(r.Errors, result)
		r.Valid = false
	case SeverityWarning:
		r.Warnings = append(r.Warnings, result)
	default:
		r.Info = append(r.Info, result)
	}
	r.summarize()
}

// Merge appends other's results. A nil report is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	r.Valid = r.Valid && other.Valid
	r.summarize()
}

// All returns every result, errors first.
func (r *Report) All() []Result {
	out := make([]Result, 0, len(r.Errors)+len(r.Warnings)+len(r.Info))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	return append(out, r.Info...)
}

// Err returns nil for a valid report and otherwise an INVALID_SPEC error
// quoting the first error.
func (r *Report) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0].Message
	if n := len(r.Errors) - 1; n > 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "%s (and %d more)", first, n)
	}
	return errors.New(errors.ErrCodeInvalidSpec, "%s", first)
}

func (r *Report) summarize() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}

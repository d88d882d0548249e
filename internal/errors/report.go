package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Span is a lightweight source-location reference independent of the ast
// package, so errors never needs to import ast.
type Span struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (s Span) String() string { return fmt.Sprintf("%s:%d", s.File, s.Line) }

// Fix is an optional suggested remediation, e.g. pointing at `as val` for a
// private-block escape error (spec.md section 7).
type Fix struct {
	Suggestion string `json:"suggestion"`
}

// Report is the canonical structured diagnostic. Phase is one of "lexer",
// "parser", "loader", "typecheck", "codegen", "io".
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *Span          `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

const Schema = "snc.diagnostic/v1"

// ReportError wraps a Report as an error so structured reports survive
// errors.As() unwrapping across the pipeline.
type ReportError struct{ Rep *Report }

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	if e.Rep.Span != nil {
		return fmt.Sprintf("%s: %s: %s", e.Rep.Span, e.Rep.Code, e.Rep.Message)
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

func New(phase, code, message string, span *Span) *Report {
	return &Report{Schema: Schema, Phase: phase, Code: code, Message: message, Span: span}
}

func (r *Report) WithFix(suggestion string) *Report {
	r.Fix = &Fix{Suggestion: suggestion}
	return r
}

func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[key] = value
	return r
}

// ToJSON renders a deterministic (sorted-keys) JSON encoding of the report.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParserMessage renders the spec.md section 6 text form for parser errors:
// "[file:line] Error at '<lexeme>': <msg>".
func (r *Report) ParserMessage(lexeme string) string {
	loc := "?"
	if r.Span != nil {
		loc = r.Span.String()
	}
	return fmt.Sprintf("[%s] Error at '%s': %s", loc, lexeme, r.Message)
}

// TypeMessage renders the spec.md section 6 text form for type-checker
// errors: "<file>:<line>: Type error: <message>".
func (r *Report) TypeMessage() string {
	loc := "?"
	if r.Span != nil {
		loc = r.Span.String()
	}
	return fmt.Sprintf("%s: Type error: %s", loc, r.Message)
}

// SortedDataKeys returns Data's keys sorted, for deterministic iteration.
func (r *Report) SortedDataKeys() []string {
	keys := make([]string, 0, len(r.Data))
	for k := range r.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

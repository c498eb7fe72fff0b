package models

import (
	"fmt"
	"strings"
)

// EmptyInputError reports an upload without data rows.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	if e.Source == "" {
		return "the uploaded file contains no data"
	}
	return fmt.Sprintf("%s contains no data", e.Source)
}

// SchemaError reports canonical fields that could not be mapped to an input column.
type SchemaError struct {
	Missing []CanonicalField
}

func (e *SchemaError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(names, ", "))
}

// DateParseError reports a date column in which no value could be parsed.
type DateParseError struct {
	Column string
	Sample string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("could not parse any value of date column %q as a date (e.g. %q)", e.Column, e.Sample)
}

// InsufficientDataError stops forecasting on a series that is too short.
type InsufficientDataError struct {
	Observations int
	Required     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data to forecast: %d daily observations, at least %d required", e.Observations, e.Required)
}

// ValidationError carries the hard issues found by the validator.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("data validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// InvalidParamsError reports a caller-supplied setting outside its accepted range.
type InvalidParamsError struct {
	Field  string
	Reason string
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DiagnosticKind tags a soft issue that does not abort the pipeline.
type DiagnosticKind string

const (
	NumericCoercionWarning DiagnosticKind = "numeric_coercion"
	MissingValuesWarning   DiagnosticKind = "missing_values"
	DroppedRowsWarning     DiagnosticKind = "dropped_rows"
	EmptyForecastWarning   DiagnosticKind = "empty_forecast"
)

// Diagnostic is a soft issue collected alongside a successful result.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Field   string         `json:"field,omitempty"`
	Count   int            `json:"count,omitempty"`
	Rows    []int          `json:"rows,omitempty"`
	Message string         `json:"message"`
}

// Package errors defines the diagnostics reported while generating metamodel
// classes. Every diagnostic is scoped to a single persistent type: a failure
// never aborts the pass over the remaining types.
package errors

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Severity
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	switch str {
	case "info":
		*s = Info
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	case "fatal":
		*s = Fatal
	default:
		*s = Error // Default to Error if unknown
	}
	return nil
}

// Diagnostic is a problem found while processing one persistent type
type Diagnostic struct {
	Phase    string   `json:"phase"`            // "load", "resolve", "supertype", "emit"
	Code     string   `json:"code"`             // "M001", "M100", ...
	Message  string   `json:"message"`          // Human-readable message
	Type     string   `json:"type"`             // Qualified name of the type being processed
	Member   string   `json:"member,omitempty"` // Member name, when the problem is member-scoped
	Severity Severity `json:"severity"`
	Cause    error    `json:"-"`
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	subject := d.Type
	if d.Member != "" {
		subject += "." + d.Member
	}
	if subject == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", subject, d.Code, d.Message)
}

// Unwrap exposes the underlying cause, if any
func (d Diagnostic) Unwrap() error {
	return d.Cause
}

// New creates a new Diagnostic
func New(phase, code, message string, severity Severity) Diagnostic {
	return Diagnostic{
		Phase:    phase,
		Code:     code,
		Message:  message,
		Severity: severity,
	}
}

// ForType scopes the diagnostic to a type
func (d Diagnostic) ForType(qualifiedName string) Diagnostic {
	d.Type = qualifiedName
	return d
}

// ForMember scopes the diagnostic to a member of its type
func (d Diagnostic) ForMember(name string) Diagnostic {
	d.Member = name
	return d
}

// WithCause attaches the error that triggered the diagnostic
func (d Diagnostic) WithCause(err error) Diagnostic {
	d.Cause = err
	if err != nil && d.Message == "" {
		d.Message = err.Error()
	}
	return d
}

// IsError returns true if the diagnostic is at Error or Fatal severity
func (d Diagnostic) IsError() bool {
	return d.Severity == Error || d.Severity == Fatal
}

// IsWarning returns true if the diagnostic is at Warning severity
func (d Diagnostic) IsWarning() bool {
	return d.Severity == Warning
}

package impact

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by Build and Filter.
var (
	// ErrNilReport is returned when Build is called without a report.
	ErrNilReport = errors.New("report is nil")

	// ErrOversizedInput is returned when a report exceeds the incident or
	// location ceiling configured in Options. Nothing is indexed.
	ErrOversizedInput = errors.New("report exceeds configured size limit")

	// ErrAmbiguousRuleSetName is returned in strict mode when two rule sets
	// sharing a name both report incidents at the same location.
	ErrAmbiguousRuleSetName = errors.New("ambiguous rule set name")

	// ErrInvalidPattern is returned by Filter for a malformed location glob.
	ErrInvalidPattern = errors.New("invalid location pattern")
)

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind string

const (
	// DiagMalformedIncident marks an incident skipped for having no location.
	DiagMalformedIncident DiagnosticKind = "malformed-incident"

	// DiagRuleSetOverwritten marks a (location, rule set name) slot that a
	// later rule set with the same name replaced.
	DiagRuleSetOverwritten DiagnosticKind = "ruleset-overwritten"
)

// Diagnostic describes a problem found while building an index. Diagnostics
// are returned as data; the indexer never logs.
type Diagnostic struct {
	Kind DiagnosticKind

	// RuleSet and RuleSetIndex identify the rule set being indexed
	// (RuleSetIndex is its position in the report).
	RuleSet      string
	RuleSetIndex int

	// Violation and Incident locate a malformed incident.
	Violation string
	Incident  int

	// Location and PreviousIndex describe an overwritten slot: the rule set
	// at PreviousIndex lost its view for Location.
	Location      string
	PreviousIndex int
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagMalformedIncident:
		return fmt.Sprintf("ruleset[%d] %q violation %q incident[%d]: missing location",
			d.RuleSetIndex, d.RuleSet, d.Violation, d.Incident)
	case DiagRuleSetOverwritten:
		return fmt.Sprintf("ruleset[%d] %q replaced ruleset[%d] at %s",
			d.RuleSetIndex, d.RuleSet, d.PreviousIndex, d.Location)
	default:
		return fmt.Sprintf("%s: ruleset[%d] %q", d.Kind, d.RuleSetIndex, d.RuleSet)
	}
}

// ConflictError is returned by Build in strict mode. It lists every location
// where two same-named rule sets collided.
type ConflictError struct {
	Conflicts []Diagnostic
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrAmbiguousRuleSetName.Error()
	}
	if len(e.Conflicts) == 1 {
		return fmt.Sprintf("%v: %s", ErrAmbiguousRuleSetName, e.Conflicts[0])
	}
	return fmt.Sprintf("%v: %s (and %d more)",
		ErrAmbiguousRuleSetName, e.Conflicts[0], len(e.Conflicts)-1)
}

// Unwrap lets errors.Is match ErrAmbiguousRuleSetName.
func (e *ConflictError) Unwrap() error {
	return ErrAmbiguousRuleSetName
}

// ConflictList returns every conflict, one per line.
func (e *ConflictError) ConflictList() string {
	var b strings.Builder
	for i, c := range e.Conflicts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.String())
	}
	return b.String()
}

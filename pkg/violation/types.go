// Package violation provides types and utilities for working with Konveyor analysis results.
// It handles loading the rule sets, violations and incidents from output.yaml files produced
// by Konveyor static analysis.
package violation

// Report represents a parsed Konveyor analysis report.
// The native output.yaml is a sequence of rule sets; Report wraps that sequence.
type Report struct {
	RuleSets []RuleSet `yaml:"rulesets"`
}

// RuleSet is a named collection of findings produced by one set of rules.
// Names are not guaranteed to be unique across a report.
type RuleSet struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description,omitempty"`
	Tags        []string             `yaml:"tags,omitempty"`
	Violations  map[string]Violation `yaml:"violations,omitempty"` // keyed by violation (rule) ID
	Insights    map[string]Violation `yaml:"insights,omitempty"`   // informational, same shape as violations
	Errors      map[string]string    `yaml:"errors,omitempty"`     // rule ID -> error message
	Unmatched   []string             `yaml:"unmatched,omitempty"`
	Skipped     []string             `yaml:"skipped,omitempty"`
}

// Violation represents a specific rule that was violated in the analyzed codebase.
// Each violation can have multiple incidents (specific occurrences across different files/lines).
type Violation struct {
	Description string     `yaml:"description"`
	Category    string     `yaml:"category,omitempty"` // mandatory, optional, or potential; empty when absent
	Labels      []string   `yaml:"labels,omitempty"`
	Incidents   []Incident `yaml:"incidents"`
	Effort      *int       `yaml:"effort,omitempty"` // nil when the report carries no estimate
}

// Incident represents a specific occurrence of a violation in the codebase.
// Each incident points to a file and line number where the violation was detected,
// along with context (code snippet, variables) to aid in understanding and fixing.
type Incident struct {
	URI        string                 `yaml:"uri"`                  // File URI (e.g., file:///path/to/file.java)
	Message    string                 `yaml:"message"`              // Specific message for this incident
	CodeSnip   string                 `yaml:"codeSnip,omitempty"`   // Code snippet showing context around the violation
	LineNumber int                    `yaml:"lineNumber,omitempty"` // 1-based; 0 when absent
	Variables  map[string]interface{} `yaml:"variables,omitempty"`  // Template variables for this incident
}

// Complexity levels, aligned with the Konveyor migration complexity proposal.
const (
	ComplexityTrivial = "trivial"
	ComplexityLow     = "low"
	ComplexityMedium  = "medium"
	ComplexityHigh    = "high"
	ComplexityExpert  = "expert"
)

// GetFilePath extracts the file path from a file:// URI
func (i *Incident) GetFilePath() string {
	// Remove file:// prefix
	path := i.URI
	if len(path) > 7 && path[:7] == "file://" {
		path = path[7:]
	}
	return path
}

// EffortValue returns the effort estimate and whether one was present.
func (v *Violation) EffortValue() (int, bool) {
	if v.Effort == nil {
		return 0, false
	}
	return *v.Effort, true
}

// Complexity maps the violation's effort to a complexity level.
// Returns "" when the violation has no effort estimate.
func (v *Violation) Complexity() string {
	effort, ok := v.EffortValue()
	if !ok {
		return ""
	}
	return ComplexityForEffort(effort)
}

// ComplexityForEffort maps effort levels (0-10) to complexity levels
func ComplexityForEffort(effort int) string {
	switch {
	case effort <= 2:
		return ComplexityTrivial
	case effort <= 4:
		return ComplexityLow
	case effort <= 6:
		return ComplexityMedium
	case effort <= 8:
		return ComplexityHigh
	default:
		return ComplexityExpert
	}
}

// IncidentCount returns the number of violation incidents in the report.
// Insights are not counted.
func (r *Report) IncidentCount() int {
	total := 0
	for _, rs := range r.RuleSets {
		for _, v := range rs.Violations {
			total += len(v.Incidents)
		}
	}
	return total
}

// Effort returns a pointer to effort, for building violations in code.
func Effort(effort int) *int {
	return &effort
}

// Package impact builds a reverse impact index from a Konveyor analysis report.
//
// The index maps each affected location (an incident URI) to the rule sets
// that reported something there, each reduced to the violations and
// incidents at that location:
//
//	location -> rule set name -> violation name -> incidents
//
// # Ownership
//
// An Index is immutable once built. Views returned by Lookup and RuleSet are
// shared with the index and MUST NOT be mutated. Incident variables are
// shared with the source report, which must not be mutated while either is
// in use.
package impact

import (
	"slices"

	"github.com/tsanders/kantra-impact/pkg/violation"
)

// Index is the reverse mapping from location to the rule set views that
// pertain to it.
type Index struct {
	locations   map[string]map[string]*violation.RuleSet
	incidents   int
	diagnostics []Diagnostic
}

// Len returns the number of distinct locations.
func (x *Index) Len() int {
	return len(x.locations)
}

// Locations returns every indexed location in sorted order.
func (x *Index) Locations() []string {
	return sortedKeys(x.locations)
}

// Lookup returns the rule set views for location, keyed by rule set name.
func (x *Index) Lookup(location string) (map[string]*violation.RuleSet, bool) {
	views, ok := x.locations[location]
	return views, ok
}

// RuleSet returns the view of the named rule set at location.
func (x *Index) RuleSet(location, name string) (*violation.RuleSet, bool) {
	rs, ok := x.locations[location][name]
	return rs, ok
}

// Violation returns the named violation as seen from location.
func (x *Index) Violation(location, ruleSet, name string) (violation.Violation, bool) {
	rs, ok := x.RuleSet(location, ruleSet)
	if !ok {
		return violation.Violation{}, false
	}
	v, ok := rs.Violations[name]
	return v, ok
}

// Incidents returns the incidents of one violation at location, in report
// order. It returns nil when the triple is not indexed.
func (x *Index) Incidents(location, ruleSet, name string) []violation.Incident {
	v, _ := x.Violation(location, ruleSet, name)
	return v.Incidents
}

// IncidentCount returns the total number of incidents held by the index.
func (x *Index) IncidentCount() int {
	return x.incidents
}

// Diagnostics returns the problems recorded while building the index,
// ordered by rule set position.
func (x *Index) Diagnostics() []Diagnostic {
	return slices.Clone(x.diagnostics)
}

// Walk calls fn for every (location, rule set view) pair, sorted by location
// and then rule set name. Walk stops at the first error fn returns.
func (x *Index) Walk(fn func(location string, rs *violation.RuleSet) error) error {
	for _, location := range x.Locations() {
		views := x.locations[location]
		for _, name := range sortedKeys(views) {
			if err := fn(location, views[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Report returns the views at location as a report, rule sets sorted by
// name. An unknown location yields an empty report.
func (x *Index) Report(location string) violation.Report {
	views := x.locations[location]
	report := violation.Report{}
	for _, name := range sortedKeys(views) {
		report.RuleSets = append(report.RuleSets, *views[name])
	}
	return report
}

// Summary holds per-location counts.
type Summary struct {
	Location   string
	RuleSets   int
	Violations int
	Incidents  int
}

// Summaries returns one Summary per location, sorted by location.
func (x *Index) Summaries() []Summary {
	out := make([]Summary, 0, len(x.locations))
	for _, location := range x.Locations() {
		s := Summary{Location: location}
		for _, rs := range x.locations[location] {
			s.RuleSets++
			for _, v := range rs.Violations {
				s.Violations++
				s.Incidents += len(v.Incidents)
			}
		}
		out = append(out, s)
	}
	return out
}

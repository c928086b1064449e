package impact

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/tsanders/kantra-impact/pkg/violation"
)

func incident(uri, message string) violation.Incident {
	return violation.Incident{URI: uri, Message: message}
}

// reportGen produces reproducible random reports.
type reportGen struct {
	rnd *rand.Rand

	// uniqueNames gives every rule set a distinct name.
	uniqueNames bool
	// malformed is the chance of an incident having no location.
	malformed float64
}

func newReportGen(seed int64) *reportGen {
	return &reportGen{rnd: rand.New(rand.NewSource(seed)), uniqueNames: true}
}

func (g *reportGen) report(maxRuleSets int) *violation.Report {
	report := &violation.Report{}
	n := g.rnd.Intn(maxRuleSets + 1)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("ruleset-%d", i)
		if !g.uniqueNames {
			name = fmt.Sprintf("ruleset-%d", g.rnd.Intn(3))
		}
		rs := violation.RuleSet{
			Name:       name,
			Tags:       []string{"tag"},
			Violations: make(map[string]violation.Violation),
			Errors:     map[string]string{"broken": "error"},
			Unmatched:  []string{"unmatched"},
		}
		violations := g.rnd.Intn(6)
		for v := 0; v < violations; v++ {
			rs.Violations[fmt.Sprintf("rule-%03d", v)] = g.violation()
		}
		report.RuleSets = append(report.RuleSets, rs)
	}
	return report
}

func (g *reportGen) violation() violation.Violation {
	v := violation.Violation{
		Description: fmt.Sprintf("description %d", g.rnd.Int()),
		Category:    []string{"", "mandatory", "optional", "potential"}[g.rnd.Intn(4)],
	}
	if g.rnd.Intn(2) == 0 {
		v.Effort = violation.Effort(g.rnd.Intn(10))
	}
	if g.rnd.Intn(2) == 0 {
		v.Labels = []string{"konveyor.io/target=quarkus", "konveyor.io/source=java-ee"}
	}
	incidents := g.rnd.Intn(12)
	for i := 0; i < incidents; i++ {
		uri := fmt.Sprintf("file:///src/File%d.java", g.rnd.Intn(8))
		if g.rnd.Float64() < g.malformed {
			uri = []string{"", "   "}[g.rnd.Intn(2)]
		}
		v.Incidents = append(v.Incidents, violation.Incident{
			URI:        uri,
			Message:    fmt.Sprintf("message %d", i),
			LineNumber: g.rnd.Intn(200),
		})
	}
	return v
}

// viewOf copies the scalar fields of a violation the way the builder does.
func viewOf(src violation.Violation) violation.Violation {
	v := violation.Violation{
		Description: src.Description,
		Category:    src.Category,
		Labels:      slices.Clone(src.Labels),
	}
	if src.Effort != nil {
		v.Effort = violation.Effort(*src.Effort)
	}
	return v
}

// nestedPerLocation is the naive outer-loop formulation: for every
// location, rescan the whole report.
func nestedPerLocation(report *violation.Report) map[string]map[string]*violation.RuleSet {
	out := make(map[string]map[string]*violation.RuleSet)
	for _, location := range LocationNames(report) {
		for _, rs := range report.RuleSets {
			view := &violation.RuleSet{
				Name:        rs.Name,
				Description: rs.Description,
				Violations:  make(map[string]violation.Violation),
			}
			for name, src := range rs.Violations {
				v := viewOf(src)
				for _, inc := range src.Incidents {
					if inc.URI == location {
						v.Incidents = append(v.Incidents, inc)
					}
				}
				if len(v.Incidents) > 0 {
					view.Violations[name] = v
				}
			}
			if len(view.Violations) == 0 {
				continue
			}
			if out[location] == nil {
				out[location] = make(map[string]*violation.RuleSet)
			}
			out[location][rs.Name] = view
		}
	}
	return out
}

// locationPrefilter computes each violation's location set first and then
// scans its incidents once per location.
func locationPrefilter(report *violation.Report) map[string]map[string]*violation.RuleSet {
	out := make(map[string]map[string]*violation.RuleSet)
	for _, rs := range report.RuleSets {
		views := make(map[string]*violation.RuleSet)
		for name, src := range rs.Violations {
			locations := make(map[string]struct{})
			for _, inc := range src.Incidents {
				if !isMalformed(inc) {
					locations[inc.URI] = struct{}{}
				}
			}
			for location := range locations {
				v := viewOf(src)
				for _, inc := range src.Incidents {
					if inc.URI == location {
						v.Incidents = append(v.Incidents, inc)
					}
				}
				view, ok := views[location]
				if !ok {
					view = &violation.RuleSet{
						Name:        rs.Name,
						Description: rs.Description,
						Violations:  make(map[string]violation.Violation),
					}
					views[location] = view
				}
				view.Violations[name] = v
			}
		}
		for location, view := range views {
			if out[location] == nil {
				out[location] = make(map[string]*violation.RuleSet)
			}
			out[location][rs.Name] = view
		}
	}
	return out
}

func countIncidents(locations map[string]map[string]*violation.RuleSet) int {
	total := 0
	for _, views := range locations {
		for _, rs := range views {
			for _, v := range rs.Violations {
				total += len(v.Incidents)
			}
		}
	}
	return total
}

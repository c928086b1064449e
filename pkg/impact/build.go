package impact

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/tsanders/kantra-impact/pkg/violation"
)

// Options controls index construction. The zero value builds sequentially
// with no size limits and last-write-wins rule set names.
type Options struct {
	MaxIncidents       int  // Reject reports with more incidents (0 = no limit)
	MaxLocations       int  // Reject reports touching more locations (0 = no limit)
	StrictRuleSetNames bool // Fail instead of overwriting same-named rule sets
	Workers            int  // Fold rule sets concurrently when > 1
}

// Build creates the impact index for report.
//
// Every incident is placed under its own location, nested beneath the name of
// the rule set and violation that reported it, in source order. Incidents
// without a location are skipped and reported in Index.Diagnostics. When two
// rule sets share a name and both touch a location, the later one replaces
// the earlier one's view for that location.
func Build(report *violation.Report, opts Options) (*Index, error) {
	if report == nil {
		return nil, ErrNilReport
	}
	if err := checkLimits(report, opts); err != nil {
		return nil, err
	}

	var b *builder
	if opts.Workers > 1 && len(report.RuleSets) > 1 {
		var err error
		b, err = buildParallel(report, opts.Workers)
		if err != nil {
			return nil, err
		}
	} else {
		b = newBuilder()
		for i := range report.RuleSets {
			b.addRuleSet(i, &report.RuleSets[i])
		}
	}

	if opts.StrictRuleSetNames {
		if conflicts := b.conflicts(); len(conflicts) > 0 {
			return nil, &ConflictError{Conflicts: conflicts}
		}
	}

	return b.index(), nil
}

// LocationNames returns the sorted set of locations referenced by the
// report's violation incidents. It agrees with Build(report).Locations()
// without constructing any views.
func LocationNames(report *violation.Report) []string {
	if report == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, rs := range report.RuleSets {
		for _, v := range rs.Violations {
			for _, inc := range v.Incidents {
				if isMalformed(inc) {
					continue
				}
				seen[inc.URI] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func checkLimits(report *violation.Report, opts Options) error {
	if opts.MaxIncidents > 0 {
		if n := report.IncidentCount(); n > opts.MaxIncidents {
			return fmt.Errorf("%w: %d incidents (limit %d)", ErrOversizedInput, n, opts.MaxIncidents)
		}
	}
	if opts.MaxLocations > 0 {
		if n := len(LocationNames(report)); n > opts.MaxLocations {
			return fmt.Errorf("%w: %d locations (limit %d)", ErrOversizedInput, n, opts.MaxLocations)
		}
	}
	return nil
}

func isMalformed(inc violation.Incident) bool {
	return strings.TrimSpace(inc.URI) == ""
}

// ruleSetSlot is the mutable view of one rule set at one location.
// origin is the rule set's position in the report; first is the position of
// the earliest same-named rule set this builder placed in the slot.
type ruleSetSlot struct {
	origin      int
	first       int
	name        string
	description string
	violations  map[string]*violation.Violation
}

func newRuleSetSlot(origin int, rs *violation.RuleSet) *ruleSetSlot {
	return &ruleSetSlot{
		origin:      origin,
		first:       origin,
		name:        rs.Name,
		description: rs.Description,
		violations:  make(map[string]*violation.Violation),
	}
}

// violation returns the view of the named violation, copying the source's
// scalar fields on first use.
func (s *ruleSetSlot) violation(name string, src *violation.Violation) *violation.Violation {
	if v, ok := s.violations[name]; ok {
		return v
	}
	v := &violation.Violation{
		Description: src.Description,
		Category:    src.Category,
		Labels:      slices.Clone(src.Labels),
	}
	if src.Effort != nil {
		v.Effort = violation.Effort(*src.Effort)
	}
	s.violations[name] = v
	return v
}

// builder accumulates location -> rule set name -> slot.
type builder struct {
	locations   map[string]map[string]*ruleSetSlot
	diagnostics []Diagnostic
}

func newBuilder() *builder {
	return &builder{locations: make(map[string]map[string]*ruleSetSlot)}
}

// addRuleSet folds every violation incident of rs into the builder.
// Violation names are visited in sorted order so diagnostics are stable.
func (b *builder) addRuleSet(pos int, rs *violation.RuleSet) {
	for _, name := range sortedKeys(rs.Violations) {
		src := rs.Violations[name]
		for i, inc := range src.Incidents {
			if isMalformed(inc) {
				b.diagnostics = append(b.diagnostics, Diagnostic{
					Kind:         DiagMalformedIncident,
					RuleSet:      rs.Name,
					RuleSetIndex: pos,
					Violation:    name,
					Incident:     i,
				})
				continue
			}
			v := b.slot(inc.URI, pos, rs).violation(name, &src)
			v.Incidents = append(v.Incidents, inc)
		}
	}
}

// slot returns the view of rs at location, creating it if needed. A slot
// left by an earlier rule set with the same name is replaced.
func (b *builder) slot(location string, pos int, rs *violation.RuleSet) *ruleSetSlot {
	byName, ok := b.locations[location]
	if !ok {
		byName = make(map[string]*ruleSetSlot)
		b.locations[location] = byName
	}
	s, ok := byName[rs.Name]
	if ok && s.origin == pos {
		return s
	}
	next := newRuleSetSlot(pos, rs)
	if ok {
		b.overwritten(location, s.origin, pos, rs.Name)
		next.first = s.first
	}
	byName[rs.Name] = next
	return next
}

func (b *builder) overwritten(location string, previous, current int, name string) {
	b.diagnostics = append(b.diagnostics, Diagnostic{
		Kind:          DiagRuleSetOverwritten,
		RuleSet:       name,
		RuleSetIndex:  current,
		Incident:      -1,
		Location:      location,
		PreviousIndex: previous,
	})
}

func (b *builder) conflicts() []Diagnostic {
	var out []Diagnostic
	for _, d := range b.sortedDiagnostics() {
		if d.Kind == DiagRuleSetOverwritten {
			out = append(out, d)
		}
	}
	return out
}

func (b *builder) sortedDiagnostics() []Diagnostic {
	diags := slices.Clone(b.diagnostics)
	slices.SortStableFunc(diags, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.RuleSetIndex, y.RuleSetIndex),
			cmp.Compare(x.Kind, y.Kind),
			cmp.Compare(x.Location, y.Location),
			cmp.Compare(x.Violation, y.Violation),
			cmp.Compare(x.Incident, y.Incident),
		)
	})
	return diags
}

// index freezes the builder into an immutable Index.
func (b *builder) index() *Index {
	idx := &Index{
		locations:   make(map[string]map[string]*violation.RuleSet, len(b.locations)),
		diagnostics: b.sortedDiagnostics(),
	}
	for location, byName := range b.locations {
		views := make(map[string]*violation.RuleSet, len(byName))
		for name, s := range byName {
			rs := &violation.RuleSet{
				Name:        s.name,
				Description: s.description,
				Violations:  make(map[string]violation.Violation, len(s.violations)),
			}
			for vname, v := range s.violations {
				rs.Violations[vname] = *v
				idx.incidents += len(v.Incidents)
			}
			views[name] = rs
		}
		idx.locations[location] = views
	}
	return idx
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

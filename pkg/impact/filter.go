package impact

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tsanders/kantra-impact/pkg/violation"
)

// FilterOptions selects a subset of an index. Empty fields do not filter.
type FilterOptions struct {
	// Locations are doublestar globs matched against the location and
	// against its file path (without the file:// prefix).
	Locations    []string
	ViolationIDs []string
	Categories   []string
	MaxEffort    int // 0 = no limit; violations without effort always pass
}

func (o FilterOptions) empty() bool {
	return len(o.Locations) == 0 && len(o.ViolationIDs) == 0 &&
		len(o.Categories) == 0 && o.MaxEffort == 0
}

// Filter returns a new index holding only the violations that pass opts.
// Rule sets and locations left without violations are dropped. The receiver
// is not modified; diagnostics are carried over unchanged.
func (x *Index) Filter(opts FilterOptions) (*Index, error) {
	for _, pattern := range opts.Locations {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}
	if opts.empty() {
		return x, nil
	}

	out := &Index{
		locations:   make(map[string]map[string]*violation.RuleSet),
		diagnostics: slices.Clone(x.diagnostics),
	}
	for location, views := range x.locations {
		if !matchLocation(opts.Locations, location) {
			continue
		}
		kept := make(map[string]*violation.RuleSet)
		for name, rs := range views {
			violations := make(map[string]violation.Violation)
			for id, v := range rs.Violations {
				if !keepViolation(opts, id, &v) {
					continue
				}
				violations[id] = v
				out.incidents += len(v.Incidents)
			}
			if len(violations) == 0 {
				continue
			}
			kept[name] = &violation.RuleSet{
				Name:        rs.Name,
				Description: rs.Description,
				Violations:  violations,
			}
		}
		if len(kept) > 0 {
			out.locations[location] = kept
		}
	}
	return out, nil
}

func matchLocation(patterns []string, location string) bool {
	if len(patterns) == 0 {
		return true
	}
	path := (&violation.Incident{URI: location}).GetFilePath()
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, location); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func keepViolation(opts FilterOptions, id string, v *violation.Violation) bool {
	if len(opts.ViolationIDs) > 0 && !slices.Contains(opts.ViolationIDs, id) {
		return false
	}
	if len(opts.Categories) > 0 && !slices.Contains(opts.Categories, v.Category) {
		return false
	}
	if effort, ok := v.EffortValue(); ok && opts.MaxEffort > 0 && effort > opts.MaxEffort {
		return false
	}
	return true
}

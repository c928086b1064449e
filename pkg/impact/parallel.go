package impact

import (
	"golang.org/x/sync/errgroup"

	"github.com/tsanders/kantra-impact/pkg/violation"
)

// chunk is a contiguous run of rule sets, [start, end).
type chunk struct {
	start, end int
}

// planChunks splits n rule sets into at most workers contiguous chunks.
func planChunks(n, workers int) []chunk {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers
	chunks := make([]chunk, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, chunk{start: start, end: end})
	}
	return chunks
}

// buildParallel folds each chunk into its own builder concurrently and then
// merges the partial builders in report order. Rule sets never share
// incidents, so the chunks are independent; merging in chunk order (not
// completion order) keeps last-write-wins identical to a sequential build.
func buildParallel(report *violation.Report, workers int) (*builder, error) {
	chunks := planChunks(len(report.RuleSets), workers)
	partials := make([]*builder, len(chunks))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, c := range chunks {
		g.Go(func() error {
			b := newBuilder()
			for pos := c.start; pos < c.end; pos++ {
				b.addRuleSet(pos, &report.RuleSets[pos])
			}
			partials[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := partials[0]
	for _, p := range partials[1:] {
		result.merge(p)
	}
	return result, nil
}

// merge folds a builder covering later rule sets into b.
func (b *builder) merge(later *builder) {
	b.diagnostics = append(b.diagnostics, later.diagnostics...)
	for location, byName := range later.locations {
		dst, ok := b.locations[location]
		if !ok {
			b.locations[location] = byName
			continue
		}
		for name, s := range byName {
			if prev, ok := dst[name]; ok {
				b.overwritten(location, prev.origin, s.first, name)
				s.first = prev.first
			}
			dst[name] = s
		}
	}
}

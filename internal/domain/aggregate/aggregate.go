// Package aggregate combines per-source histograms for side-by-side comparison.
package aggregate

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/okian/framerank/internal/domain/histogram"
	"github.com/okian/framerank/internal/domain/model"
)

// minSources is the smallest number of series a comparison makes sense for.
const minSources = 2

// Set maps a derived source label to that source's histogram. Each histogram
// keeps its own threshold domain; aligning axes is left to the renderer.
type Set map[string]histogram.Histogram

type aggregator struct {
	suffix      string
	maxParallel int
}

// Label derives a human comparable label from a source name by dropping the
// directory, then suffix (or the extension when suffix is empty).
func Label(name, suffix string) string {
	base := filepath.Base(name)
	if suffix != "" {
		return strings.TrimSuffix(base, suffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Aggregate builds one histogram per source. It fails without a partial result
// if fewer than two sources are given, two sources share a label, or any
// source cannot be built.
func Aggregate(ctx context.Context, sources map[string]model.Sequence, opts ...Option) (Set, error) {
	const op = "aggregate"
	a := &aggregator{maxParallel: runtime.NumCPU()}
	for _, opt := range opts {
		opt(a)
	}

	if len(sources) < minSources {
		return nil, fmt.Errorf("%s: got %d source(s): %w", op, len(sources), ErrInsufficientSources)
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)

	labels := make([]string, len(names))
	owner := make(map[string]string, len(names))
	for i, name := range names {
		label := Label(name, a.suffix)
		if prev, ok := owner[label]; ok {
			return nil, fmt.Errorf("%s: %q and %q both map to %q: %w", op, prev, name, label, ErrDuplicateLabel)
		}
		owner[label] = name
		labels[i] = label
	}

	// Each goroutine owns one slot; the set is assembled after Wait.
	built := make([]histogram.Histogram, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallel)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := histogram.Build(sources[name])
			if err != nil {
				return fmt.Errorf("%s: source %q: %w", op, name, err)
			}
			built[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := make(Set, len(names))
	for i, label := range labels {
		set[label] = built[i]
	}
	return set, nil
}

// Labels returns the labels of s in sorted order.
func (s Set) Labels() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Maps returns the set as nested maps keyed by label then threshold.
func (s Set) Maps() map[string]map[int]int {
	out := make(map[string]map[int]int, len(s))
	for label, h := range s {
		out[label] = h.Map()
	}
	return out
}

// MaxThreshold is the largest threshold across all series, i.e. the right
// edge of a shared display axis.
func (s Set) MaxThreshold() int {
	maxT := 0
	for _, h := range s {
		maxT = max(maxT, h.MaxThreshold())
	}
	return maxT
}

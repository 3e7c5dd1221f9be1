package service

import (
	"errors"
	"fmt"

	"github.com/okian/framerank/internal/adapters/materializer"
	"github.com/okian/framerank/internal/domain/aggregate"
	"github.com/okian/framerank/internal/domain/histogram"
	"github.com/okian/framerank/internal/domain/ranking"
)

// SelectionResult is one ranked selection and, when a target was given, what
// was copied for it.
type SelectionResult struct {
	Category     string               `json:"category"`
	K            int                  `json:"k"`
	Entries      []ranking.Entry      `json:"entries,omitempty"`
	Materialized *materializer.Result `json:"materialized,omitempty"`
	Error        string               `json:"error,omitempty"`

	selection ranking.Selection
	err       error
}

// Err is the ranking or materialization error, if any.
func (r *SelectionResult) Err() error { return r.err }

// AnalysisResult is the outcome of analyzing one score file.
type AnalysisResult struct {
	RunID      string            `json:"run_id"`
	Source     string            `json:"source"`
	Label      string            `json:"label"`
	Records    int               `json:"records"`
	Thresholds []histogram.Point `json:"thresholds"`
	Top        *SelectionResult  `json:"top,omitempty"`
	Bottom     *SelectionResult  `json:"bottom,omitempty"`

	histogram histogram.Histogram
}

// Err joins the errors of the failed selections, or returns nil when every
// requested selection succeeded.
func (r *AnalysisResult) Err() error {
	var errs []error
	for _, sel := range []*SelectionResult{r.Top, r.Bottom} {
		if sel != nil && sel.err != nil {
			errs = append(errs, fmt.Errorf("%s selection: %w", sel.Category, sel.err))
		}
	}
	return errors.Join(errs...)
}

// Histogram returns the threshold histogram of the analyzed source.
func (r *AnalysisResult) Histogram() histogram.Histogram { return r.histogram }

// ComparisonResult is the outcome of comparing several score files.
type ComparisonResult struct {
	RunID   string                       `json:"run_id"`
	Sources map[string][]histogram.Point `json:"sources"`
	Skipped map[string]string            `json:"skipped,omitempty"`

	set aggregate.Set
}

// Set returns the aggregated histograms keyed by label.
func (r *ComparisonResult) Set() aggregate.Set { return r.set }

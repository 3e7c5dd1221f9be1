// Package service runs frame score analyses end to end: load, build
// histograms, rank, materialize and render.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/framerank/internal/adapters/loader"
	"github.com/okian/framerank/internal/adapters/materializer"
	"github.com/okian/framerank/internal/adapters/report"
	"github.com/okian/framerank/internal/domain/aggregate"
	"github.com/okian/framerank/internal/domain/histogram"
	"github.com/okian/framerank/internal/domain/model"
	"github.com/okian/framerank/internal/domain/ranking"
	"github.com/okian/framerank/pkg/logger"
	"github.com/okian/framerank/pkg/metrics"
)

// Format selects how results are written.
type Format int

const (
	// FormatHTML writes Plotly figures.
	FormatHTML Format = iota
	// FormatJSON writes the result structs.
	FormatJSON
)

// AnalyzeRequest describes a single source analysis. Top and Bottom of zero
// skip that selection; an empty TargetDir skips copying images.
type AnalyzeRequest struct {
	SourcePath string
	TargetDir  string
	Top        int
	Bottom     int
}

// Service runs analyses. It holds configuration only, so one Service can
// serve any number of runs.
type Service struct {
	delimiter    string
	sourceSuffix string
	maxParallel  int
	imageDir     string
	imageExt     string
	topDir       string
	bottomDir    string
	reportOpts   []report.Option

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		delimiter:   " ",
		maxParallel: runtime.NumCPU(),
		imageDir:    "image_color",
		imageExt:    ".png",
		topDir:      ranking.Top.Category(),
		bottomDir:   ranking.Bottom.Category(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

func (s *Service) loader() *loader.Loader {
	return loader.New(loader.WithDelimiter(s.delimiter))
}

func (s *Service) renderer(runID string) *report.Renderer {
	opts := append([]report.Option{report.WithRunID(runID)}, s.reportOpts...)
	return report.NewRenderer(opts...)
}

// Analyze loads one score file, builds its histogram and the requested
// selections. A failing selection is recorded on its SelectionResult and
// does not abort the other selection or the histogram.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	defer metrics.MarkRunFinished()

	label := aggregate.Label(req.SourcePath, s.sourceSuffix)
	log.Info(ctx, "analysis started", logger.String("source", req.SourcePath), logger.String("label", label))

	start := time.Now()
	seq, err := s.loader().LoadFile(ctx, req.SourcePath)
	metrics.ObserveStage("load", start)
	if err != nil {
		metrics.RecordError("loader", errorKind(err))
		return nil, fmt.Errorf("load %s: %w", req.SourcePath, err)
	}
	metrics.RecordRecordsLoaded(label, len(seq))

	start = time.Now()
	h, err := histogram.Build(seq)
	metrics.ObserveStage("histogram", start)
	if err != nil {
		metrics.RecordError("histogram", errorKind(err))
		return nil, err
	}
	metrics.RecordHistogramBuilt(label, h.MaxThreshold())
	log.Info(ctx, "histogram built",
		logger.Int("records", len(seq)),
		logger.Int("max_threshold", h.MaxThreshold()),
	)

	res := &AnalysisResult{
		RunID:      runID,
		Source:     req.SourcePath,
		Label:      label,
		Records:    len(seq),
		Thresholds: h.Points(),
		histogram:  h,
	}

	var mat *materializer.Materializer
	if req.TargetDir != "" {
		mat = materializer.New(req.TargetDir,
			materializer.WithImageLayout(s.imageDir, s.imageExt),
			materializer.WithCategoryDir(ranking.Top, s.topDir),
			materializer.WithCategoryDir(ranking.Bottom, s.bottomDir),
			materializer.WithLogger(log.Named("materializer")),
		)
	}

	if req.Top != 0 {
		res.Top = s.selectFrames(ctx, log, seq, req.Top, ranking.Top, mat)
	}
	if req.Bottom != 0 {
		res.Bottom = s.selectFrames(ctx, log, seq, req.Bottom, ranking.Bottom, mat)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info(ctx, "analysis finished")
	return res, nil
}

func (s *Service) selectFrames(ctx context.Context, log logger.Logger, seq model.Sequence, k int, o ranking.Order, mat *materializer.Materializer) *SelectionResult {
	out := &SelectionResult{Category: o.Category(), K: k}

	start := time.Now()
	sel, err := ranking.Rank(seq, k, o)
	metrics.ObserveStage("rank", start)
	if err != nil {
		metrics.RecordError("ranking", errorKind(err))
		log.Error(ctx, "ranking failed", logger.String("category", o.Category()), logger.Int("k", k), logger.Error(err))
		out.err = err
		out.Error = err.Error()
		return out
	}
	metrics.RecordSelection(o.Category(), sel.Len())
	out.selection = sel
	out.Entries = sel.Entries

	if mat == nil {
		return out
	}
	start = time.Now()
	matRes, err := mat.Materialize(ctx, sel)
	metrics.ObserveStage("materialize", start)
	out.Materialized = &matRes
	if err != nil {
		log.Error(ctx, "materialization failed", logger.String("category", o.Category()), logger.Error(err))
		out.err = err
		out.Error = err.Error()
	}
	return out
}

// Compare loads every score file in paths and aggregates their histograms.
// Files that fail to load are skipped with a warning; the comparison still
// needs two good sources.
func (s *Service) Compare(ctx context.Context, paths []string) (*ComparisonResult, error) {
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	defer metrics.MarkRunFinished()

	log.Info(ctx, "comparison started", logger.Int("sources", len(paths)))

	res := &ComparisonResult{RunID: runID}
	sources := make(map[string]model.Sequence, len(paths))
	l := s.loader()

	start := time.Now()
	for _, path := range paths {
		seq, err := l.LoadFile(ctx, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			metrics.RecordSourceFailed()
			metrics.RecordError("loader", errorKind(err))
			log.Warn(ctx, "skipping score file", logger.String("source", path), logger.Error(err))
			if res.Skipped == nil {
				res.Skipped = make(map[string]string)
			}
			res.Skipped[path] = err.Error()
			continue
		}
		metrics.RecordRecordsLoaded(aggregate.Label(path, s.sourceSuffix), len(seq))
		sources[path] = seq
	}
	metrics.ObserveStage("load", start)

	start = time.Now()
	set, err := aggregate.Aggregate(ctx, sources,
		aggregate.WithSuffix(s.sourceSuffix),
		aggregate.WithMaxParallel(s.maxParallel),
	)
	metrics.ObserveStage("aggregate", start)
	if err != nil {
		metrics.RecordError("aggregate", errorKind(err))
		return nil, err
	}

	res.set = set
	res.Sources = make(map[string][]histogram.Point, len(set))
	for label, h := range set {
		metrics.RecordHistogramBuilt(label, h.MaxThreshold())
		res.Sources[label] = h.Points()
	}

	log.Info(ctx, "comparison finished",
		logger.Strings("labels", set.Labels()),
		logger.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// WriteAnalysis renders res to w. HTML output has the threshold chart followed
// by one bar chart per successful selection.
func (s *Service) WriteAnalysis(w io.Writer, res *AnalysisResult, format Format) error {
	if format == FormatJSON {
		return report.WriteJSON(w, res)
	}
	r := s.renderer(res.RunID)
	figs := []report.Figure{r.ThresholdFigure(res.histogram)}
	for _, sel := range []*SelectionResult{res.Top, res.Bottom} {
		if sel != nil && sel.selection.Len() > 0 {
			figs = append(figs, r.SelectionFigure(sel.selection))
		}
	}
	return r.WriteHTML(w, figs...)
}

// WriteComparison renders res to w.
func (s *Service) WriteComparison(w io.Writer, res *ComparisonResult, format Format) error {
	if format == FormatJSON {
		return report.WriteJSON(w, res)
	}
	r := s.renderer(res.RunID)
	return r.WriteHTML(w, r.ComparisonFigure(res.set))
}

// errorKind maps an error to a low-cardinality metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, histogram.ErrEmptyInput), errors.Is(err, ranking.ErrEmptyInput), errors.Is(err, loader.ErrEmptySource):
		return "empty_input"
	case errors.Is(err, histogram.ErrNegativeScore), errors.Is(err, histogram.ErrScoreTooLarge), errors.Is(err, loader.ErrMalformedRecord):
		return "malformed"
	case errors.Is(err, ranking.ErrInvalidRankSize):
		return "invalid_rank_size"
	case errors.Is(err, aggregate.ErrInsufficientSources):
		return "insufficient_sources"
	case errors.Is(err, aggregate.ErrDuplicateLabel):
		return "duplicate_label"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}

// Package materializer copies the images of selected frames into category
// directories next to the pipeline output.
package materializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/framerank/internal/domain/ranking"
	"github.com/okian/framerank/pkg/logger"
	"github.com/okian/framerank/pkg/metrics"
)

// Default layout of a pipeline output directory.
const (
	defaultImageDir = "image_color"
	defaultImageExt = ".png"
	dirPerm         = 0o755
)

// Materializer copies frame images below a single root directory.
//
// Layout:
//
//	<root>/<imageDir>/<frame_name><imageExt>   source images
//	<root>/<category>/                          destination, created on demand
type Materializer struct {
	root         string
	imageDir     string
	imageExt     string
	categoryDirs map[ranking.Order]string
	logger       logger.Logger
}

// Result reports what happened to each selected frame.
type Result struct {
	Category string   `json:"category"`
	Dir      string   `json:"dir"`
	Copied   []string `json:"copied"`
	Missing  []string `json:"missing"`

	errs []error
}

// Err joins one ErrMissingResource per missing image, or nil.
func (r Result) Err() error { return errors.Join(r.errs...) }

// New creates a Materializer rooted at root.
func New(root string, opts ...Option) *Materializer {
	m := &Materializer{
		root:     root,
		imageDir: defaultImageDir,
		imageExt: defaultImageExt,
		categoryDirs: map[ranking.Order]string{
			ranking.Top:    ranking.Top.Category(),
			ranking.Bottom: ranking.Bottom.Category(),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Named("materializer")
	}
	return m
}

// SourcePath is where the image for frameName is expected.
func (m *Materializer) SourcePath(frameName string) string {
	return filepath.Join(m.root, m.imageDir, frameName+m.imageExt)
}

// TargetDir is the category directory for o.
func (m *Materializer) TargetDir(o ranking.Order) string {
	return filepath.Join(m.root, m.categoryDirs[o])
}

// Materialize copies every frame of sel into its category directory. Missing
// images are logged, counted and reported in the result without stopping the
// remaining copies. The returned error is reserved for failures that affect
// the whole selection: no root, an uncreatable target or cancellation.
func (m *Materializer) Materialize(ctx context.Context, sel ranking.Selection) (Result, error) {
	category := sel.Order.Category()
	res := Result{Category: category, Dir: m.TargetDir(sel.Order)}
	if m.root == "" {
		return res, ErrNoTarget
	}

	if err := os.MkdirAll(res.Dir, dirPerm); err != nil {
		metrics.RecordError("materializer", "mkdir")
		return res, fmt.Errorf("create %s directory: %w", category, err)
	}

	for _, name := range sel.FrameNames() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		src := m.SourcePath(name)
		dst := filepath.Join(res.Dir, filepath.Base(src))
		err := copyFile(src, dst)
		switch {
		case err == nil:
			res.Copied = append(res.Copied, name)
			metrics.RecordFrameCopied(category)
		case errors.Is(err, os.ErrNotExist):
			res.Missing = append(res.Missing, name)
			res.errs = append(res.errs, fmt.Errorf("%w: %s", ErrMissingResource, src))
			metrics.RecordFrameMissing(category)
			m.logger.Warn(ctx, "frame image missing, skipping",
				logger.String("category", category),
				logger.String("frame", name),
				logger.String("path", src),
			)
		default:
			metrics.RecordError("materializer", "copy")
			return res, fmt.Errorf("copy %s: %w", name, err)
		}
	}

	m.logger.Info(ctx, "frames materialized",
		logger.String("category", category),
		logger.String("dir", res.Dir),
		logger.Int("copied", len(res.Copied)),
		logger.Int("missing", len(res.Missing)),
	)
	return res, nil
}

// copyFile copies src to dst, replacing dst.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

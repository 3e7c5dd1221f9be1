package materializer

import (
	"github.com/okian/framerank/internal/domain/ranking"
	"github.com/okian/framerank/pkg/logger"
)

// Option applies a configuration option to the Materializer.
type Option func(*Materializer)

// WithImageLayout sets the image directory under the root and the file
// extension appended to frame names.
func WithImageLayout(dir, ext string) Option {
	return func(m *Materializer) {
		if dir != "" {
			m.imageDir = dir
		}
		if ext != "" {
			m.imageExt = ext
		}
	}
}

// WithCategoryDir overrides the directory name used for an order.
func WithCategoryDir(o ranking.Order, dir string) Option {
	return func(m *Materializer) {
		if dir != "" {
			m.categoryDirs[o] = dir
		}
	}
}

// WithLogger sets a custom logger for the materializer.
func WithLogger(l logger.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

package service

import (
	"github.com/okian/framerank/internal/adapters/report"
	"github.com/okian/framerank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDelimiter sets the score file column separator.
func WithDelimiter(delim string) Option {
	return func(s *Service) {
		if delim != "" {
			s.delimiter = delim
		}
	}
}

// WithSourceSuffix sets the suffix stripped from file names to build labels.
func WithSourceSuffix(suffix string) Option {
	return func(s *Service) {
		s.sourceSuffix = suffix
	}
}

// WithMaxParallel bounds concurrent histogram builds in Compare.
func WithMaxParallel(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParallel = n
		}
	}
}

// WithImageLayout sets where frame images live under the target directory.
func WithImageLayout(dir, ext string) Option {
	return func(s *Service) {
		if dir != "" {
			s.imageDir = dir
		}
		if ext != "" {
			s.imageExt = ext
		}
	}
}

// WithCategoryDirs sets the directory names for top and bottom selections.
func WithCategoryDirs(top, bottom string) Option {
	return func(s *Service) {
		if top != "" {
			s.topDir = top
		}
		if bottom != "" {
			s.bottomDir = bottom
		}
	}
}

// WithReportOptions passes styling options to the report renderer.
func WithReportOptions(opts ...report.Option) Option {
	return func(s *Service) {
		s.reportOpts = append(s.reportOpts, opts...)
	}
}

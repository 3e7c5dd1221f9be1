// Package config defines analysis configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Delimiter separates columns in score files. Runs of spaces count as one
	// separator when it is a single space.
	Delimiter string `koanf:"delimiter" validate:"required"`

	// SourceSuffix is stripped from file names to derive comparison labels.
	// Empty means strip whatever extension the file has.
	SourceSuffix string `koanf:"source_suffix"`

	// ImageDir is the directory under the target root that holds frame images.
	ImageDir string `koanf:"image_dir" validate:"required"`

	// ImageExt is appended to frame names to find their images.
	ImageExt string `koanf:"image_ext" validate:"required"`

	// TopDir and BottomDir name the category directories selections are copied into.
	TopDir    string `koanf:"top_dir" validate:"required,nefield=BottomDir"`
	BottomDir string `koanf:"bottom_dir" validate:"required"`

	// MaxParallel bounds concurrent histogram builds during comparison.
	MaxParallel int `koanf:"max_parallel" validate:"min=1"`

	// ChartHeight, BarWidth and ChartTemplate style the HTML report.
	ChartHeight   int     `koanf:"chart_height" validate:"min=100"`
	BarWidth      float64 `koanf:"bar_width" validate:"gte=0,lte=1"`
	ChartTemplate string  `koanf:"chart_template"`

	// MetricsFile, when set, receives a Prometheus textfile dump after each run.
	MetricsFile string `koanf:"metrics_file"`

	// Metrics settings shape the exported series.
	MetricsEnabled   bool              `koanf:"metrics_enabled"`
	MetricsNamespace string            `koanf:"metrics_namespace" validate:"required,promname"`
	MetricsSubsystem string            `koanf:"metrics_subsystem" validate:"required,promname"`
	MetricsLabels    map[string]string `koanf:"metrics_labels" validate:"omitempty,dive,keys,promname,endkeys"`
	MetricsBuckets   []float64         `koanf:"metrics_buckets" validate:"omitempty,ascending,dive,gt=0"`
}

// New creates a Config with defaults matching the upstream pipeline layout.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Delimiter:     " ",
		SourceSuffix:  "",
		ImageDir:      "image_color",
		ImageExt:      ".png",
		TopDir:        "Top",
		BottomDir:     "Bottom",
		MaxParallel:   runtime.NumCPU(),
		ChartHeight:   500,
		BarWidth:      0.2,
		ChartTemplate: "plotly_dark",

		MetricsEnabled:   true,
		MetricsNamespace: "framerank",
		MetricsSubsystem: "analysis",
	}
}

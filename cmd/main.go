package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/framerank/internal/adapters/loader"
	"github.com/okian/framerank/internal/adapters/report"
	service "github.com/okian/framerank/internal/app"
	"github.com/okian/framerank/internal/config"
	"github.com/okian/framerank/pkg/logger"
	"github.com/okian/framerank/pkg/metrics"
)

// stdoutPath selects standard output as the report destination.
const stdoutPath = "-"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	logLevel    string
	metricsFile string
	jsonOutput  bool
}

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:           "framerank",
		Short:         "Analyze per-frame quality scores from the frame selection pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&gf.configPath, "config", "", "YAML config file (default: $FRAMERANK_CONFIG)")
	root.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "override log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&gf.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format after the run")
	root.PersistentFlags().BoolVar(&gf.jsonOutput, "json", false, "write a JSON report instead of HTML")

	root.AddCommand(newAnalyzeCmd(gf))
	root.AddCommand(newCompareCmd(gf))
	return root
}

func newAnalyzeCmd(gf *globalFlags) *cobra.Command {
	var (
		req    service.AnalyzeRequest
		output string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Threshold sweep and top/bottom selection for one score file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx, gf)
			if err != nil {
				return err
			}
			if _, err := os.Stat(req.SourcePath); err != nil {
				return fmt.Errorf("source score file not found: %w", err)
			}

			svc := newService(cfg)
			res, err := svc.Analyze(ctx, req)
			defer flushMetrics(ctx, cfg)
			if err != nil {
				return err
			}
			if err := writeReport(output, !gf.jsonOutput, func(w io.Writer) error {
				return svc.WriteAnalysis(w, res, format(gf))
			}); err != nil {
				return err
			}
			// The report keeps whatever succeeded; a failed selection still fails the run.
			return res.Err()
		},
	}

	cmd.Flags().StringVarP(&req.SourcePath, "source_path", "s", "", "score file produced by the frame selection pipeline")
	cmd.Flags().StringVarP(&req.TargetDir, "target_path", "p", "", "pipeline output directory to copy Top/Bottom ranked images into")
	cmd.Flags().IntVarP(&req.Top, "top", "t", 0, "number of highest scoring frames to select")
	cmd.Flags().IntVarP(&req.Bottom, "bottom", "b", 0, "number of lowest scoring frames to select")
	cmd.Flags().StringVarP(&output, "output", "o", "", "report file; HTML is appended, - writes to stdout")
	_ = cmd.MarkFlagRequired("source_path")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newCompareCmd(gf *globalFlags) *cobra.Command {
	var (
		dir    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare threshold sweeps of every score file in a directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx, gf)
			if err != nil {
				return err
			}
			paths, err := loader.ListSources(dir)
			if err != nil {
				return err
			}

			svc := newService(cfg)
			res, err := svc.Compare(ctx, paths)
			defer flushMetrics(ctx, cfg)
			if err != nil {
				return err
			}
			return writeReport(output, false, func(w io.Writer) error {
				return svc.WriteComparison(w, res, format(gf))
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "path", "p", "", "directory holding two or more score files")
	cmd.Flags().StringVarP(&output, "output", "o", stdoutPath, "report file, - writes to stdout")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

// setup loads configuration, applies the log level and rebuilds the metrics
// registry from the metrics_* keys.
func setup(ctx context.Context, gf *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx, gf.configPath)
	if err != nil {
		return nil, err
	}
	if gf.metricsFile != "" {
		cfg.MetricsFile = gf.metricsFile
	}
	level := cfg.LogLevel
	if gf.logLevel != "" {
		level = gf.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.Configure(
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	)
	return cfg, nil
}

func newService(cfg *config.Config) *service.Service {
	return service.New(
		service.WithLogger(logger.Named("framerank")),
		service.WithDelimiter(cfg.Delimiter),
		service.WithSourceSuffix(cfg.SourceSuffix),
		service.WithMaxParallel(cfg.MaxParallel),
		service.WithImageLayout(cfg.ImageDir, cfg.ImageExt),
		service.WithCategoryDirs(cfg.TopDir, cfg.BottomDir),
		service.WithReportOptions(
			report.WithHeight(cfg.ChartHeight),
			report.WithBarWidth(cfg.BarWidth),
			report.WithTheme(cfg.ChartTemplate),
		),
	)
}

func format(gf *globalFlags) service.Format {
	if gf.jsonOutput {
		return service.FormatJSON
	}
	return service.FormatHTML
}

// writeReport opens path (appending when appendMode is set) and hands it to
// write. "-" or an empty path writes to stdout.
func writeReport(path string, appendMode bool, write func(io.Writer) error) (err error) {
	if path == "" || path == stdoutPath {
		return write(os.Stdout)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// flushMetrics writes the metrics textfile if one is configured. Failures
// are logged; they never fail the run.
func flushMetrics(ctx context.Context, cfg *config.Config) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsFile, metrics.GetRegistry()); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Get().Warn(ctx, "could not write metrics file", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}
}

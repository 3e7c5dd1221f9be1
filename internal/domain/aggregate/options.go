package aggregate

// Option applies a configuration option to an aggregation run.
type Option func(*aggregator)

// WithSuffix strips suffix from source names when deriving labels. When no
// suffix is set the file extension is stripped instead.
func WithSuffix(suffix string) Option {
	return func(a *aggregator) {
		a.suffix = suffix
	}
}

// WithMaxParallel bounds how many histograms are built at once.
func WithMaxParallel(n int) Option {
	return func(a *aggregator) {
		if n > 0 {
			a.maxParallel = n
		}
	}
}

package loader

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDelimiter sets the column separator. A single space also swallows runs
// of whitespace.
func WithDelimiter(delim string) Option {
	return func(l *Loader) {
		if delim != "" {
			l.delimiter = delim
		}
	}
}

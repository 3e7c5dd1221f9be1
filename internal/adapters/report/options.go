package report

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithHeight sets the figure height in pixels.
func WithHeight(px int) Option {
	return func(r *Renderer) {
		if px > 0 {
			r.height = px
		}
	}
}

// WithBarWidth sets the bar width of selection charts. Zero keeps the
// plotting library default.
func WithBarWidth(width float64) Option {
	return func(r *Renderer) {
		if width >= 0 {
			r.barWidth = width
		}
	}
}

// WithTheme selects a named color theme, e.g. "plotly_dark".
func WithTheme(name string) Option {
	return func(r *Renderer) {
		r.theme = name
	}
}

// WithRunID tags rendered output with the analysis run id.
func WithRunID(id string) Option {
	return func(r *Renderer) {
		r.runID = id
	}
}

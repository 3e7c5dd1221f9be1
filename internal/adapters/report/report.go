// Package report renders analysis results as Plotly HTML fragments or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/okian/framerank/internal/domain/aggregate"
	"github.com/okian/framerank/internal/domain/histogram"
	"github.com/okian/framerank/internal/domain/ranking"
)

// Figure labels, kept identical to the charts the pipeline team is used to.
const (
	thresholdTitle      = "Number of Selected Frames by Varying Threshold"
	comparisonTitle     = "Number of Selected Frames by Varying Threshold for Multiple Pdps"
	thresholdAxis       = "Threshold"
	selectedFramesAxis  = "Number of Selected Frames"
	selectionFrameAxis  = "Selected Frame Number"
	selectionScoreAxis  = "Score"
	comparisonLegend    = "pdps"
	plotlyURL           = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	defaultFigureHeight = 500
)

// Renderer turns domain results into figures.
type Renderer struct {
	height   int
	barWidth float64
	theme    string
	runID    string
}

// NewRenderer creates a Renderer with configuration options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{height: defaultFigureHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Figure is a single Plotly chart.
type Figure struct {
	ID     string
	Height int
	Data   []Trace
	Layout Layout
}

// Trace is one Plotly data series.
type Trace struct {
	Type  string  `json:"type"`
	Mode  string  `json:"mode,omitempty"`
	Name  string  `json:"name,omitempty"`
	X     []int   `json:"x"`
	Y     []int   `json:"y"`
	Width float64 `json:"width,omitempty"`
}

// Layout is the subset of Plotly layout the reports use.
type Layout struct {
	Title        Text   `json:"title"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	Height       int    `json:"height"`
	ShowLegend   bool   `json:"showlegend"`
	Legend       Legend `json:"legend"`
	PaperBGColor string `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string `json:"plot_bgcolor,omitempty"`
	Font         *Font  `json:"font,omitempty"`
}

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Axis is a Plotly axis object.
type Axis struct {
	Title Text   `json:"title"`
	Type  string `json:"type,omitempty"`
}

// Legend is a Plotly legend object.
type Legend struct {
	Title Text `json:"title"`
}

// Font is a Plotly font object.
type Font struct {
	Color string `json:"color"`
}

type themeColors struct {
	paper, plot, font string
}

var themes = map[string]themeColors{
	"plotly_dark":  {paper: "rgb(17,17,17)", plot: "rgb(17,17,17)", font: "#f2f5fa"},
	"plotly_white": {paper: "white", plot: "white", font: "#2a3f5f"},
}

func (r *Renderer) newFigure(title, xLabel, yLabel string) Figure {
	layout := Layout{
		Title:  Text{Text: title},
		XAxis:  Axis{Title: Text{Text: xLabel}},
		YAxis:  Axis{Title: Text{Text: yLabel}},
		Height: r.height,
	}
	if t, ok := themes[r.theme]; ok {
		layout.PaperBGColor = t.paper
		layout.PlotBGColor = t.plot
		layout.Font = &Font{Color: t.font}
	}
	return Figure{ID: uuid.NewString(), Height: r.height, Layout: layout}
}

func lineTrace(name string, h histogram.Histogram) Trace {
	points := h.Points()
	tr := Trace{Type: "scatter", Mode: "lines", Name: name, X: make([]int, len(points)), Y: make([]int, len(points))}
	for i, p := range points {
		tr.X[i] = p.Threshold
		tr.Y[i] = p.Count
	}
	return tr
}

// ThresholdFigure draws a single histogram as a line chart.
func (r *Renderer) ThresholdFigure(h histogram.Histogram) Figure {
	fig := r.newFigure(thresholdTitle, thresholdAxis, selectedFramesAxis)
	fig.Data = []Trace{lineTrace("", h)}
	return fig
}

// ComparisonFigure draws one line per source, colored by label.
func (r *Renderer) ComparisonFigure(set aggregate.Set) Figure {
	fig := r.newFigure(comparisonTitle, thresholdAxis, selectedFramesAxis)
	fig.Layout.ShowLegend = true
	fig.Layout.Legend = Legend{Title: Text{Text: comparisonLegend}}
	for _, label := range set.Labels() {
		fig.Data = append(fig.Data, lineTrace(label, set[label]))
	}
	return fig
}

// SelectionFigure draws a ranked selection as a bar chart of score per frame.
func (r *Renderer) SelectionFigure(sel ranking.Selection) Figure {
	title := fmt.Sprintf("%s Ranked Frame's Number and their corresponding Scores", sel.Order.Category())
	fig := r.newFigure(title, selectionFrameAxis, selectionScoreAxis)
	// Frame numbers are labels, not magnitudes.
	fig.Layout.XAxis.Type = "category"
	fig.Data = []Trace{{
		Type:  "bar",
		X:     sel.FrameNumbers(),
		Y:     sel.Scores(),
		Width: r.barWidth,
	}}
	return fig
}

// WriteHTML renders figs as one HTML fragment that loads Plotly from its CDN.
func (r *Renderer) WriteHTML(w io.Writer, figs ...Figure) error {
	data := struct {
		RunID     string
		PlotlyURL string
		Figures   []Figure
	}{RunID: r.runID, PlotlyURL: plotlyURL, Figures: figs}
	if err := figuresTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

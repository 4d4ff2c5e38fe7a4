// Package plotting renders pitch-contour comparison figures. Pure
// visualization; nothing here affects the audio pipeline.
package plotting

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Contour is one pitch contour to draw. Zero frames are unvoiced and render
// as gaps rather than zero-frequency lines.
type Contour struct {
	Label         string    `json:"label"`
	F0            []float64 `json:"f0"`
	FramePeriodMS float64   `json:"frame_period_ms"`
}

// Options controls figure layout
type Options struct {
	Title        string  `json:"title"`
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
}

// DefaultOptions returns the default figure layout
func DefaultOptions() Options {
	return Options{
		Title:        "Fundamental Frequency (F0) Contour Comparison",
		WidthInches:  12,
		HeightInches: 6,
	}
}

type lineStyle struct {
	color  color.RGBA
	dashes []vg.Length
	width  vg.Length
}

// Target solid blue, source dashed red, converted dotted green
var contourStyles = []lineStyle{
	{color: color.RGBA{B: 255, A: 255}, width: vg.Points(2)},
	{color: color.RGBA{R: 255, A: 255}, dashes: []vg.Length{vg.Points(6), vg.Points(3)}, width: vg.Points(2)},
	{color: color.RGBA{G: 160, A: 255}, dashes: []vg.Length{vg.Points(1), vg.Points(3)}, width: vg.Points(3)},
}

// SaveComparison renders the three pitch contours on a shared time axis and
// writes the figure to path (format chosen by extension, typically .png).
// The input slices are never modified.
func SaveComparison(path string, target, source, converted Contour, opts Options) error {
	if opts.WidthInches <= 0 || opts.HeightInches <= 0 {
		def := DefaultOptions()
		opts.WidthInches = def.WidthInches
		opts.HeightInches = def.HeightInches
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Frequency (Hz)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, contour := range []Contour{target, source, converted} {
		if err := addContour(p, contour, contourStyles[i]); err != nil {
			return err
		}
	}

	width := vg.Length(opts.WidthInches) * vg.Inch
	height := vg.Length(opts.HeightInches) * vg.Inch
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save plot to %s: %w", path, err)
	}

	return nil
}

// addContour draws one contour as a line per voiced segment, with a single
// legend entry
func addContour(p *plot.Plot, c Contour, style lineStyle) error {
	if c.FramePeriodMS <= 0 {
		return fmt.Errorf("contour %q: frame period must be positive", c.Label)
	}

	legendAdded := false
	for _, segment := range voicedSegments(c) {
		line, err := plotter.NewLine(segment)
		if err != nil {
			return fmt.Errorf("contour %q: %w", c.Label, err)
		}
		line.LineStyle.Color = style.color
		line.LineStyle.Width = style.width
		line.LineStyle.Dashes = style.dashes

		p.Add(line)
		if !legendAdded {
			p.Legend.Add(c.Label, line)
			legendAdded = true
		}
	}

	return nil
}

// voicedSegments splits a contour into runs of consecutive voiced frames,
// each with its own time axis derived from the frame period
func voicedSegments(c Contour) []plotter.XYs {
	var segments []plotter.XYs
	var current plotter.XYs

	for i, f0 := range c.F0 {
		if f0 <= 0 {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		t := float64(i) * c.FramePeriodMS / 1000.0
		current = append(current, plotter.XY{X: t, Y: f0})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}

	return segments
}

// Package render draws the ecofunctional trajectory chart and writes it as a PNG.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/TrajectoryPlot/src/logging"
	"github.com/iafilius/TrajectoryPlot/src/trajectory"
)

// ErrEmptySeries is returned when there is no final recovery value to annotate.
var ErrEmptySeries = errors.New("recovery series is empty: nothing to annotate")

const (
	Title           = "Ecofunctional Trajectory Analysis"
	IntegrityLabel  = "Functional Integrity"
	RecoveryLabel   = "Recovery Capacity (Logic)"
	ResilienceLabel = "Resilience Potential"
	finalLabel      = "Final Recovery"
)

// Default series colours follow the common tab10 palette so the output looks familiar.
var (
	integrityColor  = drawing.ColorFromHex("1f77b4")
	recoveryColor   = drawing.ColorFromHex("ff7f0e").WithAlpha(178) // 0.7 opacity
	resilienceColor = drawing.ColorFromHex("2ca02c")
	gridColor       = drawing.ColorFromHex("b0b0b0").WithAlpha(153) // 0.6 opacity
)

// Options controls figure geometry and optional extras.
type Options struct {
	WidthIn  float64
	HeightIn float64
	DPI      float64
	// ShowResilience also draws the resilience series, which is otherwise extracted but not plotted.
	ShowResilience bool
	// Caption, when set, is stamped in the bottom-left corner.
	Caption string
}

// DefaultOptions is a 10x6 inch figure at 100 DPI.
func DefaultOptions() Options {
	return Options{WidthIn: 10, HeightIn: 6, DPI: 100}
}

// FigureSize converts inches at dpi into pixels, clamping to a readable minimum.
func FigureSize(widthIn, heightIn, dpi float64) (int, int) {
	if dpi <= 0 {
		dpi = 100
	}
	w := int(math.Round(widthIn * dpi))
	h := int(math.Round(heightIn * dpi))
	if w < 320 {
		w = 320
	}
	if h < 200 {
		h = 200
	}
	return w, h
}

// Build assembles the chart definition for s. It does not rasterize.
func Build(s trajectory.Series, opts Options) (*chart.Chart, error) {
	n := len(s.Recovery)
	if n == 0 {
		return nil, ErrEmptySeries
	}
	xs := s.StepValues()
	grid := chart.Style{StrokeColor: gridColor, StrokeWidth: 1, StrokeDashArray: []float64{4, 3}}
	xAxis := buildStepAxis(xs, grid)
	yAxis := buildValueAxis(grid)
	xr := xAxis.Range.(*chart.ContinuousRange)
	yr := yAxis.Range.(*chart.ContinuousRange)

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    IntegrityLabel,
			XValues: xs,
			YValues: s.Integrity,
			Style: chart.Style{
				StrokeColor: integrityColor,
				StrokeWidth: 2,
				DotColor:    integrityColor,
				DotWidth:    4,
			},
		},
		chart.ContinuousSeries{
			Name:    RecoveryLabel,
			XValues: xs,
			YValues: s.Recovery,
			Style: chart.Style{
				StrokeColor:     recoveryColor,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{6, 4},
			},
		},
	}
	if opts.ShowResilience {
		series = append(series, chart.ContinuousSeries{
			Name:    ResilienceLabel,
			XValues: xs,
			YValues: s.Resilience,
			Style: chart.Style{
				StrokeColor:     resilienceColor,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{2, 3},
			},
		})
	}

	w, h := FigureSize(opts.WidthIn, opts.HeightIn, opts.DPI)
	ch := &chart.Chart{
		Title:      Title,
		Width:      w,
		Height:     h,
		DPI:        opts.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 40, Right: 24, Bottom: 20}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
	}
	// the value axis takes the left side; nothing is plotted against a second one
	ch.YAxisSecondary.Style.Hidden = true
	ann := finalValueAnnotation(finalLabel, xs[n-1], s.Recovery[n-1])
	ch.Elements = []chart.Renderable{
		squareMarkers(xs, s.Recovery, xr, yr, 4, recoveryColor),
		ann.renderable(xr, yr),
		chart.Legend(ch),
	}
	return ch, nil
}

// Render rasterizes the trajectory chart into PNG bytes.
func Render(s trajectory.Series, opts Options) ([]byte, error) {
	defer logging.TimeTrack(time.Now(), "render chart")
	ch, err := Build(s, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	if opts.Caption == "" {
		return buf.Bytes(), nil
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, drawCaption(img, opts.Caption)); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return out.Bytes(), nil
}

package render

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// plotMapper converts data coordinates into pixels inside the chart's canvas box,
// using the same translation go-chart applies when drawing series.
type plotMapper struct {
	x, y chart.ContinuousRange
	box  chart.Box
}

// newPlotMapper snapshots the axis ranges. Call it at draw time: go-chart adjusts
// the ranges in place while rendering.
func newPlotMapper(xr, yr *chart.ContinuousRange, box chart.Box) plotMapper {
	x, y := *xr, *yr
	x.Domain = box.Width()
	y.Domain = box.Height()
	return plotMapper{x: x, y: y, box: box}
}

func (m plotMapper) point(vx, vy float64) (int, int) {
	return m.box.Left + m.x.Translate(vx), m.box.Bottom - m.y.Translate(vy)
}

// squareMarkers draws a filled square at every point. go-chart only knows round dots.
func squareMarkers(xs, ys []float64, xr, yr *chart.ContinuousRange, half int, col drawing.Color) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, _ chart.Style) {
		m := newPlotMapper(xr, yr, cb)
		r.ResetStyle()
		r.SetFillColor(col)
		r.SetStrokeColor(col)
		r.SetStrokeWidth(1)
		for i := range xs {
			if i >= len(ys) || math.IsNaN(ys[i]) {
				continue
			}
			px, py := m.point(xs[i], ys[i])
			r.MoveTo(px-half, py-half)
			r.LineTo(px+half, py-half)
			r.LineTo(px+half, py+half)
			r.LineTo(px-half, py+half)
			r.Close()
			r.FillStroke()
		}
	}
}

// annotation is a text label placed at (textX, textY) with an arrow pointing at (atX, atY), all in data units.
type annotation struct {
	Text         string
	AtX, AtY     float64
	TextX, TextY float64
	FontSize     float64
	Color        drawing.Color
	// Shrink trims this fraction of the arrow length off both ends.
	Shrink float64
}

// finalValueAnnotation labels the last point of a series, offset one step left and 0.1 up.
func finalValueAnnotation(label string, x, y float64) annotation {
	return annotation{
		Text:     fmt.Sprintf("%s: %.2f", label, y),
		AtX:      x,
		AtY:      y,
		TextX:    x - 1,
		TextY:    y + 0.1,
		FontSize: 10,
		Color:    drawing.ColorBlack,
		Shrink:   0.05,
	}
}

func (a annotation) renderable(xr, yr *chart.ContinuousRange) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		m := newPlotMapper(xr, yr, cb)
		r.ResetStyle()
		if defaults.Font != nil {
			r.SetFont(defaults.Font)
		}
		r.SetFontSize(a.FontSize)
		r.SetFontColor(a.Color)

		tx, ty := m.point(a.TextX, a.TextY)
		tb := r.MeasureText(a.Text)
		tw, th := tb.Width(), tb.Height()
		// keep the label on the image; the text anchor is its baseline-left corner
		if tx+tw > cb.Right {
			tx = cb.Right - tw
		}
		if tx < 0 {
			tx = 0
		}
		if ty-th < 0 {
			ty = th
		}
		r.Text(a.Text, tx, ty)

		// arrow from the label's lower middle to the point
		sx, sy := float64(tx+tw/2), float64(ty+2)
		px, py := m.point(a.AtX, a.AtY)
		ex, ey := float64(px), float64(py)
		dx, dy := ex-sx, ey-sy
		length := math.Hypot(dx, dy)
		if length < 1 {
			return
		}
		ux, uy := dx/length, dy/length
		trim := length * a.Shrink
		sx, sy = sx+ux*trim, sy+uy*trim
		ex, ey = ex-ux*trim, ey-uy*trim

		const headLen, headHalf = 10.0, 4.0
		bx, by := ex-ux*headLen, ey-uy*headLen
		r.SetStrokeColor(a.Color)
		r.SetFillColor(a.Color)
		r.SetStrokeWidth(1.5)
		if length-2*trim > headLen {
			r.MoveTo(int(sx), int(sy))
			r.LineTo(int(bx), int(by))
			r.Stroke()
		}
		// head: triangle with its tip on the (trimmed) point
		r.MoveTo(int(math.Round(ex)), int(math.Round(ey)))
		r.LineTo(int(math.Round(bx-uy*headHalf)), int(math.Round(by+ux*headHalf)))
		r.LineTo(int(math.Round(bx+uy*headHalf)), int(math.Round(by-ux*headHalf)))
		r.Close()
		r.FillStroke()
	}
}

package render

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Fixed value axis: all three metrics live in [0,1]; headroom leaves space for the annotation.
const (
	valueAxisMin = 0.0
	valueAxisMax = 1.1
)

// axisPadPct mirrors the usual 5% auto-margin around the step extent; short runs get at
// least minStepPad steps so the outermost points stay off the frame.
const (
	axisPadPct = 0.05
	minStepPad = 0.5
)

// stepAxisBounds returns the X range covering all steps plus the annotation anchor one step
// left of the last point, padded on both sides. A zero span widens to one step each way.
func stepAxisBounds(steps []float64) (float64, float64) {
	if len(steps) == 0 {
		return 0, 1
	}
	lo, hi := steps[0], steps[0]
	for _, v := range steps[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo = math.Min(lo, steps[len(steps)-1]-1)
	span := hi - lo
	if span <= 0 {
		return lo - 1, hi + 1
	}
	pad := math.Max(span*axisPadPct, minStepPad)
	return lo - pad, hi + pad
}

// buildStepAxis constructs the X axis over simulation steps with integer ticks.
func buildStepAxis(steps []float64, grid chart.Style) chart.XAxis {
	lo, hi := stepAxisBounds(steps)
	ticks := niceTicks(lo, hi, 8, 1)
	return chart.XAxis{
		Name:           "Simulation Step (Time)",
		Ticks:          boundTicks(ticks, lo, hi),
		Range:          &chart.ContinuousRange{Min: lo, Max: hi},
		GridMajorStyle: grid,
		GridMinorStyle: grid,
		GridLines:      gridLines(ticks, grid),
	}
}

// buildValueAxis constructs the fixed [0, 1.1] Y axis, drawn on the left of the plot.
func buildValueAxis(grid chart.Style) chart.YAxis {
	ticks := niceTicks(valueAxisMin, valueAxisMax, 6, 0)
	return chart.YAxis{
		Name:           "Index Value (0-1)",
		AxisType:       chart.YAxisSecondary,
		Ticks:          boundTicks(ticks, valueAxisMin, valueAxisMax),
		Range:          &chart.ContinuousRange{Min: valueAxisMin, Max: valueAxisMax},
		GridMajorStyle: grid,
		GridMinorStyle: grid,
		GridLines:      gridLines(ticks, grid),
	}
}

// boundTicks adds unlabeled ticks at lo and hi when the labeled ticks stop short of them.
// go-chart resets an axis range to the extremes of its explicit ticks while rendering.
func boundTicks(ticks []chart.Tick, lo, hi float64) []chart.Tick {
	const eps = 1e-9
	out := make([]chart.Tick, 0, len(ticks)+2)
	if len(ticks) == 0 || ticks[0].Value > lo+eps {
		out = append(out, chart.Tick{Value: lo})
	}
	out = append(out, ticks...)
	if len(ticks) == 0 || ticks[len(ticks)-1].Value < hi-eps {
		out = append(out, chart.Tick{Value: hi})
	}
	return out
}

func gridLines(ticks []chart.Tick, st chart.Style) []chart.GridLine {
	out := make([]chart.GridLine, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, chart.GridLine{Value: t.Value, Style: st})
	}
	return out
}

// niceTicks generates roughly n tick marks inside [min, max] using 1/2/2.5/5 increments.
// minStep > 0 keeps increments from dropping below it (integer steps on the X axis).
func niceTicks(min, max float64, n int, minStep float64) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		if minStep > 0 && step < minStep {
			continue
		}
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	if minStep > 0 && bestStep < minStep {
		bestStep = minStep
	}
	decimals := stepDecimals(bestStep)
	first := math.Ceil(min/bestStep - 1e-9)
	ticks := []chart.Tick{}
	for i := first; ; i++ {
		v := i * bestStep
		if v > max+bestStep*1e-9 {
			break
		}
		v = roundTo(v, decimals)
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', decimals, 64)})
		if len(ticks) > n*3 { // keep it readable
			break
		}
	}
	return ticks
}

// stepDecimals is the number of decimals needed to print multiples of step exactly.
func stepDecimals(step float64) int {
	for d := 0; d < 6; d++ {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return d
		}
	}
	return 6
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // avoid -0 labels
	}
	return r
}

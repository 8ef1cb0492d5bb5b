// Package waveform samples and plots PWLE envelopes for terminal preview.
package waveform

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// envelopeSeries pairs one sampled curve with its fixed rendering slot.
type envelopeSeries struct {
	name   string
	values []float64
	// Dash period keeps overlapping curves tellable apart without color.
	period int
	on     int
	color  string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "max"
	axisLabelMid        = "mid"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per curve; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

const (
	amplitudeColor = "\x1b[36m" // cyan
	frequencyColor = "\x1b[35m" // magenta
)

// PlotEnvelope renders the amplitude and frequency curves as a braille plot.
func PlotEnvelope(w io.Writer, title string, env Envelope, width, height int) error {
	return plotEnvelope(w, title, env, width, height, false)
}

// PlotEnvelopeWithColor renders the plot with optional forced color output.
func PlotEnvelopeWithColor(w io.Writer, title string, env Envelope, width, height int, forceColor bool) error {
	return plotEnvelope(w, title, env, width, height, forceColor)
}

func plotEnvelope(w io.Writer, title string, env Envelope, width, height int, forceColor bool) error {
	if len(env.Amplitude) == 0 {
		_, err := fmt.Fprintln(w, "Empty envelope.")
		return err
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	series := []envelopeSeries{
		{name: "amplitude", values: resample(env.Amplitude, width), period: 1, on: 1, color: amplitudeColor},
		{name: "frequency Hz", values: resample(env.FrequencyHz, width), period: 6, on: 3, color: frequencyColor},
	}

	type valueRange struct{ min, max float64 }
	ranges := make([]valueRange, len(series))
	for i, s := range series {
		minVal, maxVal := minMax(s.values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		ranges[i] = valueRange{min: minVal, max: maxVal}
	}

	cells := make([][][]uint8, len(series))
	for i := range series {
		cells[i] = makeCells(height, width)
	}
	for si, s := range series {
		prevX, prevY := -1, -1
		for x, v := range s.values {
			row := valueToRow(v, ranges[si].min, ranges[si].max, height*4)
			px := x * 2
			if prevX >= 0 {
				drawLine(prevX, prevY, px, row, func(dx, dy int) {
					if dashOn(dx, s.period, s.on) {
						setBrailleDot(cells[si], dx, dy)
					}
				})
			} else if dashOn(px, s.period, s.on) {
				setBrailleDot(cells[si], px, row)
			}
			prevX, prevY = px, row
		}
	}

	useColor := shouldUseColor(w, forceColor)
	leftAxisWidth := utf8.RuneCountInString(axisLabelTop)
	axisLabels := makeAxisLabels(height)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, scaleNote); err != nil {
		return err
	}
	for i, s := range series {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.name, ranges[i].min, ranges[i].max); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", leftAxisWidth, axisLabels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, seriesIdx := composeCell(cells, x, y)
			ch := brailleFromMask(mask)
			if useColor && seriesIdx >= 0 {
				row.WriteString(series[seriesIdx].color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(series, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "duration: %d ms\n", env.DurationMs())
	return err
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	seriesIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) || x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if seriesIdx == -1 {
			seriesIdx = i
		}
		mask |= cellMask
	}
	return mask, seriesIdx
}

func dashOn(x, period, on int) bool {
	if period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%period < on
}

// resample stretches or shrinks values onto the plot width: averaging when
// shrinking, linear interpolation when stretching.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == math.Inf(1) {
		minVal = 0
	}
	if maxVal == math.Inf(-1) {
		maxVal = 0
	}
	return minVal, maxVal
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(series []envelopeSeries, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for _, s := range series {
		label := fmt.Sprintf("%c %s", marker, s.name)
		if useColor {
			label = s.color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) {
		return
	}
	if cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

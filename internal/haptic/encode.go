// Package haptic composes vibration requests into driver commands.
package haptic

import (
	"fmt"
	"strconv"
	"strings"
)

// pwleHeader opens every PWLE command line: source 0, waveform slot 4, no
// repeat, no wait.
const pwleHeader = "S:0,WF:4,RP:0,WT:0"

// cursorSentinel marks the amplitude/frequency continuity cursor as unset.
const cursorSentinel = -1.0

// encodeCursor tracks the previous segment's end state across one encoding
// pass. Braking breaks continuity, so it resets the cursor.
type encodeCursor struct {
	prevEndAmplitude   float64
	prevEndFrequencyHz float64
}

func (c *encodeCursor) reset() {
	c.prevEndAmplitude = cursorSentinel
	c.prevEndFrequencyHz = cursorSentinel
}

// EncodePwle converts a validated segment list into a driver command line and
// returns it with the total playback time in milliseconds. The driver's
// segment grammar has no instantaneous start state, so whenever a segment's
// start amplitude/frequency differs from the previous end state (compared
// with exact float equality), a zero-duration setup token establishing that
// state is emitted first. Braking segments always emit a setup token and
// always break continuity. Setup tokens contribute nothing to the total.
func EncodePwle(segments []Segment) (string, int) {
	var b strings.Builder
	b.WriteString(pwleHeader)

	var cur encodeCursor
	cur.reset()
	idx := 0
	totalMs := 0

	for _, seg := range segments {
		switch s := seg.(type) {
		case ActiveSegment:
			if s.StartAmplitude != cur.prevEndAmplitude || s.StartFrequencyHz != cur.prevEndFrequencyHz {
				writeActiveToken(&b, idx, 0, s.StartAmplitude, s.StartFrequencyHz)
				idx++
			}
			writeActiveToken(&b, idx, s.DurationMs, s.EndAmplitude, s.EndFrequencyHz)
			idx++
			cur.prevEndAmplitude = s.EndAmplitude
			cur.prevEndFrequencyHz = s.EndFrequencyHz
			totalMs += s.DurationMs
		case BrakingSegment:
			writeBrakingToken(&b, idx, 0, s.Braking)
			idx++
			writeBrakingToken(&b, idx, s.DurationMs, s.Braking)
			idx++
			cur.reset()
			totalMs += s.DurationMs
		}
	}
	return b.String(), totalMs
}

// writeActiveToken appends one active token: duration, level, frequency,
// chirp on, and the constant braking/attack-rate/vibration fields the driver
// expects on every segment.
func writeActiveToken(b *strings.Builder, idx, durationMs int, level, freqHz float64) {
	fmt.Fprintf(b, ",T%d:%d", idx, durationMs)
	fmt.Fprintf(b, ",L%d:%s", idx, formatFloat(level))
	fmt.Fprintf(b, ",F%d:%s", idx, formatFloat(freqHz))
	fmt.Fprintf(b, ",C%d:1,B%d:0,AR%d:0,V%d:0", idx, idx, idx, idx)
}

// writeBrakingToken appends one braking token: zero level and frequency,
// chirp off, and the braking code.
func writeBrakingToken(b *strings.Builder, idx, durationMs int, braking Braking) {
	fmt.Fprintf(b, ",T%d:%d", idx, durationMs)
	fmt.Fprintf(b, ",L%d:0,F%d:0,C%d:0", idx, idx, idx)
	fmt.Fprintf(b, ",B%d:%d,AR%d:0,V%d:0", idx, int(braking), idx, idx)
}

// formatFloat renders levels and frequencies in their shortest form, so
// 0.5 stays "0.5" and 150 stays "150".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

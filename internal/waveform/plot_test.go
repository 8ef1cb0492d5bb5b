package waveform

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/vibectl/internal/haptic"
)

func TestPlotEnvelope(t *testing.T) {
	env := Sample([]haptic.Segment{
		haptic.ActiveSegment{
			DurationMs:       200,
			StartAmplitude:   0.0,
			EndAmplitude:     1.0,
			StartFrequencyHz: 140,
			EndFrequencyHz:   160,
		},
		haptic.BrakingSegment{DurationMs: 40, Braking: haptic.BrakingClab},
	}, 5)

	var buf bytes.Buffer
	if err := PlotEnvelope(&buf, "ramp", env, 40, 8); err != nil {
		t.Fatalf("plot failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "ramp") {
		t.Fatal("title missing from output")
	}
	if !strings.Contains(out, "amplitude") || !strings.Contains(out, "frequency Hz") {
		t.Fatal("series names missing from output")
	}
	if !strings.Contains(out, "duration: 240 ms") {
		t.Fatalf("duration line missing:\n%s", out)
	}
	// Non-file writers never get ANSI escapes.
	if strings.Contains(out, "\x1b[") {
		t.Fatal("color escapes written to a plain buffer")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title + scale note + two range lines + 8 rows + legend + duration.
	if len(lines) != 14 {
		t.Fatalf("lines = %d, want 14:\n%s", len(lines), out)
	}
}

func TestPlotEnvelopeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotEnvelope(&buf, "", Envelope{StepMs: 5}, 40, 8); err != nil {
		t.Fatalf("plot failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Empty envelope.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 74 {
		t.Fatalf("width = %d, want 74", got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("narrow width = %d, want %d", got, minPlotWidth)
	}
}

func TestResample(t *testing.T) {
	shrunk := resample([]float64{0, 0, 2, 2}, 2)
	if len(shrunk) != 2 || shrunk[0] != 0 || shrunk[1] != 2 {
		t.Fatalf("shrink = %v, want [0 2]", shrunk)
	}
	stretched := resample([]float64{0, 1}, 3)
	if len(stretched) != 3 || stretched[1] != 0.5 {
		t.Fatalf("stretch = %v, want midpoint 0.5", stretched)
	}
}

package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/vibectl/internal/haptic"
	"github.com/verte-zerg/vibectl/internal/store"
)

type nullDriver struct{}

func (nullDriver) WriteIndex(int) error     { return nil }
func (nullDriver) WriteDuration(int) error  { return nil }
func (nullDriver) WriteActivate(bool) error { return nil }
func (nullDriver) WritePwle(string) error   { return nil }

func TestRenderCapabilities(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCapabilities(&buf, haptic.New(nullDriver{})); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"on-callback", "yes",
		"frequency-control", "no",
		"resonant frequency", "150 Hz",
		"click", "15 ms",
		"noop", "0 ms",
		"spin", "100 ms",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	plays := []store.Play{
		{Name: "double-tap", Kind: "composite", DurationMs: 320, PlayedAt: time.Now()},
	}
	if err := RenderHistory(&buf, plays); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "double-tap") || !strings.Contains(buf.String(), "320 ms") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No plays recorded.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderPatterns(t *testing.T) {
	var buf bytes.Buffer
	infos := []store.PatternInfo{
		{Name: "ramp", Kind: "pwle", DurationMs: 150, CreatedAt: time.Now()},
	}
	if err := RenderPatterns(&buf, infos); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "ramp") || !strings.Contains(buf.String(), "150 ms") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

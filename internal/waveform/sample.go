// Package waveform samples and plots PWLE envelopes for terminal preview.
package waveform

import "github.com/verte-zerg/vibectl/internal/haptic"

// Envelope holds amplitude and frequency samples on a fixed millisecond
// grid, one entry per step.
type Envelope struct {
	StepMs      int
	Amplitude   []float64
	FrequencyHz []float64
}

// Sample expands a segment list into an envelope with one sample per stepMs.
// Active segments interpolate linearly between their start and end state;
// braking segments sample as zero amplitude and frequency, matching what the
// driver plays. Zero-duration segments contribute no samples.
func Sample(segments []haptic.Segment, stepMs int) Envelope {
	if stepMs <= 0 {
		stepMs = 1
	}
	env := Envelope{StepMs: stepMs}
	for _, seg := range segments {
		switch s := seg.(type) {
		case haptic.ActiveSegment:
			steps := s.DurationMs / stepMs
			for i := 0; i < steps; i++ {
				frac := float64(i) / float64(steps)
				env.Amplitude = append(env.Amplitude,
					s.StartAmplitude+(s.EndAmplitude-s.StartAmplitude)*frac)
				env.FrequencyHz = append(env.FrequencyHz,
					s.StartFrequencyHz+(s.EndFrequencyHz-s.StartFrequencyHz)*frac)
			}
		case haptic.BrakingSegment:
			steps := s.DurationMs / stepMs
			for i := 0; i < steps; i++ {
				env.Amplitude = append(env.Amplitude, 0)
				env.FrequencyHz = append(env.FrequencyHz, 0)
			}
		}
	}
	return env
}

// DurationMs returns the sampled playback time.
func (e Envelope) DurationMs() int {
	return len(e.Amplitude) * e.StepMs
}

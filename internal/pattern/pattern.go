// Package pattern parses TOML vibration pattern files.
package pattern

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/vibectl/internal/haptic"
)

// Kind discriminates the two pattern layouts.
type Kind string

// Pattern kinds.
const (
	KindComposite Kind = "composite"
	KindPwle      Kind = "pwle"
)

// Pattern is a named vibration sequence loaded from a TOML file: either an
// ordered primitive composition or a PWLE segment list. Source keeps the
// original TOML text so the store can round-trip it.
type Pattern struct {
	Name     string
	Kind     Kind
	Steps    []haptic.CompositeEffect
	Segments []haptic.Segment
	Source   string
}

type rawPattern struct {
	Name     string       `toml:"name"`
	Kind     string       `toml:"kind"`
	Steps    []rawStep    `toml:"step"`
	Segments []rawSegment `toml:"segment"`
}

type rawStep struct {
	Primitive string   `toml:"primitive"`
	DelayMs   int      `toml:"delay-ms"`
	Scale     *float64 `toml:"scale"`
}

type rawSegment struct {
	Type             string  `toml:"type"`
	DurationMs       int     `toml:"duration-ms"`
	StartAmplitude   float64 `toml:"start-amplitude"`
	EndAmplitude     float64 `toml:"end-amplitude"`
	StartFrequencyHz float64 `toml:"start-frequency-hz"`
	EndFrequencyHz   float64 `toml:"end-frequency-hz"`
	Braking          string  `toml:"braking"`
}

// DecodeFile reads and decodes a pattern file.
func DecodeFile(path string) (Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to read pattern: %w", err)
	}
	return Decode(data)
}

// Decode parses pattern TOML. The kind may be omitted when only one of
// [[step]] or [[segment]] is present.
func Decode(data []byte) (Pattern, error) {
	var raw rawPattern
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Pattern{}, fmt.Errorf("failed to decode pattern: %w", err)
	}
	if raw.Name == "" {
		return Pattern{}, fmt.Errorf("pattern has no name")
	}

	kind, err := resolveKind(raw)
	if err != nil {
		return Pattern{}, err
	}

	p := Pattern{Name: raw.Name, Kind: kind, Source: string(data)}
	switch kind {
	case KindComposite:
		p.Steps, err = convertSteps(raw.Steps)
	case KindPwle:
		p.Segments, err = convertSegments(raw.Segments)
	}
	if err != nil {
		return Pattern{}, err
	}
	return p, nil
}

func resolveKind(raw rawPattern) (Kind, error) {
	switch Kind(raw.Kind) {
	case KindComposite:
		if len(raw.Segments) > 0 {
			return "", fmt.Errorf("composite pattern %q has [[segment]] entries", raw.Name)
		}
		return KindComposite, nil
	case KindPwle:
		if len(raw.Steps) > 0 {
			return "", fmt.Errorf("pwle pattern %q has [[step]] entries", raw.Name)
		}
		return KindPwle, nil
	case "":
		switch {
		case len(raw.Steps) > 0 && len(raw.Segments) > 0:
			return "", fmt.Errorf("pattern %q mixes [[step]] and [[segment]] entries", raw.Name)
		case len(raw.Segments) > 0:
			return KindPwle, nil
		default:
			return KindComposite, nil
		}
	default:
		return "", fmt.Errorf("pattern %q has unknown kind %q", raw.Name, raw.Kind)
	}
}

func convertSteps(steps []rawStep) ([]haptic.CompositeEffect, error) {
	out := make([]haptic.CompositeEffect, 0, len(steps))
	for i, s := range steps {
		primitive, err := haptic.ParsePrimitive(s.Primitive)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		scale := 1.0
		if s.Scale != nil {
			scale = *s.Scale
		}
		out = append(out, haptic.CompositeEffect{
			Primitive: primitive,
			DelayMs:   s.DelayMs,
			Scale:     scale,
		})
	}
	return out, nil
}

func convertSegments(segments []rawSegment) ([]haptic.Segment, error) {
	out := make([]haptic.Segment, 0, len(segments))
	for i, s := range segments {
		switch s.Type {
		case "active":
			out = append(out, haptic.ActiveSegment{
				DurationMs:       s.DurationMs,
				StartAmplitude:   s.StartAmplitude,
				EndAmplitude:     s.EndAmplitude,
				StartFrequencyHz: s.StartFrequencyHz,
				EndFrequencyHz:   s.EndFrequencyHz,
			})
		case "braking":
			braking, err := haptic.ParseBraking(s.Braking)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			out = append(out, haptic.BrakingSegment{
				DurationMs: s.DurationMs,
				Braking:    braking,
			})
		default:
			return nil, fmt.Errorf("segment %d has unknown type %q", i, s.Type)
		}
	}
	return out, nil
}

// Validate checks the pattern against the hardware limits.
func (p Pattern) Validate() error {
	switch p.Kind {
	case KindComposite:
		return haptic.ValidateComposite(p.Steps)
	case KindPwle:
		return haptic.ValidatePwle(p.Segments)
	default:
		return fmt.Errorf("pattern %q has unknown kind %q", p.Name, p.Kind)
	}
}

// DurationMs returns the pattern's total playback time.
func (p Pattern) DurationMs() int {
	if p.Kind == KindComposite {
		return haptic.CompositeDurationMs(p.Steps)
	}
	total := 0
	for _, seg := range p.Segments {
		switch s := seg.(type) {
		case haptic.ActiveSegment:
			total += s.DurationMs
		case haptic.BrakingSegment:
			total += s.DurationMs
		}
	}
	return total
}

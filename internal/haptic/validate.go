// Package haptic composes vibration requests into driver commands.
package haptic

import "fmt"

// ValidateComposite checks a composite request against the hardware limits.
// It stops at the first violation; an empty request is valid.
func ValidateComposite(entries []CompositeEffect) error {
	if len(entries) > ComposeSizeMax {
		return fmt.Errorf("%w: composition has %d entries, max %d",
			ErrInvalidArgument, len(entries), ComposeSizeMax)
	}
	for i, e := range entries {
		if e.DelayMs < 0 || e.DelayMs > ComposeDelayMaxMs {
			return fmt.Errorf("%w: entry %d delay %d ms outside [0, %d]",
				ErrInvalidArgument, i, e.DelayMs, ComposeDelayMaxMs)
		}
		if e.Scale < 0 || e.Scale > 1 {
			return fmt.Errorf("%w: entry %d scale %g outside [0, 1]",
				ErrInvalidArgument, i, e.Scale)
		}
		if !e.Primitive.Supported() {
			return fmt.Errorf("%w: entry %d primitive %s",
				ErrUnsupportedOperation, i, e.Primitive)
		}
	}
	return nil
}

// ValidatePwle checks a PWLE request against the hardware limits. Unlike
// composite requests, an empty PWLE request is rejected. It stops at the
// first violation.
func ValidatePwle(segments []Segment) error {
	if len(segments) == 0 || len(segments) > PwleCompositionSizeMax {
		return fmt.Errorf("%w: composition has %d segments, want 1..%d",
			ErrInvalidArgument, len(segments), PwleCompositionSizeMax)
	}
	for i, seg := range segments {
		switch s := seg.(type) {
		case ActiveSegment:
			if s.DurationMs < 0 || s.DurationMs > PwlePrimitiveDurationMaxMs {
				return fmt.Errorf("%w: segment %d duration %d ms outside [0, %d]",
					ErrInvalidArgument, i, s.DurationMs, PwlePrimitiveDurationMaxMs)
			}
			if s.StartAmplitude < LevelMin || s.StartAmplitude > LevelMax ||
				s.EndAmplitude < LevelMin || s.EndAmplitude > LevelMax {
				return fmt.Errorf("%w: segment %d amplitude outside [%g, %g]",
					ErrInvalidArgument, i, LevelMin, LevelMax)
			}
			if s.StartFrequencyHz < FrequencyMinHz || s.StartFrequencyHz > FrequencyMaxHz ||
				s.EndFrequencyHz < FrequencyMinHz || s.EndFrequencyHz > FrequencyMaxHz {
				return fmt.Errorf("%w: segment %d frequency outside [%g, %g] Hz",
					ErrInvalidArgument, i, FrequencyMinHz, FrequencyMaxHz)
			}
		case BrakingSegment:
			if s.Braking < 0 || s.Braking > brakingMax {
				return fmt.Errorf("%w: segment %d braking code %d above max %d",
					ErrInvalidArgument, i, int(s.Braking), int(brakingMax))
			}
			if s.DurationMs < 0 || s.DurationMs > PwlePrimitiveDurationMaxMs {
				return fmt.Errorf("%w: segment %d duration %d ms outside [0, %d]",
					ErrInvalidArgument, i, s.DurationMs, PwlePrimitiveDurationMaxMs)
			}
		default:
			return fmt.Errorf("%w: segment %d has unknown kind %T",
				ErrInvalidArgument, i, seg)
		}
	}
	return nil
}

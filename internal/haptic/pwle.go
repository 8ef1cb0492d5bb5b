// Package haptic composes vibration requests into driver commands.
package haptic

import "fmt"

// Segment is one timed unit of a PWLE composition: either an
// amplitude/frequency ramp or a braking period. The interface is sealed so
// the encoder's type switch stays exhaustive.
type Segment interface {
	segment()
}

// ActiveSegment ramps amplitude and frequency linearly over its duration.
type ActiveSegment struct {
	DurationMs       int
	StartAmplitude   float64
	EndAmplitude     float64
	StartFrequencyHz float64
	EndFrequencyHz   float64
}

func (ActiveSegment) segment() {}

// BrakingSegment damps the actuator for its duration.
type BrakingSegment struct {
	DurationMs int
	Braking    Braking
}

func (BrakingSegment) segment() {}

// Braking selects the damping mode of a braking segment.
type Braking int

// Supported braking modes. brakingMax is the highest defined value; codes
// above it are rejected by validation.
const (
	BrakingNone Braking = iota
	BrakingClab

	brakingMax = BrakingClab
)

var brakingNames = map[Braking]string{
	BrakingNone: "none",
	BrakingClab: "clab",
}

// String returns the lowercase braking mode name.
func (b Braking) String() string {
	if name, ok := brakingNames[b]; ok {
		return name
	}
	return fmt.Sprintf("braking(%d)", int(b))
}

// ParseBraking resolves a braking mode name as used in pattern files.
func ParseBraking(name string) (Braking, error) {
	for b, n := range brakingNames {
		if n == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown braking mode %q", ErrInvalidArgument, name)
}

// SupportedBraking lists the supported braking modes.
func SupportedBraking() []Braking {
	return []Braking{BrakingNone, BrakingClab}
}

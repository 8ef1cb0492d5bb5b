// Package haptic composes vibration requests into driver commands.
package haptic

import "fmt"

// CompositePrimitive is a canned, fixed-duration pattern usable inside a
// composite sequence.
type CompositePrimitive int

// Supported composite primitives.
const (
	PrimitiveNoop CompositePrimitive = iota
	PrimitiveClick
	PrimitiveThud
	PrimitiveSpin
	PrimitiveQuickRise
	PrimitiveSlowRise
	PrimitiveQuickFall
	PrimitiveLightTick
	PrimitiveLowTick
)

// primitiveDurationMs is the fixed playback time of every primitive except
// the no-op.
const primitiveDurationMs = 100

// CompositeEffect is one entry of a composite request: a primitive preceded
// by a delay and scaled in intensity.
type CompositeEffect struct {
	Primitive CompositePrimitive
	DelayMs   int
	Scale     float64
}

var primitiveNames = map[CompositePrimitive]string{
	PrimitiveNoop:      "noop",
	PrimitiveClick:     "click",
	PrimitiveThud:      "thud",
	PrimitiveSpin:      "spin",
	PrimitiveQuickRise: "quick-rise",
	PrimitiveSlowRise:  "slow-rise",
	PrimitiveQuickFall: "quick-fall",
	PrimitiveLightTick: "light-tick",
	PrimitiveLowTick:   "low-tick",
}

// Supported reports whether the primitive is in the supported set.
func (p CompositePrimitive) Supported() bool {
	_, ok := primitiveNames[p]
	return ok
}

// String returns the lowercase primitive name.
func (p CompositePrimitive) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return fmt.Sprintf("primitive(%d)", int(p))
}

// ParsePrimitive resolves a primitive name as used in pattern files.
func ParsePrimitive(name string) (CompositePrimitive, error) {
	for p, n := range primitiveNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown primitive %q", ErrUnsupportedOperation, name)
}

// SupportedPrimitives lists the supported primitives in declaration order.
func SupportedPrimitives() []CompositePrimitive {
	return []CompositePrimitive{
		PrimitiveNoop, PrimitiveClick, PrimitiveThud, PrimitiveSpin,
		PrimitiveQuickRise, PrimitiveSlowRise, PrimitiveQuickFall,
		PrimitiveLightTick, PrimitiveLowTick,
	}
}

// Package haptic composes vibration requests into driver commands.
package haptic

import "fmt"

// Effect is a named, prerecorded vibration waveform selected by firmware index.
type Effect int

// Effects known to the firmware index list.
const (
	EffectClick Effect = iota
	EffectDoubleClick
	EffectTick
	EffectThud
	EffectPop
	EffectHeavyClick
	EffectTextureTick
)

// EffectStrength scales a named effect. The aw8697 firmware waveforms are
// pre-scaled, so strength is accepted and recorded but does not change the
// selected index.
type EffectStrength int

// Effect strengths.
const (
	StrengthLight EffectStrength = iota
	StrengthMedium
	StrengthStrong
)

// effectEntry pairs a firmware waveform index with its fixed playback time.
type effectEntry struct {
	index      int
	durationMs int
}

// Firmware waveform indices and durations. POP has no dedicated slot and
// reuses the tick waveform with its own duration.
var effectTable = map[Effect]effectEntry{
	EffectTick:        {index: 1, durationMs: 10},
	EffectTextureTick: {index: 4, durationMs: 20},
	EffectClick:       {index: 2, durationMs: 15},
	EffectHeavyClick:  {index: 5, durationMs: 30},
	EffectDoubleClick: {index: 6, durationMs: 60},
	EffectThud:        {index: 7, durationMs: 35},
	EffectPop:         {index: 1, durationMs: 15},
}

var effectNames = map[Effect]string{
	EffectClick:       "click",
	EffectDoubleClick: "double-click",
	EffectTick:        "tick",
	EffectThud:        "thud",
	EffectPop:         "pop",
	EffectHeavyClick:  "heavy-click",
	EffectTextureTick: "texture-tick",
}

// String returns the lowercase effect name.
func (e Effect) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return fmt.Sprintf("effect(%d)", int(e))
}

// ParseEffect resolves an effect name as used in the CLI and pattern files.
func ParseEffect(name string) (Effect, error) {
	for e, n := range effectNames {
		if n == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown effect %q", ErrUnsupportedOperation, name)
}

// EffectDuration returns the fixed playback time of a named effect.
func EffectDuration(e Effect) (int, error) {
	entry, ok := effectTable[e]
	if !ok {
		return 0, fmt.Errorf("%w: effect %s", ErrUnsupportedOperation, e)
	}
	return entry.durationMs, nil
}

var strengthNames = map[EffectStrength]string{
	StrengthLight:  "light",
	StrengthMedium: "medium",
	StrengthStrong: "strong",
}

// String returns the lowercase strength name.
func (s EffectStrength) String() string {
	if name, ok := strengthNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strength(%d)", int(s))
}

// ParseStrength resolves a strength name as used in the CLI.
func ParseStrength(name string) (EffectStrength, error) {
	for s, n := range strengthNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown strength %q", ErrInvalidArgument, name)
}

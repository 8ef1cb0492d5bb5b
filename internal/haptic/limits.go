// Package haptic composes vibration requests into driver commands.
package haptic

// Hardware limits of the aw8697-class actuator.
const (
	// ComposeDelayMaxMs bounds the pre-delay of a single composite entry.
	ComposeDelayMaxMs = 1000
	// ComposeSizeMax bounds the number of entries in a composite request.
	ComposeSizeMax = 256
	// PwleCompositionSizeMax bounds the number of segments in a PWLE request.
	PwleCompositionSizeMax = 127
	// PwlePrimitiveDurationMaxMs bounds the duration of a single PWLE segment.
	PwlePrimitiveDurationMaxMs = 16383
)

// PWLE amplitude and frequency bounds.
const (
	LevelMin              = 0.0
	LevelMax              = 1.0
	FrequencyMinHz        = 140.0
	FrequencyMaxHz        = 160.0
	FrequencyResolutionHz = 1.0
	ResonantFrequencyHz   = 150.0
	QFactor               = 11.0
)

// bandwidthMapSize is the number of 1 Hz steps across the supported band.
const bandwidthMapSize = 1 + int((FrequencyMaxHz-FrequencyMinHz)/FrequencyResolutionHz)

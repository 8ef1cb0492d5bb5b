// Package haptic composes vibration requests into driver commands.
package haptic

import (
	"fmt"
	"log"
	"time"
)

// Driver writes commands to the actuator's control channels. Writes are
// synchronous and best-effort; the driver offers no acknowledgment beyond
// the write error.
type Driver interface {
	WriteIndex(index int) error
	WriteDuration(ms int) error
	WriteActivate(on bool) error
	WritePwle(cmd string) error
}

// CompletionFunc is invoked at most once when a request's playback time has
// elapsed. Errors are logged and never propagated to the original caller.
type CompletionFunc func() error

// Capability is a bitmask of optional vibrator features.
type Capability int

// Capability bits.
const (
	CapOnCallback Capability = 1 << iota
	CapPerformCallback
	CapAmplitudeControl
	CapExternalControl
	CapComposeEffects
	CapAlwaysOnControl
	CapFrequencyControl
	CapComposePwleEffects
)

// Vibrator validates vibration requests, encodes them for the driver, and
// schedules completion callbacks. Each request is encoded with state private
// to its call; the driver channel is the only shared resource.
type Vibrator struct {
	drv  Driver
	logf func(format string, args ...any)
}

// New returns a Vibrator writing through drv.
func New(drv Driver) *Vibrator {
	return &Vibrator{drv: drv, logf: log.Printf}
}

// Capabilities reports the supported feature set.
func (v *Vibrator) Capabilities() Capability {
	return CapOnCallback | CapPerformCallback
}

// On vibrates for durationMs and schedules done after that time.
func (v *Vibrator) On(durationMs int, done CompletionFunc) error {
	if durationMs < 0 {
		return fmt.Errorf("%w: duration %d ms is negative", ErrInvalidArgument, durationMs)
	}
	if err := v.drv.WriteDuration(durationMs); err != nil {
		return err
	}
	if err := v.drv.WriteActivate(true); err != nil {
		return err
	}
	v.scheduleCompletion("on", durationMs, done)
	return nil
}

// Off stops vibration. The waveform index is reset first so the next request
// starts from a clean slot.
func (v *Vibrator) Off() error {
	if err := v.drv.WriteIndex(0); err != nil {
		return err
	}
	return v.drv.WriteActivate(false)
}

// Perform plays a named effect and returns its fixed duration in
// milliseconds. The call returns as soon as the effect is triggered; done
// fires after the duration elapses.
func (v *Vibrator) Perform(effect Effect, strength EffectStrength, done CompletionFunc) (int, error) {
	entry, ok := effectTable[effect]
	if !ok {
		return 0, fmt.Errorf("%w: effect %s", ErrUnsupportedOperation, effect)
	}
	v.logf("performing %s at %s strength", effect, strength)
	if err := v.drv.WriteIndex(entry.index); err != nil {
		return 0, err
	}
	if err := v.On(entry.durationMs, nil); err != nil {
		return 0, err
	}
	v.scheduleCompletion("perform", entry.durationMs, done)
	return entry.durationMs, nil
}

// Compose plays an ordered primitive sequence. Validation errors are
// returned synchronously; on success the call returns immediately and done
// fires after the summed delays and primitive durations.
func (v *Vibrator) Compose(entries []CompositeEffect, done CompletionFunc) error {
	if err := ValidateComposite(entries); err != nil {
		return err
	}
	totalMs := CompositeDurationMs(entries)
	v.scheduleCompletion("compose", totalMs, done)
	return nil
}

// CompositeDurationMs sums each entry's delay and primitive duration.
// Entries must already be validated.
func CompositeDurationMs(entries []CompositeEffect) int {
	total := 0
	for _, e := range entries {
		total += e.DelayMs
		if e.Primitive != PrimitiveNoop {
			total += primitiveDurationMs
		}
	}
	return total
}

// ComposePwle plays a piecewise-linear envelope. Validation errors are
// returned synchronously and nothing is written on failure; on success the
// encoded command is handed to the driver and done fires after the summed
// segment durations.
func (v *Vibrator) ComposePwle(segments []Segment, done CompletionFunc) error {
	if err := ValidatePwle(segments); err != nil {
		return err
	}
	cmd, totalMs := EncodePwle(segments)
	if err := v.drv.WritePwle(cmd); err != nil {
		return err
	}
	v.scheduleCompletion("compose PWLE", totalMs, done)
	return nil
}

// SetAmplitude scales subsequent vibration. Zero is rejected: turning the
// actuator off goes through Off.
func (v *Vibrator) SetAmplitude(amplitude float64) error {
	if amplitude <= 0 || amplitude > 1 {
		return fmt.Errorf("%w: amplitude %g outside (0, 1]", ErrInvalidArgument, amplitude)
	}
	v.logf("amplitude set to %g", amplitude)
	return nil
}

// SetExternalControl hands the actuator to or from an external stream.
func (v *Vibrator) SetExternalControl(enabled bool) error {
	v.logf("external control: %t", enabled)
	return nil
}

// AlwaysOnEnable binds a named effect to an always-on slot.
func (v *Vibrator) AlwaysOnEnable(id int, effect Effect, strength EffectStrength) error {
	if _, ok := effectTable[effect]; !ok {
		return fmt.Errorf("%w: effect %s", ErrUnsupportedOperation, effect)
	}
	v.logf("always-on %d enabled with %s/%s", id, effect, strength)
	return nil
}

// AlwaysOnDisable releases an always-on slot.
func (v *Vibrator) AlwaysOnDisable(id int) error {
	v.logf("always-on %d disabled", id)
	return nil
}

// SupportedEffects lists the effects with a firmware waveform.
func (v *Vibrator) SupportedEffects() []Effect {
	return []Effect{
		EffectTick, EffectTextureTick, EffectClick, EffectHeavyClick,
		EffectDoubleClick, EffectThud, EffectPop,
	}
}

// SupportedAlwaysOnEffects lists the effects usable in always-on slots.
func (v *Vibrator) SupportedAlwaysOnEffects() []Effect {
	return v.SupportedEffects()
}

// SupportedPrimitives lists the primitives usable in composite requests.
func (v *Vibrator) SupportedPrimitives() []CompositePrimitive {
	return SupportedPrimitives()
}

// SupportedBraking lists the braking modes usable in PWLE requests.
func (v *Vibrator) SupportedBraking() []Braking {
	return SupportedBraking()
}

// PrimitiveDuration returns the fixed playback time of a primitive.
func (v *Vibrator) PrimitiveDuration(p CompositePrimitive) (int, error) {
	if !p.Supported() {
		return 0, fmt.Errorf("%w: primitive %s", ErrUnsupportedOperation, p)
	}
	if p == PrimitiveNoop {
		return 0, nil
	}
	return primitiveDurationMs, nil
}

// CompositionDelayMax returns the per-entry delay limit in milliseconds.
func (v *Vibrator) CompositionDelayMax() int { return ComposeDelayMaxMs }

// CompositionSizeMax returns the composite entry count limit.
func (v *Vibrator) CompositionSizeMax() int { return ComposeSizeMax }

// PwlePrimitiveDurationMax returns the per-segment duration limit in
// milliseconds.
func (v *Vibrator) PwlePrimitiveDurationMax() int { return PwlePrimitiveDurationMaxMs }

// PwleCompositionSizeMax returns the PWLE segment count limit.
func (v *Vibrator) PwleCompositionSizeMax() int { return PwleCompositionSizeMax }

// ResonantFrequency returns the actuator's resonant frequency in Hz.
func (v *Vibrator) ResonantFrequency() float64 { return ResonantFrequencyHz }

// QFactor returns the actuator's quality factor.
func (v *Vibrator) QFactor() float64 { return QFactor }

// FrequencyResolution returns the PWLE frequency step in Hz.
func (v *Vibrator) FrequencyResolution() float64 { return FrequencyResolutionHz }

// FrequencyMinimum returns the lowest PWLE frequency in Hz.
func (v *Vibrator) FrequencyMinimum() float64 { return FrequencyMinHz }

// BandwidthAmplitudeMap returns the maximum amplitude per 1 Hz step across
// the supported band, peaking at 1.0 on the resonant frequency and falling
// off by 0.01 per step. It requires frequency control, which this actuator
// does not report, so callers currently get ErrUnsupportedOperation.
func (v *Vibrator) BandwidthAmplitudeMap() ([]float64, error) {
	if v.Capabilities()&CapFrequencyControl == 0 {
		return nil, fmt.Errorf("%w: frequency control not available", ErrUnsupportedOperation)
	}
	m := make([]float64, bandwidthMapSize)
	half := bandwidthMapSize / 2
	m[half] = LevelMax
	for i := 0; i < half; i++ {
		m[half+i+1] = m[half+i] - 0.01
		m[half-i-1] = m[half-i] - 0.01
	}
	return m, nil
}

// scheduleCompletion spawns a detached timer that invokes done exactly once
// after totalMs. The goroutine owns copies of everything it touches, so it
// may outlive the request that spawned it. A nil done schedules nothing.
func (v *Vibrator) scheduleCompletion(op string, totalMs int, done CompletionFunc) {
	if done == nil {
		return
	}
	logf := v.logf
	go func() {
		time.Sleep(time.Duration(totalMs) * time.Millisecond)
		if err := done(); err != nil {
			logf("%s completion callback failed: %v", op, err)
		}
	}()
}

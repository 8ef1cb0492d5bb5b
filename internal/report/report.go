// Package report renders plain-text tables for the CLI.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/vibectl/internal/haptic"
	"github.com/verte-zerg/vibectl/internal/store"
)

var capabilityNames = []struct {
	bit  haptic.Capability
	name string
}{
	{haptic.CapOnCallback, "on-callback"},
	{haptic.CapPerformCallback, "perform-callback"},
	{haptic.CapAmplitudeControl, "amplitude-control"},
	{haptic.CapExternalControl, "external-control"},
	{haptic.CapComposeEffects, "compose-effects"},
	{haptic.CapAlwaysOnControl, "always-on-control"},
	{haptic.CapFrequencyControl, "frequency-control"},
	{haptic.CapComposePwleEffects, "compose-pwle-effects"},
}

// RenderCapabilities prints the capability bits, actuator constants, and the
// supported effect and primitive tables.
func RenderCapabilities(w io.Writer, v *haptic.Vibrator) error {
	caps := v.Capabilities()
	if _, err := fmt.Fprintln(w, "Capabilities"); err != nil {
		return err
	}
	capRows := make([][]string, 0, len(capabilityNames))
	for _, c := range capabilityNames {
		state := "no"
		if caps&c.bit != 0 {
			state = "yes"
		}
		capRows = append(capRows, []string{c.name, state})
	}
	if err := writeTable(w, []string{"Capability", "Supported"}, capRows, nil); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nActuator"); err != nil {
		return err
	}
	constRows := [][]string{
		{"resonant frequency", fmt.Sprintf("%g Hz", v.ResonantFrequency())},
		{"Q factor", fmt.Sprintf("%g", v.QFactor())},
		{"frequency minimum", fmt.Sprintf("%g Hz", v.FrequencyMinimum())},
		{"frequency resolution", fmt.Sprintf("%g Hz", v.FrequencyResolution())},
		{"composition delay max", fmt.Sprintf("%d ms", v.CompositionDelayMax())},
		{"composition size max", fmt.Sprintf("%d", v.CompositionSizeMax())},
		{"PWLE segment duration max", fmt.Sprintf("%d ms", v.PwlePrimitiveDurationMax())},
		{"PWLE size max", fmt.Sprintf("%d", v.PwleCompositionSizeMax())},
	}
	if err := writeTable(w, []string{"Constant", "Value"}, constRows, map[int]bool{1: true}); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nEffects"); err != nil {
		return err
	}
	effectRows := make([][]string, 0, len(v.SupportedEffects()))
	for _, e := range v.SupportedEffects() {
		duration, err := haptic.EffectDuration(e)
		if err != nil {
			return err
		}
		effectRows = append(effectRows, []string{e.String(), fmt.Sprintf("%d ms", duration)})
	}
	if err := writeTable(w, []string{"Effect", "Duration"}, effectRows, map[int]bool{1: true}); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nPrimitives"); err != nil {
		return err
	}
	primitiveRows := make([][]string, 0, len(v.SupportedPrimitives()))
	for _, p := range v.SupportedPrimitives() {
		duration, err := v.PrimitiveDuration(p)
		if err != nil {
			return err
		}
		primitiveRows = append(primitiveRows, []string{p.String(), fmt.Sprintf("%d ms", duration)})
	}
	return writeTable(w, []string{"Primitive", "Duration"}, primitiveRows, map[int]bool{1: true})
}

// RenderPatterns prints the saved pattern summaries.
func RenderPatterns(w io.Writer, infos []store.PatternInfo) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No saved patterns.")
		return err
	}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			string(info.Kind),
			fmt.Sprintf("%d ms", info.DurationMs),
			info.CreatedAt.Local().Format(time.DateTime),
		})
	}
	return writeTable(w, []string{"Name", "Kind", "Duration", "Saved"}, rows, map[int]bool{2: true})
}

// RenderHistory prints playback records, newest first.
func RenderHistory(w io.Writer, plays []store.Play) error {
	if len(plays) == 0 {
		_, err := fmt.Fprintln(w, "No plays recorded.")
		return err
	}
	rows := make([][]string, 0, len(plays))
	for _, play := range plays {
		rows = append(rows, []string{
			play.PlayedAt.Local().Format(time.DateTime),
			play.Name,
			play.Kind,
			fmt.Sprintf("%d ms", play.DurationMs),
		})
	}
	return writeTable(w, []string{"Played", "Name", "Kind", "Duration"}, rows, map[int]bool{3: true})
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

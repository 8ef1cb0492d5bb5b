package haptic

import (
	"errors"
	"testing"
)

func TestParseEffectRoundTrip(t *testing.T) {
	for _, e := range []Effect{
		EffectClick, EffectDoubleClick, EffectTick, EffectThud,
		EffectPop, EffectHeavyClick, EffectTextureTick,
	} {
		parsed, err := ParseEffect(e.String())
		if err != nil {
			t.Fatalf("parse %s failed: %v", e, err)
		}
		if parsed != e {
			t.Fatalf("parse %s = %v, want %v", e, parsed, e)
		}
	}
	if _, err := ParseEffect("buzzsaw"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestEffectDuration(t *testing.T) {
	cases := []struct {
		effect Effect
		want   int
	}{
		{EffectTick, 10},
		{EffectTextureTick, 20},
		{EffectClick, 15},
		{EffectHeavyClick, 30},
		{EffectDoubleClick, 60},
		{EffectThud, 35},
		{EffectPop, 15},
	}
	for _, tc := range cases {
		got, err := EffectDuration(tc.effect)
		if err != nil {
			t.Fatalf("%s: %v", tc.effect, err)
		}
		if got != tc.want {
			t.Fatalf("%s duration = %d, want %d", tc.effect, got, tc.want)
		}
	}
	if _, err := EffectDuration(Effect(99)); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestParseStrength(t *testing.T) {
	s, err := ParseStrength("strong")
	if err != nil || s != StrengthStrong {
		t.Fatalf("parse strong = %v, %v", s, err)
	}
	if _, err := ParseStrength("max"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

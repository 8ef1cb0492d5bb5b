package haptic

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeDriver records writes in order.
type fakeDriver struct {
	mu     sync.Mutex
	writes []string
}

func (d *fakeDriver) record(w string) {
	d.mu.Lock()
	d.writes = append(d.writes, w)
	d.mu.Unlock()
}

func (d *fakeDriver) WriteIndex(index int) error {
	d.record(fmt.Sprintf("index=%d", index))
	return nil
}

func (d *fakeDriver) WriteDuration(ms int) error {
	d.record(fmt.Sprintf("duration=%d", ms))
	return nil
}

func (d *fakeDriver) WriteActivate(on bool) error {
	d.record(fmt.Sprintf("activate=%t", on))
	return nil
}

func (d *fakeDriver) WritePwle(cmd string) error {
	d.record("pwle=" + cmd)
	return nil
}

func (d *fakeDriver) recorded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.writes))
	copy(out, d.writes)
	return out
}

func newTestVibrator() (*Vibrator, *fakeDriver) {
	drv := &fakeDriver{}
	v := New(drv)
	v.logf = func(format string, args ...any) {}
	return v, drv
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("completion callback never fired")
	}
}

func TestPerformWritesIndexAndTriggers(t *testing.T) {
	v, drv := newTestVibrator()
	durationMs, err := v.Perform(EffectClick, StrengthMedium, nil)
	if err != nil {
		t.Fatalf("perform failed: %v", err)
	}
	if durationMs != 15 {
		t.Fatalf("duration = %d, want 15", durationMs)
	}
	want := []string{"index=2", "duration=15", "activate=true"}
	got := drv.recorded()
	if len(got) != len(want) {
		t.Fatalf("writes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("writes = %v, want %v", got, want)
		}
	}
}

func TestPerformUnknownEffect(t *testing.T) {
	v, drv := newTestVibrator()
	if _, err := v.Perform(Effect(99), StrengthMedium, nil); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
	if got := drv.recorded(); len(got) != 0 {
		t.Fatalf("rejected perform wrote to driver: %v", got)
	}
}

func TestPerformNotifiesCompletion(t *testing.T) {
	v, _ := newTestVibrator()
	done := make(chan struct{})
	if _, err := v.Perform(EffectTick, StrengthStrong, func() error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("perform failed: %v", err)
	}
	waitDone(t, done)
}

func TestOnZeroDurationStillNotifies(t *testing.T) {
	v, _ := newTestVibrator()
	done := make(chan struct{})
	if err := v.On(0, func() error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("on failed: %v", err)
	}
	waitDone(t, done)
}

func TestOffResetsIndexBeforeDeactivating(t *testing.T) {
	v, drv := newTestVibrator()
	if err := v.Off(); err != nil {
		t.Fatalf("off failed: %v", err)
	}
	got := drv.recorded()
	if len(got) != 2 || got[0] != "index=0" || got[1] != "activate=false" {
		t.Fatalf("writes = %v, want [index=0 activate=false]", got)
	}
}

func TestComposeReturnsBeforeCompletion(t *testing.T) {
	v, _ := newTestVibrator()
	done := make(chan struct{})
	entries := []CompositeEffect{
		{Primitive: PrimitiveClick, DelayMs: 10, Scale: 1},
		{Primitive: PrimitiveNoop, DelayMs: 5, Scale: 0},
	}
	start := time.Now()
	if err := v.Compose(entries, func() error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("compose blocked for %v", elapsed)
	}
	waitDone(t, done)
}

func TestComposeRejectsWithoutSideEffects(t *testing.T) {
	v, drv := newTestVibrator()
	entries := []CompositeEffect{{Primitive: CompositePrimitive(42), Scale: 1}}
	called := false
	if err := v.Compose(entries, func() error {
		called = true
		return nil
	}); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if called {
		t.Fatal("completion fired for a rejected request")
	}
	if got := drv.recorded(); len(got) != 0 {
		t.Fatalf("rejected compose wrote to driver: %v", got)
	}
}

func TestCompositeDurationMs(t *testing.T) {
	entries := []CompositeEffect{
		{Primitive: PrimitiveClick, DelayMs: 30, Scale: 1},
		{Primitive: PrimitiveNoop, DelayMs: 20, Scale: 0},
		{Primitive: PrimitiveLowTick, Scale: 0.5},
	}
	// 30 + 100 + 20 + 0 + 0 + 100.
	if got := CompositeDurationMs(entries); got != 250 {
		t.Fatalf("total = %d, want 250", got)
	}
}

func TestComposePwleWritesEncodedCommand(t *testing.T) {
	v, drv := newTestVibrator()
	done := make(chan struct{})
	segments := []Segment{
		ActiveSegment{DurationMs: 10, StartAmplitude: 0, EndAmplitude: 0.5, StartFrequencyHz: 150, EndFrequencyHz: 150},
	}
	if err := v.ComposePwle(segments, func() error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("compose PWLE failed: %v", err)
	}
	got := drv.recorded()
	if len(got) != 1 || !strings.HasPrefix(got[0], "pwle=S:0,WF:4,RP:0,WT:0,T0:") {
		t.Fatalf("writes = %v, want one PWLE command", got)
	}
	waitDone(t, done)
}

func TestComposePwleRejectsWithoutSideEffects(t *testing.T) {
	v, drv := newTestVibrator()
	if err := v.ComposePwle(nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if got := drv.recorded(); len(got) != 0 {
		t.Fatalf("rejected compose wrote to driver: %v", got)
	}
}

func TestConcurrentRequestsNotifyIndependently(t *testing.T) {
	v, _ := newTestVibrator()
	const requests = 8
	var wg sync.WaitGroup
	counts := make([]int, requests)
	var mu sync.Mutex
	for i := 0; i < requests; i++ {
		i := i
		wg.Add(1)
		segments := []Segment{
			ActiveSegment{DurationMs: i, StartAmplitude: 0, EndAmplitude: 1, StartFrequencyHz: 150, EndFrequencyHz: 150},
		}
		if err := v.ComposePwle(segments, func() error {
			mu.Lock()
			counts[i]++
			mu.Unlock()
			wg.Done()
			return nil
		}); err != nil {
			t.Fatalf("compose PWLE %d failed: %v", i, err)
		}
	}
	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()
	waitDone(t, waited)
	mu.Lock()
	defer mu.Unlock()
	for i, c := range counts {
		if c != 1 {
			t.Fatalf("request %d notified %d times, want 1", i, c)
		}
	}
}

func TestCompletionErrorIsLoggedAndSwallowed(t *testing.T) {
	v, _ := newTestVibrator()
	logged := make(chan string, 1)
	v.logf = func(format string, args ...any) {
		select {
		case logged <- fmt.Sprintf(format, args...):
		default:
		}
	}
	if err := v.On(0, func() error {
		return errors.New("callback broke")
	}); err != nil {
		t.Fatalf("on failed: %v", err)
	}
	select {
	case msg := <-logged:
		if !strings.Contains(msg, "callback broke") {
			t.Fatalf("logged %q, want the callback error", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback failure was never logged")
	}
}

func TestSetAmplitudeBounds(t *testing.T) {
	v, _ := newTestVibrator()
	for _, a := range []float64{0, -0.1, 1.01} {
		if err := v.SetAmplitude(a); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("amplitude %g: expected ErrInvalidArgument, got %v", a, err)
		}
	}
	for _, a := range []float64{0.01, 0.5, 1} {
		if err := v.SetAmplitude(a); err != nil {
			t.Fatalf("amplitude %g rejected: %v", a, err)
		}
	}
}

func TestPrimitiveDuration(t *testing.T) {
	v, _ := newTestVibrator()
	if ms, err := v.PrimitiveDuration(PrimitiveNoop); err != nil || ms != 0 {
		t.Fatalf("noop duration = %d, %v; want 0, nil", ms, err)
	}
	if ms, err := v.PrimitiveDuration(PrimitiveSpin); err != nil || ms != 100 {
		t.Fatalf("spin duration = %d, %v; want 100, nil", ms, err)
	}
	if _, err := v.PrimitiveDuration(CompositePrimitive(42)); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

func TestAlwaysOnEnableChecksEffect(t *testing.T) {
	v, _ := newTestVibrator()
	if err := v.AlwaysOnEnable(1, EffectThud, StrengthLight); err != nil {
		t.Fatalf("always-on enable failed: %v", err)
	}
	if err := v.AlwaysOnEnable(1, Effect(99), StrengthLight); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
	if err := v.AlwaysOnDisable(1); err != nil {
		t.Fatalf("always-on disable failed: %v", err)
	}
}

func TestBandwidthAmplitudeMapRequiresFrequencyControl(t *testing.T) {
	v, _ := newTestVibrator()
	if _, err := v.BandwidthAmplitudeMap(); !errors.Is(err, ErrUnsupportedOperation) {
		t.Fatalf("expected ErrUnsupportedOperation, got %v", err)
	}
}

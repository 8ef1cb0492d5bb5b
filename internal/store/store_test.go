package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/vibectl/internal/pattern"
)

const testPatternSource = `name = "double-tap"

[[step]]
primitive = "click"

[[step]]
primitive = "click"
delay-ms = 120
`

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "vibectl.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return st
}

func testPattern(t *testing.T) pattern.Pattern {
	t.Helper()
	p, err := pattern.Decode([]byte(testPatternSource))
	if err != nil {
		t.Fatalf("failed to decode pattern: %v", err)
	}
	return p
}

func TestSaveGetRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	p := testPattern(t)

	if err := st.SavePattern(ctx, p); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := st.GetPattern(ctx, "double-tap")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != p.Name || got.Kind != p.Kind || len(got.Steps) != len(p.Steps) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
	}
	if got.Source != testPatternSource {
		t.Fatal("pattern source was not preserved")
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.SavePattern(ctx, testPattern(t)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := pattern.Decode([]byte("name = \"double-tap\"\n[[step]]\nprimitive = \"thud\"\n"))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := st.SavePattern(ctx, updated); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	infos, err := st.ListPatterns(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("patterns = %d, want 1", len(infos))
	}
	got, err := st.GetPattern(ctx, "double-tap")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.Steps) != 1 {
		t.Fatalf("steps = %d, want the replaced single step", len(got.Steps))
	}
}

func TestListPatternsSummaries(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.SavePattern(ctx, testPattern(t)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	infos, err := st.ListPatterns(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("patterns = %d, want 1", len(infos))
	}
	info := infos[0]
	if info.Name != "double-tap" || info.Kind != pattern.KindComposite {
		t.Fatalf("unexpected summary: %+v", info)
	}
	// click + 120 delay + click.
	if info.DurationMs != 320 {
		t.Fatalf("duration = %d, want 320", info.DurationMs)
	}
	if info.CreatedAt.IsZero() {
		t.Fatal("created-at missing")
	}
}

func TestGetMissingPattern(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.GetPattern(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePattern(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.SavePattern(ctx, testPattern(t)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.DeletePattern(ctx, "double-tap"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := st.DeletePattern(ctx, "double-tap"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayHistory(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		err := st.InsertPlay(ctx, Play{
			Name:       "double-tap",
			Kind:       "composite",
			DurationMs: 320,
			PlayedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("insert play %d failed: %v", i, err)
		}
	}

	plays, err := st.ListPlays(ctx, 2)
	if err != nil {
		t.Fatalf("list plays failed: %v", err)
	}
	if len(plays) != 2 {
		t.Fatalf("plays = %d, want 2", len(plays))
	}
	if !plays[0].PlayedAt.After(plays[1].PlayedAt) {
		t.Fatalf("plays not ordered newest first: %v then %v", plays[0].PlayedAt, plays[1].PlayedAt)
	}

	all, err := st.ListPlays(ctx, 0)
	if err != nil {
		t.Fatalf("list all plays failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("plays = %d, want 3", len(all))
	}
}

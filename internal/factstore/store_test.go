package factstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bowerhall/skugraph/internal/triple"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "facts.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sample() triple.Result {
	return triple.Result{
		Triples: []triple.Triple{
			{Subject: "Hypertension", Relation: "treated_by", Object: "ACE_inhibitor"},
			{Subject: "Asthma", Relation: "treated_by", Object: "Albuterol"},
			{Subject: "Hypertension", Relation: "treated_by", Object: "ACE_inhibitor"},
		},
		Failures: []*triple.ParseError{
			{Source: "bad.sku", Line: 4, Text: `("x"`, Reason: "unbalanced parentheses: missing ')'"},
		},
	}
}

func TestOpenAndClose(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("failed to close: %v", err)
	}
}

func TestLatestEmpty(t *testing.T) {
	store := openStore(t)

	if _, _, err := store.Latest(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestSaveAndLatest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "gen1", sample()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	res, load, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("failed to load latest: %v", err)
	}

	if load.Generation != "gen1" || load.Triples != 3 || load.Failures != 1 {
		t.Errorf("unexpected load summary: %+v", load)
	}
	if load.LoadedAt.IsZero() {
		t.Error("expected load time")
	}

	want := sample()
	if len(res.Triples) != len(want.Triples) {
		t.Fatalf("expected %d triples, got %d", len(want.Triples), len(res.Triples))
	}
	for i := range want.Triples {
		if res.Triples[i] != want.Triples[i] {
			t.Errorf("triple %d: expected %v, got %v", i, want.Triples[i], res.Triples[i])
		}
	}

	if len(res.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(res.Failures))
	}
	if *res.Failures[0] != *want.Failures[0] {
		t.Errorf("expected %+v, got %+v", *want.Failures[0], *res.Failures[0])
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "gen1", sample()); err != nil {
		t.Fatalf("failed to save gen1: %v", err)
	}

	next := triple.Result{Triples: []triple.Triple{{Subject: "A", Relation: "r", Object: "B"}}}
	if err := store.Save(ctx, "gen2", next); err != nil {
		t.Fatalf("failed to save gen2: %v", err)
	}

	res, load, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("failed to load latest: %v", err)
	}
	if load.Generation != "gen2" {
		t.Errorf("expected gen2, got %s", load.Generation)
	}
	if len(res.Triples) != 1 || len(res.Failures) != 0 {
		t.Errorf("expected only gen2 data, got %d triples and %d failures", len(res.Triples), len(res.Failures))
	}

	loads, err := store.Loads(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list loads: %v", err)
	}
	if len(loads) != 2 || loads[0].Generation != "gen2" || loads[1].Generation != "gen1" {
		t.Errorf("unexpected load history: %+v", loads)
	}
}

func TestSaveDuplicateGenerationFails(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "gen1", sample()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if err := store.Save(ctx, "gen1", triple.Result{}); err == nil {
		t.Fatal("expected duplicate generation to fail")
	}

	// the failed save must not have cleared the stored snapshot
	res, _, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("failed to load latest: %v", err)
	}
	if len(res.Triples) != 3 {
		t.Errorf("expected snapshot to survive rollback, got %d triples", len(res.Triples))
	}
}

package workout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/meltforce/repbook/internal/storage"
)

// newTestStore returns a template store over an in-memory backend with a
// deterministic ID sequence and a fixed clock.
func newTestStore(t *testing.T) (*TemplateStore, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	s := NewTemplateStore(kv)
	var n int
	s.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	s.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }
	return s, kv
}

// TestCreateAndList verifies created templates come back in insertion order
// with fresh IDs, empty exercise lists and a creation timestamp.
func TestCreateAndList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	push, err := s.Create(ctx, "Push Day")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pull, err := s.Create(ctx, "Pull Day")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if push.ID == "" || push.ID == pull.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", push.ID, pull.ID)
	}
	if push.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if len(push.Exercises) != 0 {
		t.Errorf("new template has %d exercises, want 0", len(push.Exercises))
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Push Day" || all[1].Name != "Pull Day" {
		t.Errorf("List = %+v, want insertion order Push Day, Pull Day", all)
	}
}

// TestGetAbsentTemplate verifies a stale ID resolves to nil without error.
func TestGetAbsentTemplate(t *testing.T) {
	s, _ := newTestStore(t)

	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get unknown ID = %+v, want nil", got)
	}
}

// TestDeleteTemplate verifies deletion removes the catalog entry only and
// deleting an unknown ID is a no-op.
func TestDeleteTemplate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tpl, _ := s.Create(ctx, "Legs")
	if err := s.Delete(ctx, tpl.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := s.Get(ctx, tpl.ID)
	if err != nil || got != nil {
		t.Errorf("Get after delete = %+v, %v; want nil, nil", got, err)
	}

	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete unknown ID: %v, want nil", err)
	}
}

// TestAddExercise verifies exercises append in order and that adding to an
// unknown template returns nil without error.
func TestAddExercise(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tpl, _ := s.Create(ctx, "Push Day")
	bench, err := s.AddExercise(ctx, tpl.ID, "Bench", "Chest")
	if err != nil {
		t.Fatalf("AddExercise: %v", err)
	}
	if bench == nil || bench.Name != "Bench" || bench.MuscleGroup != "Chest" {
		t.Fatalf("AddExercise = %+v", bench)
	}
	ohp, _ := s.AddExercise(ctx, tpl.ID, "Overhead Press", "Shoulders")

	got, _ := s.Get(ctx, tpl.ID)
	if len(got.Exercises) != 2 || got.Exercises[0].ID != bench.ID || got.Exercises[1].ID != ohp.ID {
		t.Errorf("exercise order = %+v, want bench then ohp", got.Exercises)
	}

	missing, err := s.AddExercise(ctx, "no-such-template", "Curl", "")
	if err != nil {
		t.Fatalf("AddExercise unknown template: %v", err)
	}
	if missing != nil {
		t.Errorf("AddExercise unknown template = %+v, want nil", missing)
	}
}

// TestDeleteExercise verifies removal from the template list and no-op
// behavior for unknown IDs.
func TestDeleteExercise(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tpl, _ := s.Create(ctx, "Push Day")
	bench, _ := s.AddExercise(ctx, tpl.ID, "Bench", "Chest")
	dips, _ := s.AddExercise(ctx, tpl.ID, "Dips", "Chest")

	if err := s.DeleteExercise(ctx, tpl.ID, bench.ID); err != nil {
		t.Fatalf("DeleteExercise: %v", err)
	}
	got, _ := s.Get(ctx, tpl.ID)
	if len(got.Exercises) != 1 || got.Exercises[0].ID != dips.ID {
		t.Errorf("exercises after delete = %+v, want only dips", got.Exercises)
	}

	if err := s.DeleteExercise(ctx, tpl.ID, "ghost"); err != nil {
		t.Errorf("DeleteExercise unknown exercise: %v", err)
	}
	if err := s.DeleteExercise(ctx, "ghost", bench.ID); err != nil {
		t.Errorf("DeleteExercise unknown template: %v", err)
	}
}

// TestAllExercisesFlatDedup verifies that two exercises sharing a
// case-insensitive name and muscle group collapse to the first occurrence,
// while a different muscle group keeps both.
func TestAllExercisesFlatDedup(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, "Lower A")
	b, _ := s.Create(ctx, "Lower B")
	first, _ := s.AddExercise(ctx, a.ID, "Squat", "Legs")
	s.AddExercise(ctx, b.ID, "squat", "Legs")
	s.AddExercise(ctx, b.ID, "Squat", "Glutes")

	flat, err := s.AllExercisesFlat(ctx)
	if err != nil {
		t.Fatalf("AllExercisesFlat: %v", err)
	}
	if len(flat) != 2 {
		t.Fatalf("got %d exercises, want 2: %+v", len(flat), flat)
	}
	if flat[0].ID != first.ID {
		t.Errorf("first occurrence should win, got %+v", flat[0])
	}
}

// TestResolveExerciseName verifies lookup across templates and the empty
// result for deleted exercises.
func TestResolveExerciseName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tpl, _ := s.Create(ctx, "Push Day")
	bench, _ := s.AddExercise(ctx, tpl.ID, "Bench", "Chest")

	name, err := s.ResolveExerciseName(ctx, bench.ID)
	if err != nil {
		t.Fatalf("ResolveExerciseName: %v", err)
	}
	if name != "Bench" {
		t.Errorf("name = %q, want Bench", name)
	}

	s.DeleteExercise(ctx, tpl.ID, bench.ID)
	name, _ = s.ResolveExerciseName(ctx, bench.ID)
	if name != "" {
		t.Errorf("name after delete = %q, want empty", name)
	}
}

// TestStorageFailurePropagates verifies backend failure surfaces as an error
// instead of being swallowed as an empty catalog.
func TestStorageFailurePropagates(t *testing.T) {
	s, kv := newTestStore(t)
	kv.FailWith = storage.ErrUnavailable

	if _, err := s.List(context.Background()); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("List with failing backend: err = %v, want ErrUnavailable", err)
	}
	if _, err := s.Create(context.Background(), "Push Day"); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("Create with failing backend: err = %v, want ErrUnavailable", err)
	}
}

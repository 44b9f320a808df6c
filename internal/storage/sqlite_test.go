package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "repbook.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

// TestGetAbsent verifies that a never-written key reports absence, not an
// error.
func TestGetAbsent(t *testing.T) {
	kv := openTemp(t)

	_, ok, err := kv.Get(context.Background(), KeyTemplates)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for unwritten key")
	}
}

// TestSetGetRoundTrip verifies a written blob reads back byte-identical.
func TestSetGetRoundTrip(t *testing.T) {
	kv := openTemp(t)
	ctx := context.Background()

	want := []byte(`[{"id":"t1","name":"Push Day","exercises":[]}]`)
	if err := kv.Set(ctx, KeyTemplates, want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := kv.Get(ctx, KeyTemplates)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after Set")
	}
	if string(got) != string(want) {
		t.Errorf("Get = %s, want %s", got, want)
	}
}

// TestSetOverwrites verifies Set replaces the blob wholesale — last full
// write wins.
func TestSetOverwrites(t *testing.T) {
	kv := openTemp(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeySessions, []byte(`["old"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, KeySessions, []byte(`["new"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _, err := kv.Get(ctx, KeySessions)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `["new"]` {
		t.Errorf("Get = %s, want [\"new\"]", got)
	}
}

// TestKeysIndependent verifies the two logical keys do not clobber each
// other: each store is its own consistency unit.
func TestKeysIndependent(t *testing.T) {
	kv := openTemp(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeyTemplates, []byte("templates-blob")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, KeySessions, []byte("sessions-blob")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _, _ := kv.Get(ctx, KeyTemplates)
	if string(got) != "templates-blob" {
		t.Errorf("templates key = %s, want templates-blob", got)
	}
	got, _, _ = kv.Get(ctx, KeySessions)
	if string(got) != "sessions-blob" {
		t.Errorf("sessions key = %s, want sessions-blob", got)
	}
}

// TestReopenPersists verifies data survives close/reopen of the same file.
func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repbook.db")
	ctx := context.Background()

	kv, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := kv.Set(ctx, KeyTemplates, []byte("persisted")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	kv.Close()

	kv2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()

	got, ok, err := kv2.Get(ctx, KeyTemplates)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get = %s, want persisted", got)
	}
}

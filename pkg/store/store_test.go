package store

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := s.Load(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected absent, ok=%v err=%v", ok, err)
	}

	if err := s.Save(ctx, "k", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, ok, err := s.Load(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(b) != `[{"id":"a"}]` {
		t.Fatalf("unexpected payload %q", b)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if _, ok, _ := s.Load(ctx, "speeches"); ok {
		t.Fatalf("expected absent before save")
	}
	if err := s.Save(ctx, "speeches", []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, ok, err := s.Load(ctx, "speeches")
	if err != nil || !ok || string(b) != `[]` {
		t.Fatalf("load mismatch: %q ok=%v err=%v", b, ok, err)
	}

	// overwrite keeps latest
	if err := s.Save(ctx, "speeches", []byte(`[1]`)); err != nil {
		t.Fatalf("save2: %v", err)
	}
	b, _, _ = s.Load(ctx, "speeches")
	if string(b) != `[1]` {
		t.Fatalf("overwrite lost, got %q", b)
	}
}

package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chalk.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleObject(name string) BoardObject {
	return BoardObject{
		BoardID:    "board-1",
		Name:       name,
		Kind:       KindText,
		PosX:       640,
		PosY:       360,
		Scale:      1.0,
		LetterSize: 34,
		LetterGap:  1.5,
		Metadata:   map[string]any{"text": "hello"},
	}
}

func TestStore_SaveAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleObject("heading-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, sampleObject("bullet-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	objs, err := s.List(ctx, "board-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("got %d objects, want 2", len(objs))
	}

	got := objs[0]
	if got.Name != "bullet-1" && got.Name != "heading-1" {
		t.Errorf("unexpected object %q", got.Name)
	}
	if got.PosX != 640 || got.LetterSize != 34 {
		t.Errorf("fields = %+v", got)
	}
	if got.Metadata["text"] != "hello" {
		t.Errorf("metadata = %+v", got.Metadata)
	}
}

func TestStore_ListScopesByBoard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := sampleObject("obj")
	b := sampleObject("obj")
	b.BoardID = "board-2"
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, b); err != nil {
		t.Fatalf("Save: %v", err)
	}

	objs, err := s.List(ctx, "board-2")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 || objs[0].BoardID != "board-2" {
		t.Errorf("objects = %+v", objs)
	}
}

func TestStore_SaveUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	obj := sampleObject("heading-1")
	if err := s.Save(ctx, obj); err != nil {
		t.Fatalf("Save: %v", err)
	}

	obj.PosY = 999
	obj.Metadata = map[string]any{"text": "updated"}
	if err := s.Save(ctx, obj); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	objs, err := s.List(ctx, "board-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("got %d objects after upsert, want 1", len(objs))
	}
	if objs[0].PosY != 999 || objs[0].Metadata["text"] != "updated" {
		t.Errorf("upserted object = %+v", objs[0])
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleObject("heading-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "board-1", "heading-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "board-1", "missing"); err != nil {
		t.Errorf("Delete of missing record = %v, want nil", err)
	}

	objs, err := s.List(ctx, "board-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 0 {
		t.Errorf("got %d objects after delete, want 0", len(objs))
	}
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, sampleObject(name)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := s.Clear(ctx, "board-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	objs, err := s.List(ctx, "board-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 0 {
		t.Errorf("got %d objects after clear, want 0", len(objs))
	}
}

func TestAsync_SaveAndDelete(t *testing.T) {
	s := openTestStore(t)
	a := NewAsync(s, nil)

	a.SaveAsync(sampleObject("heading-1"))
	a.SaveAsync(sampleObject("bullet-1"))
	a.Flush()

	ctx := context.Background()
	objs, err := s.List(ctx, "board-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("got %d objects after async saves, want 2", len(objs))
	}

	a.DeleteAsync("board-1", "heading-1")
	a.Flush()

	objs, err = s.List(ctx, "board-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 || objs[0].Name != "bullet-1" {
		t.Errorf("objects after async delete = %+v", objs)
	}
}

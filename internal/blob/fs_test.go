package blob

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestFilesystemRoundTrip(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	info, err := s.Put(ctx, "snapshots/a.json", strings.NewReader(`{"x":1}`), PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"keys": "1"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 7 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}

	got, body, err := s.Get(ctx, "snapshots/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := io.ReadAll(body)
	_ = body.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"x":1}` {
		t.Fatalf("unexpected content %s", data)
	}
	if got.ContentType != "application/json" || got.Metadata["keys"] != "1" {
		t.Fatalf("sidecar metadata lost: %+v", got)
	}

	head, err := s.Head(ctx, "snapshots/a.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.ETag != info.ETag {
		t.Fatalf("etag mismatch: %s vs %s", head.ETag, info.ETag)
	}
}

func TestFilesystemPutOverwrites(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if _, err := s.Put(ctx, "k", strings.NewReader("one"), PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(ctx, "k", strings.NewReader("two"), PutOptions{}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	_, body, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(body)
	_ = body.Close()
	if string(data) != "two" {
		t.Fatalf("overwrite not applied: %s", data)
	}
}

func TestFilesystemListAndDelete(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"snapshots/b.json", "snapshots/a.json", "other/x"} {
		if _, err := s.Put(ctx, key, strings.NewReader("data"), PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := s.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "snapshots/a.json" {
		t.Fatalf("unexpected listing %+v", infos)
	}

	removed, err := s.Delete(ctx, "snapshots/a.json")
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	removed, err = s.Delete(ctx, "snapshots/a.json")
	if err != nil || removed {
		t.Fatalf("second delete must be a no-op: removed=%v err=%v", removed, err)
	}
}

func TestSanitizeKey(t *testing.T) {
	bad := []string{"", "  ", "../escape", "a/../../b", "/absolute"}
	for _, key := range bad {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
	good := map[string]string{
		"snapshots/a.json": "snapshots/a.json",
		"./a":              "a",
	}
	for in, want := range good {
		got, err := sanitizeKey(in)
		if err != nil {
			t.Fatalf("sanitize %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("sanitize %q: got %q want %q", in, got, want)
		}
	}
}

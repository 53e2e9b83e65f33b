package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorePutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, "a.json", []byte(`{"x":1}`), "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "a.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"x":1}` {
		t.Errorf("Get = %s", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLocalStoreNotFound(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "missing.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPutJSONFormatting(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	v := map[string]string{"link": "https://example.com/?a=1&b=<2>"}
	if err := PutJSON(ctx, s, "v.json", v); err != nil {
		t.Fatalf("PutJSON: %v", err)
	}
	got, _ := s.Get(ctx, "v.json")
	want := "{\n  \"link\": \"https://example.com/?a=1&b=<2>\"\n}\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}

	var back map[string]string
	if err := GetJSON(ctx, s, "v.json", &back); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if back["link"] != v["link"] {
		t.Errorf("round trip = %v", back)
	}
}

func TestNewLocalUnwritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLocal(filepath.Join(file, "sub")); err == nil {
		t.Error("expected error creating directory under a regular file")
	}
}

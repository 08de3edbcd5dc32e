package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeBinary(t *testing.T, root, version, name string) string {
	t.Helper()

	dir := filepath.Join(root, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create version dir: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	return path
}

func TestFindExactVersion(t *testing.T) {
	root := t.TempDir()
	want := writeBinary(t, root, "1.12.0", "terraform")

	c := New(root, "terraform")

	got, ok := c.Find("1.12.0")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindExactVersionMiss(t *testing.T) {
	root := t.TempDir()
	writeBinary(t, root, "1.11.0", "terraform")

	c := New(root, "terraform")

	// Exact mode must not substitute a different cached version.
	if _, ok := c.Find("1.12.0"); ok {
		t.Error("exact lookup returned a different version")
	}
}

func TestBestAvailable(t *testing.T) {
	root := t.TempDir()
	writeBinary(t, root, "1.9.8", "terraform")
	want := writeBinary(t, root, "1.12.0", "terraform")
	writeBinary(t, root, "1.10.5", "terraform")

	c := New(root, "terraform")

	got, ok := c.Find("")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("got %q, want highest version %q", got, want)
	}
}

func TestBestSkipsNonVersionDirectories(t *testing.T) {
	root := t.TempDir()
	want := writeBinary(t, root, "1.2.3", "terraform")

	// Entries that must be ignored by the scan.
	writeBinary(t, root, "not-a-version", "terraform")
	writeBinary(t, root, "1.2", "terraform")
	if err := os.WriteFile(filepath.Join(root, "latest-version.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c := New(root, "terraform")

	got, ok := c.Best()
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBestSkipsVersionDirWithoutBinary(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "1.12.0"), 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	want := writeBinary(t, root, "1.11.0", "terraform")

	c := New(root, "terraform")

	got, ok := c.Best()
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMissingCacheRootIsAMiss(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "does-not-exist"), "terraform")

	if _, ok := c.Find(""); ok {
		t.Error("missing cache root reported a hit")
	}
	if _, ok := c.Find("1.0.0"); ok {
		t.Error("missing cache root reported a hit for exact lookup")
	}
}

func TestFindIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeBinary(t, root, "1.12.0", "terraform")

	c := New(root, "terraform")

	first, ok1 := c.Find("")
	second, ok2 := c.Find("")
	if ok1 != ok2 || first != second {
		t.Errorf("repeated lookup diverged: (%q, %v) vs (%q, %v)", first, ok1, second, ok2)
	}
}

func TestEmptyBinaryIsAMiss(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "1.12.0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "terraform"), nil, 0o755); err != nil {
		t.Fatalf("write file: %v", err)
	}

	c := New(root, "terraform")

	if _, ok := c.Find("1.12.0"); ok {
		t.Error("zero-byte binary reported as a hit")
	}
}

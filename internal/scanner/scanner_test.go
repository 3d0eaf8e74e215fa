package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectArtifactType(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string][]byte{
		"tachiyomi-en.comix-v1.4.3.apk": []byte("not really a zip"),
		"renamed.bin":                   append([]byte{0x50, 0x4B, 0x03, 0x04}, []byte("rest")...),
		"eu.kanade.png":                 []byte("x"),
		"icon-without-ext":              []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
		"README":                        []byte("hi"),
		"empty":                         {},
	}
	want := map[string]ArtifactType{
		"tachiyomi-en.comix-v1.4.3.apk": TypeApk,
		"renamed.bin":                   TypeApk,
		"eu.kanade.png":                 TypeIcon,
		"icon-without-ext":              TypeIcon,
		"README":                        TypeUnknown,
		"empty":                         TypeUnknown,
	}

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), data, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	for name, expected := range want {
		got, err := DetectArtifactType(filepath.Join(tmpDir, name))
		if err != nil {
			t.Errorf("DetectArtifactType(%s) error: %v", name, err)
			continue
		}
		if got != expected {
			t.Errorf("DetectArtifactType(%s) = %s, want %s", name, got, expected)
		}
	}
}

func TestScanIncludesNestedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	os.MkdirAll(filepath.Join(tmpDir, "sub"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "a.apk"), []byte("a"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "sub", "b.png"), []byte("bb"), 0644)

	artifacts, err := NewFileSystemScanner().Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	byRel := make(map[string]ScannedArtifact)
	for _, a := range artifacts {
		byRel[a.RelPath] = a
	}

	if len(byRel) != 2 {
		t.Fatalf("expected 2 artifacts, got %d: %+v", len(byRel), artifacts)
	}
	if a := byRel["a.apk"]; a.Type != TypeApk || a.Size != 1 {
		t.Errorf("unexpected a.apk artifact: %+v", a)
	}
	if a := byRel["sub/b.png"]; a.Type != TypeIcon || a.Size != 2 {
		t.Errorf("unexpected sub/b.png artifact: %+v", a)
	}
}

func TestScanHonorsCancellation(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "a.apk"), []byte("a"), 0644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFileSystemScanner().Scan(ctx, tmpDir); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestScanMissingDirectory(t *testing.T) {
	if _, err := NewFileSystemScanner().Scan(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

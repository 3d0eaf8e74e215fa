package utils

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestCalculateChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.apk")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	sum, err := CalculateChecksum(path)
	if err != nil {
		t.Fatalf("CalculateChecksum failed: %v", err)
	}

	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if sum.SHA256 != want {
		t.Errorf("SHA256 = %s, want %s", sum.SHA256, want)
	}
	if sum.Size != 5 {
		t.Errorf("Size = %d, want 5", sum.Size)
	}
}

func TestCopyFileOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.apk")
	dst := filepath.Join(tmpDir, "nested", "dir", "dst.apk")

	os.WriteFile(src, []byte("new content"), 0644)
	os.MkdirAll(filepath.Dir(dst), 0755)
	os.WriteFile(dst, []byte("old content that is longer"), 0644)

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Failed to read destination: %v", err)
	}
	if string(got) != "new content" {
		t.Errorf("destination content = %q", got)
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.png")

	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("removing a missing file should be a no-op, got %v", err)
	}

	os.WriteFile(path, []byte("x"), 0644)
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists failed: %v", err)
	}
	if FileExists(path) {
		t.Errorf("file still exists after removal")
	}
}

func TestGzipRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte(`{"pkg":"eu.kanade.tachiyomi.extension.en.comix"}`), 50)

	compressed, err := GzipCompress(data)
	if err != nil {
		t.Fatalf("GzipCompress failed: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("compressed size %d not smaller than input %d", len(compressed), len(data))
	}

	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("gzip.NewReader failed: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("round trip mismatch")
	}
}

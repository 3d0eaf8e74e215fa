package index

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/salmanbappi/extrepo/internal/models"
	"github.com/klauspost/compress/gzip"
	"github.com/salmanbappi/extrepo/internal/utils"
)

type fakeSigner struct {
	fail bool
}

func (f *fakeSigner) SignDetached(data []byte) ([]byte, error) {
	if f.fail {
		return nil, errors.New("no key")
	}
	return append([]byte("sig:"), data...), nil
}

func (f *fakeSigner) GetPublicKey() ([]byte, error) {
	return []byte("pub"), nil
}

func testEntries() []models.Entry {
	return []models.Entry{
		{Name: "Tachiyomi: Comix", Pkg: "eu.kanade.tachiyomi.extension.en.comix", Apk: "tachiyomi-en.comix-v1.4.3.apk", Lang: "en", Code: 3, Version: "1.4.3", Sig: "s"},
	}
}

func TestGenerateWritesBothVariants(t *testing.T) {
	tmpDir := t.TempDir()
	gen := NewGenerator(nil)
	config := &models.RepositoryConfig{RemoteDir: tmpDir}

	if err := gen.Generate(context.Background(), config, testEntries()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	pretty, err := os.ReadFile(filepath.Join(tmpDir, IndexFile))
	if err != nil {
		t.Fatalf("index.json not written: %v", err)
	}
	minified, err := os.ReadFile(filepath.Join(tmpDir, MinIndexFile))
	if err != nil {
		t.Fatalf("index.min.json not written: %v", err)
	}

	if !bytes.Contains(pretty, []byte("\n    \"pkg\": \"eu.kanade.tachiyomi.extension.en.comix\"")) {
		t.Errorf("index.json is not indented:\n%s", pretty)
	}
	if !bytes.Contains(minified, []byte(`{"name":"Tachiyomi: Comix","pkg":`)) {
		t.Errorf("index.min.json is not compact:\n%s", minified)
	}
	if bytes.Contains(minified, []byte("\n")) {
		t.Errorf("index.min.json contains newlines")
	}

	if utils.FileExists(filepath.Join(tmpDir, GzipIndexFile)) {
		t.Errorf("gzip index written without --gzip")
	}
	if utils.FileExists(filepath.Join(tmpDir, SignatureFile)) {
		t.Errorf("signature written without signer")
	}
}

func TestGenerateGzipAndSignature(t *testing.T) {
	tmpDir := t.TempDir()
	gen := NewGenerator(&fakeSigner{})
	config := &models.RepositoryConfig{RemoteDir: tmpDir, Gzip: true}

	if err := gen.Generate(context.Background(), config, testEntries()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	minified, _ := os.ReadFile(filepath.Join(tmpDir, MinIndexFile))

	gz, err := os.ReadFile(filepath.Join(tmpDir, GzipIndexFile))
	if err != nil {
		t.Fatalf("gzip index not written: %v", err)
	}
	r, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		t.Fatalf("gzip index unreadable: %v", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("gzip index unreadable: %v", err)
	}
	if !bytes.Equal(plain, minified) {
		t.Errorf("gzip index does not match index.min.json")
	}

	sig, err := os.ReadFile(filepath.Join(tmpDir, SignatureFile))
	if err != nil {
		t.Fatalf("signature not written: %v", err)
	}
	if !bytes.Equal(sig, append([]byte("sig:"), minified...)) {
		t.Errorf("signature does not cover index.min.json")
	}
	if !utils.FileExists(filepath.Join(tmpDir, PublicKeyFile)) {
		t.Errorf("public key not written")
	}
}

func TestGenerateSigningFailure(t *testing.T) {
	gen := NewGenerator(&fakeSigner{fail: true})
	config := &models.RepositoryConfig{RemoteDir: t.TempDir()}

	err := gen.Generate(context.Background(), config, testEntries())
	var repoErr *models.RepoError
	if !errors.As(err, &repoErr) || repoErr.Type != models.ErrSigning {
		t.Fatalf("expected signing error, got %v", err)
	}
}

func TestValidateEntries(t *testing.T) {
	gen := NewGenerator(nil)

	if err := gen.ValidateEntries(testEntries()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	dup := append(testEntries(), testEntries()...)
	if err := gen.ValidateEntries(dup); err == nil {
		t.Errorf("expected duplicate pkg error")
	}
	if err := gen.ValidateEntries([]models.Entry{{Name: "no pkg"}}); err == nil {
		t.Errorf("expected missing pkg error")
	}
}

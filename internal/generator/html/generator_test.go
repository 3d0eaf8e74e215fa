package html

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmanbappi/extrepo/internal/models"
)

func TestRenderPage(t *testing.T) {
	entries := []models.Entry{
		{Name: "Tachiyomi: Comix", Pkg: "a.comix", Apk: "tachiyomi-en.comix-v1.4.3.apk"},
		{Name: "Tom & Jerry <3>", Pkg: "a.tj", Apk: "old/dir/tachiyomi-en.tj-v1.4.1.apk"},
	}

	page := string(RenderPage(entries))

	if !strings.HasPrefix(page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>apks</title>") {
		t.Errorf("unexpected page header:\n%s", page)
	}
	if !strings.Contains(page, "<a href=\"apk/tachiyomi-en.comix-v1.4.3.apk\">Tachiyomi: Comix</a>\n") {
		t.Errorf("missing comix link:\n%s", page)
	}
	if !strings.Contains(page, "<a href=\"apk/tachiyomi-en.tj-v1.4.1.apk\">Tom &amp; Jerry &lt;3&gt;</a>\n") {
		t.Errorf("name not escaped or apk not reduced to basename:\n%s", page)
	}
	if !strings.HasSuffix(page, "</pre>\n</body>\n</html>\n") {
		t.Errorf("unexpected page footer:\n%s", page)
	}
}

func TestGenerateWritesPage(t *testing.T) {
	tmpDir := t.TempDir()
	gen := NewGenerator()

	entries := []models.Entry{{Name: "X", Pkg: "a.x", Apk: "x.apk"}}
	if err := gen.ValidateEntries(entries); err != nil {
		t.Fatalf("ValidateEntries failed: %v", err)
	}
	if err := gen.Generate(context.Background(), &models.RepositoryConfig{RemoteDir: tmpDir}, entries); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, PageFile))
	if err != nil {
		t.Fatalf("index.html not written: %v", err)
	}
	if !strings.Contains(string(data), `<a href="apk/x.apk">X</a>`) {
		t.Errorf("link missing:\n%s", data)
	}

}

func TestEntryWithoutApkIsListed(t *testing.T) {
	entries := []models.Entry{{Name: "Old", Pkg: "a.old"}}

	if err := NewGenerator().ValidateEntries(entries); err != nil {
		t.Fatalf("entry without apk rejected: %v", err)
	}
	if page := string(RenderPage(entries)); !strings.Contains(page, "<a href=\"apk/\">Old</a>\n") {
		t.Errorf("expected bare apk/ link:\n%s", page)
	}
}

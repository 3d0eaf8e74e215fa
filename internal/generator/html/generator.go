package html

import (
	"context"
	"fmt"
	stdhtml "html"
	"path"
	"path/filepath"
	"strings"

	"github.com/salmanbappi/extrepo/internal/generator"
	"github.com/salmanbappi/extrepo/internal/models"
	"github.com/salmanbappi/extrepo/internal/utils"
	"github.com/sirupsen/logrus"
)

// PageFile is the browsable listing
const PageFile = "index.html"

// Generator writes the HTML listing of downloadable packages
type Generator struct{}

// NewGenerator creates an HTML listing generator
func NewGenerator() generator.Generator {
	return &Generator{}
}

// Generate writes index.html
func (g *Generator) Generate(ctx context.Context, config *models.RepositoryConfig, entries []models.Entry) error {
	page := RenderPage(entries)
	if err := utils.WriteFile(filepath.Join(config.RemoteDir, PageFile), page, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", PageFile, err)
	}

	logrus.Debugf("Wrote %s (%d links)", PageFile, len(entries))
	return nil
}

// RenderPage builds the listing: one link per entry to apk/<file>. An entry
// without an apk still gets a link to the apk/ directory.
func RenderPage(entries []models.Entry) []byte {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>apks</title>\n</head>\n<body>\n<pre>\n")
	for _, e := range entries {
		href := "apk/"
		if e.Apk != "" {
			href += stdhtml.EscapeString(path.Base(e.Apk))
		}
		fmt.Fprintf(&b, "<a href=\"%s\">%s</a>\n", href, stdhtml.EscapeString(e.Name))
	}
	b.WriteString("</pre>\n</body>\n</html>\n")

	return []byte(b.String())
}

// ValidateEntries warns about entries without an artifact; they are listed
// with a bare apk/ link.
func (g *Generator) ValidateEntries(entries []models.Entry) error {
	for _, e := range entries {
		if e.Apk == "" {
			logrus.Warnf("Entry %s has no apk, listing it without a file link", e.Pkg)
		}
	}
	return nil
}

// Name returns the generator name
func (g *Generator) Name() string {
	return "html"
}

package repometa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/salmanbappi/extrepo/internal/generator"
	"github.com/salmanbappi/extrepo/internal/models"
	"github.com/salmanbappi/extrepo/internal/utils"
)

// RepoFile holds repository metadata, never the catalog itself
const RepoFile = "repo.json"

// Generator writes repo.json
type Generator struct{}

// NewGenerator creates a repository metadata generator
func NewGenerator() generator.Generator {
	return &Generator{}
}

// Generate writes config.Meta to repo.json
func (g *Generator) Generate(ctx context.Context, config *models.RepositoryConfig, entries []models.Entry) error {
	data, err := Render(config.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", RepoFile, err)
	}
	if err := utils.WriteFile(filepath.Join(config.RemoteDir, RepoFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", RepoFile, err)
	}
	return nil
}

// Render encodes the metadata document with two-space indentation
func Render(meta models.RepoMeta) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(models.RepoInfo{Meta: meta}); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ValidateEntries has nothing to check; repo.json does not list entries
func (g *Generator) ValidateEntries(entries []models.Entry) error {
	return nil
}

// Name returns the generator name
func (g *Generator) Name() string {
	return "repometa"
}

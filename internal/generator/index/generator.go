package index

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/salmanbappi/extrepo/internal/catalog"
	"github.com/salmanbappi/extrepo/internal/generator"
	"github.com/salmanbappi/extrepo/internal/models"
	"github.com/salmanbappi/extrepo/internal/signer"
	"github.com/salmanbappi/extrepo/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	IndexFile     = "index.json"
	MinIndexFile  = "index.min.json"
	GzipIndexFile = "index.min.json.gz"
	SignatureFile = "index.min.json.asc"
	PublicKeyFile = "pubkey.asc"
)

// Generator writes the JSON catalog files
type Generator struct {
	signer signer.Signer
}

// NewGenerator creates a catalog generator. s may be nil for unsigned repositories.
func NewGenerator(s signer.Signer) generator.Generator {
	return &Generator{signer: s}
}

// Generate writes index.json and index.min.json, plus the optional gzip and
// signature files.
func (g *Generator) Generate(ctx context.Context, config *models.RepositoryConfig, entries []models.Entry) error {
	pretty, err := catalog.EncodeIndented(entries)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", IndexFile, err)
	}
	if err := utils.WriteFile(filepath.Join(config.RemoteDir, IndexFile), pretty, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", IndexFile, err)
	}

	minified, err := catalog.EncodeMinified(entries)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", MinIndexFile, err)
	}
	if err := utils.WriteFile(filepath.Join(config.RemoteDir, MinIndexFile), minified, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", MinIndexFile, err)
	}

	if config.Gzip {
		gz, err := utils.GzipCompress(minified)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", MinIndexFile, err)
		}
		if err := utils.WriteFile(filepath.Join(config.RemoteDir, GzipIndexFile), gz, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", GzipIndexFile, err)
		}
	}

	// Sign if signer available
	if g.signer != nil {
		signature, err := g.signer.SignDetached(minified)
		if err != nil {
			return models.NewError(models.ErrSigning, fmt.Errorf("failed to sign %s: %w", MinIndexFile, err))
		}
		if err := utils.WriteFile(filepath.Join(config.RemoteDir, SignatureFile), signature, 0644); err != nil {
			return fmt.Errorf("failed to write signature: %w", err)
		}

		pub, err := g.signer.GetPublicKey()
		if err != nil {
			return models.NewError(models.ErrSigning, fmt.Errorf("failed to export public key: %w", err))
		}
		if err := utils.WriteFile(filepath.Join(config.RemoteDir, PublicKeyFile), pub, 0644); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}

		logrus.Infof("%s signed successfully", MinIndexFile)
	}

	logrus.Infof("Wrote catalog with %d entries", len(entries))
	return nil
}

// ValidateEntries rejects catalogs with missing or repeated package names
func (g *Generator) ValidateEntries(entries []models.Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Pkg == "" {
			return fmt.Errorf("entry missing pkg: %s", e.Name)
		}
		if seen[e.Pkg] {
			return fmt.Errorf("duplicate pkg: %s", e.Pkg)
		}
		seen[e.Pkg] = true
	}
	return nil
}

// Name returns the generator name
func (g *Generator) Name() string {
	return "index"
}

package generator

import (
	"context"

	"github.com/salmanbappi/extrepo/internal/models"
)

// Generator writes one family of published repository files
type Generator interface {
	// Generate writes the files for the merged catalog into config.RemoteDir
	Generate(ctx context.Context, config *models.RepositoryConfig, entries []models.Entry) error

	// ValidateEntries checks that entries carry what this generator needs
	ValidateEntries(entries []models.Entry) error

	// Name identifies the generator in logs
	Name() string
}

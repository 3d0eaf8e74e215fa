package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner interface for filesystem scanning
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan recursively lists every regular file under dir. Files of unknown type
// are included so callers can mirror the directory as-is.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedArtifact, error) {
	var artifacts []ScannedArtifact

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		artifactType, err := s.DetectType(path)
		if err != nil {
			logrus.Warnf("Failed to detect type for %s: %v", path, err)
			artifactType = TypeUnknown
		}

		logrus.Debugf("Found %s artifact: %s", artifactType, path)

		artifacts = append(artifacts, ScannedArtifact{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Type:    artifactType,
			Size:    info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Debugf("Found %d files in %s", len(artifacts), dir)
	return artifacts, nil
}

// DetectType determines the artifact type of a file
func (s *FileSystemScanner) DetectType(path string) (ArtifactType, error) {
	return DetectArtifactType(path)
}

package scanner

import "context"

// ArtifactType represents the kind of file found in a repository directory
type ArtifactType int

const (
	TypeUnknown ArtifactType = iota
	TypeApk
	TypeIcon
)

// String returns the string representation of ArtifactType
func (at ArtifactType) String() string {
	switch at {
	case TypeApk:
		return "apk"
	case TypeIcon:
		return "icon"
	default:
		return "unknown"
	}
}

// ScannedArtifact represents a file found during scanning
type ScannedArtifact struct {
	Path    string // Absolute or caller-relative path on disk
	RelPath string // Path relative to the scanned root, slash separated
	Type    ArtifactType
	Size    int64
}

// Scanner interface for enumerating repository artifacts
type Scanner interface {
	// Scan recursively scans a directory for artifacts
	Scan(ctx context.Context, dir string) ([]ScannedArtifact, error)

	// DetectType determines the artifact type of a file
	DetectType(path string) (ArtifactType, error)
}

package scanner

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for artifact detection
var (
	// Android packages are zip archives
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

	// PNG signature
	pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// DetectArtifactType determines the artifact type from magic bytes and file extension
func DetectArtifactType(path string) (ArtifactType, error) {
	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return TypeUnknown, err
	}
	header = header[:n]

	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".apk" || bytes.HasPrefix(header, zipMagic) {
		return TypeApk, nil
	}

	if ext == ".png" || bytes.HasPrefix(header, pngMagic) {
		return TypeIcon, nil
	}

	return TypeUnknown, nil
}

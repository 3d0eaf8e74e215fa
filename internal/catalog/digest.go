package catalog

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gowebpki/jcs"
	"github.com/salmanbappi/extrepo/internal/models"
)

// Digest returns the sha256 of the RFC 8785 canonical form of the catalog,
// so formatting differences never change it.
func Digest(entries []models.Entry) (string, error) {
	raw, err := EncodeMinified(entries)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

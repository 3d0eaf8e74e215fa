package signer

// Signer signs published index files
type Signer interface {
	// SignDetached creates an armored detached signature (index.min.json.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the armored public key clients verify against
	GetPublicKey() ([]byte, error)
}

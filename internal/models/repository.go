package models

// RepositoryConfig contains configuration for a merge run
type RepositoryConfig struct {
	// Input/Output
	RemoteDir string // Persisted repository checkout, updated in place
	LocalDir  string // Fragment built by the current CI run

	// Modules whose artifacts and entries are removed
	Deletions []string

	// Repository metadata written to repo.json
	Meta RepoMeta

	// DefaultSig is backfilled into entries that carry no signing fingerprint
	DefaultSig string

	// PlaceholderMarkers drop stale template entries whose pkg contains one
	PlaceholderMarkers []string

	// Deletion globs; {module} is replaced with the module fragment
	ApkPattern  string
	IconPattern string

	// Optional outputs
	Gzip          bool
	GPGKeyPath    string
	GPGPassphrase string
}

// RepoMeta is the repository-level metadata published in repo.json
type RepoMeta struct {
	Name                  string `json:"name" yaml:"name"`
	ShortName             string `json:"shortName" yaml:"shortName"`
	Website               string `json:"website" yaml:"website"`
	SigningKeyFingerprint string `json:"signingKeyFingerprint" yaml:"signingKeyFingerprint"`
}

// RepoInfo is the document stored in repo.json
type RepoInfo struct {
	Meta RepoMeta `json:"meta"`
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/salmanbappi/extrepo/internal/models"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the remote directory when no --config is given.
const FileName = "extrepo.yaml"

const (
	DefaultApkPattern  = "tachiyomi-{module}-v*.*.*.apk"
	DefaultIconPattern = "eu.kanade.tachiyomi.extension.{module}.png"

	// DefaultSig is the signing certificate fingerprint every package of this
	// repository is built with.
	DefaultSig = "212199045691887b32eb2397f167f4b7d53a73131119975df9914595bc95880a"
)

// File mirrors the YAML config layout. Every field is optional.
type File struct {
	Meta               *models.RepoMeta `yaml:"meta"`
	DefaultSig         string           `yaml:"defaultSig"`
	PlaceholderMarkers []string         `yaml:"placeholderMarkers"`
	ApkPattern         string           `yaml:"apkPattern"`
	IconPattern        string           `yaml:"iconPattern"`
}

// Defaults returns the built-in configuration.
func Defaults() models.RepositoryConfig {
	return models.RepositoryConfig{
		RemoteDir: ".",
		Meta: models.RepoMeta{
			Name:                  "SalmanBappi Manga Repo",
			ShortName:             "SBManga",
			Website:               "https://salmanbappi.github.io/salmanbappi-manga-extension/",
			SigningKeyFingerprint: DefaultSig,
		},
		DefaultSig:         DefaultSig,
		PlaceholderMarkers: []string{"example"},
		ApkPattern:         DefaultApkPattern,
		IconPattern:        DefaultIconPattern,
	}
}

// Load reads a YAML config file. A missing file is reported with
// os.ErrNotExist in the chain so callers can treat it as optional.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// LoadOptional is Load but returns (nil, nil) when the file does not exist.
func LoadOptional(path string) (*File, error) {
	f, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return f, err
}

// Apply overlays the non-empty fields of f onto cfg.
func (f *File) Apply(cfg *models.RepositoryConfig) {
	if f == nil {
		return
	}
	if f.Meta != nil {
		if f.Meta.Name != "" {
			cfg.Meta.Name = f.Meta.Name
		}
		if f.Meta.ShortName != "" {
			cfg.Meta.ShortName = f.Meta.ShortName
		}
		if f.Meta.Website != "" {
			cfg.Meta.Website = f.Meta.Website
		}
		if f.Meta.SigningKeyFingerprint != "" {
			cfg.Meta.SigningKeyFingerprint = f.Meta.SigningKeyFingerprint
		}
	}
	if f.DefaultSig != "" {
		cfg.DefaultSig = f.DefaultSig
	}
	// An explicit empty list disables placeholder filtering.
	if f.PlaceholderMarkers != nil {
		cfg.PlaceholderMarkers = f.PlaceholderMarkers
	}
	if f.ApkPattern != "" {
		cfg.ApkPattern = f.ApkPattern
	}
	if f.IconPattern != "" {
		cfg.IconPattern = f.IconPattern
	}
}

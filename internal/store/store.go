// Package store manages the artifact directories of a repository checkout.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/salmanbappi/extrepo/internal/models"
	"github.com/salmanbappi/extrepo/internal/scanner"
	"github.com/salmanbappi/extrepo/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	ApkDir     = "apk"
	IconDir    = "icon"
	NoJekyll   = ".nojekyll"
	modulePart = "{module}"
)

// Store is a repository directory holding apk/ and icon/ artifacts
type Store struct {
	root    string
	scanner scanner.Scanner
}

// New returns a store rooted at dir
func New(dir string) *Store {
	return &Store{
		root:    dir,
		scanner: scanner.NewFileSystemScanner(),
	}
}

// Path joins elem onto the repository directory
func (s *Store) Path(elem ...string) string {
	return filepath.Join(append([]string{s.root}, elem...)...)
}

// EnsureLayout creates the artifact directories
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{ApkDir, IconDir} {
		if err := utils.EnsureDir(s.Path(dir)); err != nil {
			return models.NewError(models.ErrFileOp, fmt.Errorf("create %s: %w", dir, err))
		}
	}
	return nil
}

// DeleteModules removes the apk and icon files of each module matched through
// the given globs. Unmatched globs and already-removed files are ignored.
func (s *Store) DeleteModules(modules []string, apkPattern, iconPattern string) ([]string, error) {
	var deleted []string

	for _, module := range modules {
		if module == "" {
			continue
		}

		globs := []string{
			s.Path(ApkDir, expandPattern(apkPattern, module)),
			s.Path(IconDir, expandPattern(iconPattern, module)),
		}

		for _, glob := range globs {
			matches, err := filepath.Glob(glob)
			if err != nil {
				return deleted, models.NewError(models.ErrInvalidConfig, fmt.Errorf("bad pattern %q: %w", glob, err))
			}
			for _, match := range matches {
				logrus.Infof("Deleting %s", filepath.Base(match))
				if err := utils.RemoveIfExists(match); err != nil {
					return deleted, &models.RepoError{Type: models.ErrFileOp, Package: module, Err: err}
				}
				deleted = append(deleted, match)
			}
		}
	}

	return deleted, nil
}

func expandPattern(pattern, module string) string {
	return strings.ReplaceAll(pattern, modulePart, module)
}

// CheckFragment verifies that a local fragment has its artifact directories.
func CheckFragment(localDir string) error {
	for _, dir := range []string{ApkDir, IconDir} {
		src := filepath.Join(localDir, dir)
		if !utils.IsDir(src) {
			return models.NewError(models.ErrMissingInput, fmt.Errorf("local %s directory not found: %s", dir, src))
		}
	}
	return nil
}

// Import copies every file under the local apk/ and icon/ directories into the
// store, overwriting files with the same relative path. Both directories must
// exist.
func (s *Store) Import(ctx context.Context, localDir string) ([]scanner.ScannedArtifact, error) {
	if err := CheckFragment(localDir); err != nil {
		return nil, err
	}

	var copied []scanner.ScannedArtifact

	for _, dir := range []string{ApkDir, IconDir} {
		src := filepath.Join(localDir, dir)
		artifacts, err := s.scanner.Scan(ctx, src)
		if err != nil {
			return copied, models.NewError(models.ErrFileOp, err)
		}

		for _, a := range artifacts {
			dst := s.Path(dir, filepath.FromSlash(a.RelPath))
			if err := utils.CopyFile(a.Path, dst); err != nil {
				return copied, models.NewError(models.ErrFileOp, fmt.Errorf("copy %s: %w", a.Path, err))
			}
			logrus.Debugf("Copied %s to %s", a.Path, dst)
			copied = append(copied, a)
		}
	}

	return copied, nil
}

// CopyMarker copies the local .nojekyll file when it exists.
func (s *Store) CopyMarker(localDir string) (bool, error) {
	src := filepath.Join(localDir, NoJekyll)
	if !utils.FileExists(src) {
		return false, nil
	}
	if err := utils.CopyFile(src, s.Path(NoJekyll)); err != nil {
		return false, models.NewError(models.ErrFileOp, fmt.Errorf("copy %s: %w", NoJekyll, err))
	}
	return true, nil
}

// Mismatch describes an entry whose artifact does not match its catalog data
type Mismatch struct {
	Pkg    string
	Apk    string
	Reason string
}

// VerifyArtifacts hashes the stored apk of every entry that declares a
// sha256 or size and reports those that differ or are missing.
func (s *Store) VerifyArtifacts(entries []models.Entry) []Mismatch {
	var mismatches []Mismatch

	for _, e := range entries {
		if e.Apk == "" || (e.SHA256 == "" && e.Size == 0) {
			continue
		}

		path := s.Path(ApkDir, filepath.Base(filepath.FromSlash(e.Apk)))
		sum, err := utils.CalculateChecksum(path)
		if err != nil {
			mismatches = append(mismatches, Mismatch{Pkg: e.Pkg, Apk: e.Apk, Reason: fmt.Sprintf("unreadable: %v", err)})
			continue
		}

		switch {
		case e.SHA256 != "" && !strings.EqualFold(e.SHA256, sum.SHA256):
			mismatches = append(mismatches, Mismatch{Pkg: e.Pkg, Apk: e.Apk, Reason: "sha256 " + sum.SHA256 + " != " + e.SHA256})
		case e.Size != 0 && e.Size != sum.Size:
			mismatches = append(mismatches, Mismatch{Pkg: e.Pkg, Apk: e.Apk, Reason: fmt.Sprintf("size %d != %d", sum.Size, e.Size)})
		}
	}

	return mismatches
}
